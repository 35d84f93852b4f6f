package pzem

// Diagnostics over decoded readings. Every operation here is pure: it never
// mutates its input and is recomputed on demand from current readings.

const noValidACData = "No valid AC data"
const noValidDCData = "No valid DC data"
const noValidBatteryData = "No valid battery data"

// ACFlowAnalysis classifies the inverter-to-load AC flow. Analysis is the
// sentinel set instead of the classification fields when the input reading
// was not a successful AC decode.
type ACFlowAnalysis struct {
	Analysis          string   `json:"analysis,omitempty"`
	LoadStatus        string   `json:"load_status,omitempty"`
	VoltageStatus     string   `json:"voltage_status,omitempty"`
	PowerFactorStatus string   `json:"power_factor_status,omitempty"`
	Alerts            []string `json:"alerts,omitempty"`
	Insights          []string `json:"insights,omitempty"`
}

// AnalyzeACFlow classifies load level, voltage band and power factor of an
// AC load reading.
func AnalyzeACFlow(r Reading) ACFlowAnalysis {
	if !r.OK() || r.ACLoad == nil {
		return ACFlowAnalysis{Analysis: noValidACData}
	}
	m := r.ACLoad

	a := ACFlowAnalysis{}

	switch {
	case m.PowerW < 10:
		a.LoadStatus = "Very light load"
	case m.PowerW < 50:
		a.LoadStatus = "Light load"
	case m.PowerW < 200:
		a.LoadStatus = "Medium load"
	case m.PowerW < 500:
		a.LoadStatus = "Heavy load"
	default:
		a.LoadStatus = "Very heavy load"
	}

	switch {
	case m.VoltageV < 200:
		a.VoltageStatus = "Low voltage"
		a.Alerts = append(a.Alerts, "⚠️ Low AC voltage detected")
	case m.VoltageV > 240:
		a.VoltageStatus = "High voltage"
		a.Alerts = append(a.Alerts, "⚠️ High AC voltage detected")
	default:
		a.VoltageStatus = "Normal voltage"
	}

	switch {
	case m.PowerFactor < 0.7:
		a.PowerFactorStatus = "Poor (inductive load)"
		a.Insights = append(a.Insights, "💡 Consider power factor correction")
	case m.PowerFactor < 0.9:
		a.PowerFactorStatus = "Fair"
	default:
		a.PowerFactorStatus = "Good"
	}

	return a
}

// SolarAnalysis classifies panel generation and condition.
type SolarAnalysis struct {
	Analysis         string   `json:"analysis,omitempty"`
	GenerationStatus string   `json:"generation_status,omitempty"`
	PanelCondition   string   `json:"panel_condition,omitempty"`
	Alerts           []string `json:"alerts,omitempty"`
	Insights         []string `json:"insights,omitempty"`
}

// AnalyzeSolarGeneration classifies generation level and panel condition of
// a solar reading and surfaces alarm flags as alerts.
func AnalyzeSolarGeneration(r Reading) SolarAnalysis {
	if !r.OK() || r.DCSolar == nil {
		return SolarAnalysis{Analysis: noValidDCData}
	}
	m := r.DCSolar

	a := SolarAnalysis{
		GenerationStatus: "Unknown",
		PanelCondition:   "Unknown",
	}

	switch {
	case m.PowerW < 1:
		a.GenerationStatus = "No generation (night/cloudy)"
	case m.PowerW < 10:
		a.GenerationStatus = "Very low generation"
	case m.PowerW < 50:
		a.GenerationStatus = "Low generation"
	case m.PowerW < 150:
		a.GenerationStatus = "Good generation"
	default:
		a.GenerationStatus = "Excellent generation"
	}

	switch {
	case m.VoltageV > 0.5 && m.CurrentA == 0:
		a.PanelCondition = "Open circuit (no load)"
	case m.VoltageV < 0.5 && m.CurrentA == 0:
		a.PanelCondition = "No sunlight"
	case m.VoltageV > 0.5 && m.CurrentA > 0:
		a.PanelCondition = "Generating power"
	}

	if m.VoltageV > 25 {
		a.Alerts = append(a.Alerts, "⚠️ High DC voltage - check panel connections")
	}
	if m.UnderVoltageAlarm == AlarmOn {
		a.Alerts = append(a.Alerts, "🚨 Under-voltage alarm active")
	}
	if m.OverVoltageAlarm == AlarmOn {
		a.Alerts = append(a.Alerts, "🚨 Over-voltage alarm active")
	}

	return a
}

// BatteryAnalysis surfaces the decoded battery state plus alerts for the
// critical voltage bands.
type BatteryAnalysis struct {
	Analysis      string   `json:"analysis,omitempty"`
	BatteryStatus string   `json:"battery_status,omitempty"`
	SOCEstimate   int      `json:"soc_estimate"`
	FlowStatus    string   `json:"flow_status,omitempty"`
	Alerts        []string `json:"alerts,omitempty"`
	Insights      []string `json:"insights,omitempty"`
}

// AnalyzeBatteryStatus reports battery condition from a battery reading.
// Alerts fire on the two lowest voltage bands and on either voltage alarm
// flag; the bands match the decoder's SOC classification.
func AnalyzeBatteryStatus(r Reading) BatteryAnalysis {
	if !r.OK() || r.DCBattery == nil {
		return BatteryAnalysis{Analysis: noValidBatteryData}
	}
	m := r.DCBattery

	a := BatteryAnalysis{
		BatteryStatus: m.BatteryStatus,
		SOCEstimate:   m.SOCEstimate,
		FlowStatus:    m.FlowStatus,
	}

	switch {
	case m.VoltageV < 10.5:
		a.Alerts = append(a.Alerts, "🚨 Battery critically low - deep discharge")
	case m.VoltageV < 11.5:
		a.Alerts = append(a.Alerts, "⚠️ Battery very low - needs charging")
	}
	if m.UnderVoltageAlarm == AlarmOn {
		a.Alerts = append(a.Alerts, "🚨 Under-voltage alarm active")
	}
	if m.OverVoltageAlarm == AlarmOn {
		a.Alerts = append(a.Alerts, "🚨 Over-voltage alarm active")
	}

	return a
}

// SystemSnapshot holds up to three independently decoded readings for the
// cross-meter efficiency calculation. Battery is optional; AC and Solar are
// required for a result.
type SystemSnapshot struct {
	AC      *Reading
	Solar   *Reading
	Battery *Reading
}

// EfficiencyReport is the cross-meter DC-in versus AC-out balance.
type EfficiencyReport struct {
	SystemEfficiencyPercent float64 `json:"system_efficiency_percent"`
	Status                  string  `json:"status,omitempty"`
	Note                    string  `json:"note,omitempty"`
	SolarInputW             float64 `json:"solar_input_w"`
	BatteryInputW           float64 `json:"battery_input_w"`
	TotalDCInputW           float64 `json:"total_dc_input_w"`
	ACOutputW               float64 `json:"ac_output_w"`
	PowerLossW              float64 `json:"power_loss_w"`
	EfficiencyStatus        string  `json:"efficiency_status,omitempty"`
	Recommendation          string  `json:"recommendation,omitempty"`
}

// ComputeSystemEfficiency relates AC output power to total DC input power.
// Battery power counts as input only while discharging (positive sign).
func ComputeSystemEfficiency(snap SystemSnapshot) EfficiencyReport {
	if snap.AC == nil || !snap.AC.OK() || snap.Solar == nil || !snap.Solar.OK() {
		return EfficiencyReport{Status: "Cannot calculate - insufficient data"}
	}

	solarPower := snap.Solar.PowerW()
	acPower := snap.AC.PowerW()
	var batteryPower float64
	if snap.Battery != nil && snap.Battery.OK() {
		batteryPower = snap.Battery.PowerW()
	}

	totalInput := solarPower
	if batteryPower > 0 {
		totalInput += batteryPower
	}

	if totalInput <= 0 {
		return EfficiencyReport{
			SystemEfficiencyPercent: 0,
			Status:                  "No input power",
			Note:                    "System not generating or discharging",
		}
	}

	efficiency := acPower / totalInput * 100

	report := EfficiencyReport{
		SystemEfficiencyPercent: round(efficiency, 1),
		SolarInputW:             solarPower,
		TotalDCInputW:           totalInput,
		ACOutputW:               acPower,
		PowerLossW:              round(totalInput-acPower, 1),
	}
	if batteryPower > 0 {
		report.BatteryInputW = batteryPower
	}

	switch {
	case efficiency > 90:
		report.EfficiencyStatus = "Excellent"
	case efficiency > 80:
		report.EfficiencyStatus = "Good"
	case efficiency > 70:
		report.EfficiencyStatus = "Fair"
	default:
		report.EfficiencyStatus = "Poor"
		report.Recommendation = "Check system components for issues"
	}

	return report
}
