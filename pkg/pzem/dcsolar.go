package pzem

// DCSolarMetrics is the decoded PZEM-017 measurement between the solar
// panels and the charge controller.
type DCSolarMetrics struct {
	VoltageV             float64 `json:"voltage_v"`
	CurrentA             float64 `json:"current_a"`
	PowerW               float64 `json:"power_w"`
	EnergyWh             int64   `json:"energy_wh"`
	EnergyKWh            float64 `json:"energy_kwh"`
	OverVoltageAlarm     string  `json:"over_voltage_alarm"`
	OverVoltageAlarmRaw  *uint16 `json:"over_voltage_alarm_raw,omitempty"`
	UnderVoltageAlarm    string  `json:"under_voltage_alarm"`
	UnderVoltageAlarmRaw *uint16 `json:"under_voltage_alarm_raw,omitempty"`

	SolarStatus        string `json:"solar_status"`
	EfficiencyEstimate string `json:"efficiency_estimate"`
}

func decodeDCSolar(regs []uint16) *DCSolarMetrics {
	e := decodeDC(regs)

	m := &DCSolarMetrics{
		VoltageV:             round(e.voltage, 2),
		CurrentA:             round(e.current, 3),
		PowerW:               round(e.power, 1),
		EnergyWh:             int64(e.energyWh),
		EnergyKWh:            round(float64(e.energyWh)/1000, 3),
		OverVoltageAlarm:     overVoltageStatus(e.ovRaw),
		OverVoltageAlarmRaw:  e.ovRaw,
		UnderVoltageAlarm:    underVoltageStatus(e.uvRaw),
		UnderVoltageAlarmRaw: e.uvRaw,
		SolarStatus:          classifySolar(e.power),
		EfficiencyEstimate:   "Low",
	}
	if e.voltage > 12 && e.current > 0.1 {
		m.EfficiencyEstimate = "Normal"
	}
	return m
}

func classifySolar(powerW float64) string {
	switch {
	case powerW < 0.5:
		return "No sunlight / Night"
	case powerW < 5.0:
		return "Very low sunlight"
	case powerW < 20.0:
		return "Low sunlight"
	case powerW < 50.0:
		return "Good sunlight"
	default:
		return "Excellent sunlight"
	}
}
