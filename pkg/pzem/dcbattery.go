package pzem

// DCBatteryMetrics is the decoded PZEM-017 measurement between the battery
// bank and the inverter. Positive power means the battery is discharging,
// negative means it is charging; the power-balance math downstream depends
// on this convention.
type DCBatteryMetrics struct {
	VoltageV             float64 `json:"voltage_v"`
	CurrentA             float64 `json:"current_a"`
	PowerW               float64 `json:"power_w"`
	EnergyWh             int64   `json:"energy_wh"`
	EnergyKWh            float64 `json:"energy_kwh"`
	OverVoltageAlarm     string  `json:"over_voltage_alarm"`
	OverVoltageAlarmRaw  *uint16 `json:"over_voltage_alarm_raw,omitempty"`
	UnderVoltageAlarm    string  `json:"under_voltage_alarm"`
	UnderVoltageAlarmRaw *uint16 `json:"under_voltage_alarm_raw,omitempty"`

	BatteryStatus string `json:"battery_status"`
	SOCEstimate   int    `json:"soc_estimate"`
	FlowDirection string `json:"flow_direction"`
	FlowStatus    string `json:"flow_status"`
}

func decodeDCBattery(regs []uint16) *DCBatteryMetrics {
	e := decodeDC(regs)

	m := &DCBatteryMetrics{
		VoltageV:             round(e.voltage, 2),
		CurrentA:             round(e.current, 3),
		PowerW:               round(e.power, 1),
		EnergyWh:             int64(e.energyWh),
		EnergyKWh:            round(float64(e.energyWh)/1000, 3),
		OverVoltageAlarm:     overVoltageStatus(e.ovRaw),
		OverVoltageAlarmRaw:  e.ovRaw,
		UnderVoltageAlarm:    underVoltageStatus(e.uvRaw),
		UnderVoltageAlarmRaw: e.uvRaw,
	}
	m.BatteryStatus, m.SOCEstimate = classifyBattery(e.voltage)
	m.FlowDirection, m.FlowStatus = classifyBatteryFlow(e.power)
	return m
}

// classifyBattery estimates state of charge from resting voltage bands for a
// 12V lead-acid bank. SOC is a band label, not an integrated figure.
func classifyBattery(voltageV float64) (status string, soc int) {
	switch {
	case voltageV < 10.5:
		return "Critical low - Deep discharge", 0
	case voltageV < 11.5:
		return "Very low - Need charging", 10
	case voltageV < 12.0:
		return "Low - Discharging", 25
	case voltageV < 12.6:
		return "Medium - Normal use", 50
	case voltageV < 13.0:
		return "Good - Well charged", 80
	default:
		return "Full - Fully charged", 100
	}
}

func classifyBatteryFlow(powerW float64) (direction, status string) {
	switch {
	case powerW > 10:
		return "Discharging to load", "Active discharge"
	case powerW > 1:
		return "Light discharge", "Standby discharge"
	case powerW < -10:
		return "Charging from solar", "Active charging"
	case powerW < -1:
		return "Trickle charging", "Maintenance charging"
	default:
		return "No significant flow", "Idle"
	}
}
