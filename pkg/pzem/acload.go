package pzem

import "math"

// ACLoadMetrics is the decoded PZEM-016 measurement between the inverter and
// the AC load.
type ACLoadMetrics struct {
	VoltageV    float64 `json:"voltage_v"`
	CurrentA    float64 `json:"current_a"`
	PowerW      float64 `json:"power_w"`
	EnergyWh    int64   `json:"energy_wh"`
	EnergyKWh   float64 `json:"energy_kwh"`
	FrequencyHz float64 `json:"frequency_hz"`
	PowerFactor float64 `json:"power_factor"`
	AlarmStatus string  `json:"alarm_status"`
	AlarmRaw    *uint16 `json:"alarm_raw,omitempty"`

	ApparentPowerVA  float64  `json:"apparent_power_va"`
	ReactivePowerVAR *float64 `json:"reactive_power_var,omitempty"`
}

// PZEM-016 register map:
//
//	[0]   voltage, /10 V
//	[1,2] current, 32-bit, /1000 A
//	[3,4] power, 32-bit, /10 W
//	[5,6] energy, 32-bit, Wh
//	[7]   frequency, /10 Hz (optional, default 50.0)
//	[8]   power factor, /100 (optional, default 1.0)
//	[9]   alarm status (optional, default OFF)
//
// Callers guarantee at least minACLoadRegisters registers, so voltage,
// current and power are always fully addressable; only energy and the
// trailing registers vary with block length.
func decodeACLoad(regs []uint16) *ACLoadMetrics {
	voltage := float64(regs[0]) / 10
	current := float64(Combine32(regs[1], regs[2])) / 1000
	power := float64(Combine32(regs[3], regs[4])) / 10

	var energyWh uint32
	if len(regs) >= 7 {
		energyWh = Combine32(regs[5], regs[6])
	} else {
		energyWh = uint32(regs[5])
	}

	m := &ACLoadMetrics{
		VoltageV:    round(voltage, 1),
		CurrentA:    round(current, 3),
		PowerW:      round(power, 1),
		EnergyWh:    int64(energyWh),
		EnergyKWh:   round(float64(energyWh)/1000, 3),
		FrequencyHz: DefaultFrequencyHz,
		PowerFactor: DefaultPowerFactor,
		AlarmStatus: AlarmOff,
	}

	if len(regs) > 7 {
		m.FrequencyHz = round(float64(regs[7])/10, 1)
	}
	if len(regs) > 8 {
		m.PowerFactor = round(float64(regs[8])/100, 2)
	}
	if len(regs) > 9 {
		raw := regs[9]
		m.AlarmRaw = &raw
		if raw != 0 {
			m.AlarmStatus = AlarmOn
		}
	}

	m.ApparentPowerVA = round(voltage*current, 1)
	if m.PowerFactor > 0 {
		reactive := round(m.ApparentPowerVA*math.Sqrt(1-m.PowerFactor*m.PowerFactor), 1)
		m.ReactivePowerVAR = &reactive
	}

	return m
}
