package pzem

import "time"

// Variant identifies one of the supported PZEM meter types. DCSolarMeter and
// DCBatteryMeter share the PZEM-017 register layout but carry different
// derived semantics.
type Variant string

const (
	ACLoadMeter    Variant = "pzem016_ac"
	DCSolarMeter   Variant = "pzem017_dc"
	DCBatteryMeter Variant = "pzem017_dc_batt"
)

// DeviceType returns the vendor device designation for the variant.
func (v Variant) DeviceType() string {
	switch v {
	case ACLoadMeter:
		return "PZEM-016_AC"
	case DCSolarMeter, DCBatteryMeter:
		return "PZEM-017_DC"
	}
	return ""
}

// MeasurementPoint returns where in the installation the meter sits.
func (v Variant) MeasurementPoint() string {
	switch v {
	case ACLoadMeter:
		return "inverter_to_load"
	case DCSolarMeter:
		return "solar_to_scc"
	case DCBatteryMeter:
		return "battery_to_inverter"
	}
	return ""
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	AlarmOn  = "ON"
	AlarmOff = "OFF"
)

// Defaults substituted for absent trailing registers on the AC meter.
// Deficiency below a variant's hard minimum is never defaulted over.
const (
	DefaultFrequencyHz = 50.0
	DefaultPowerFactor = 1.0
)

// The PZEM-017 reports under-voltage as an all-ones register, not as any
// nonzero value.
const underVoltageSentinel = 0xFFFF

// Reading is the decoded result of one register block. Exactly one of the
// metrics pointers is non-nil, and only when Status is StatusSuccess.
type Reading struct {
	Variant          Variant   `json:"device_variant"`
	DeviceType       string    `json:"device_type"`
	MeasurementPoint string    `json:"measurement_point"`
	RawRegisters     []uint16  `json:"raw_registers"`
	RegisterCount    int       `json:"register_count"`
	Status           Status    `json:"status"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	ParsedAt         time.Time `json:"parsed_at"`

	ACLoad    *ACLoadMetrics    `json:"ac_load,omitempty"`
	DCSolar   *DCSolarMetrics   `json:"dc_solar,omitempty"`
	DCBattery *DCBatteryMetrics `json:"dc_battery,omitempty"`
}

// OK reports whether the reading decoded successfully.
func (r Reading) OK() bool {
	return r.Status == StatusSuccess
}

// PowerW returns the decoded power for any variant, or 0 for error readings.
func (r Reading) PowerW() float64 {
	switch {
	case r.ACLoad != nil:
		return r.ACLoad.PowerW
	case r.DCSolar != nil:
		return r.DCSolar.PowerW
	case r.DCBattery != nil:
		return r.DCBattery.PowerW
	}
	return 0
}

// VoltageV returns the decoded voltage for any variant, or 0 for error
// readings.
func (r Reading) VoltageV() float64 {
	switch {
	case r.ACLoad != nil:
		return r.ACLoad.VoltageV
	case r.DCSolar != nil:
		return r.DCSolar.VoltageV
	case r.DCBattery != nil:
		return r.DCBattery.VoltageV
	}
	return 0
}
