package pzem

import (
	"fmt"
	"math"
	"time"
)

// Hard minimum register counts per variant. Anything shorter is an error
// reading, never a partial decode.
const (
	minACLoadRegisters = 6
	minDCRegisters     = 4
)

const (
	errInsufficientACLoad    = "Insufficient data for PZEM-016 AC"
	errInsufficientDCSolar   = "Insufficient data for PZEM-017 DC"
	errInsufficientDCBattery = "Insufficient data for Battery PZEM-017"
)

// Decoder turns raw register blocks into Readings. It is stateless apart
// from the injected clock and safe for concurrent use.
type Decoder struct {
	now func() time.Time
}

// NewDecoder returns a Decoder stamping readings with the given clock.
// A nil clock means time.Now.
func NewDecoder(clock func() time.Time) *Decoder {
	if clock == nil {
		clock = time.Now
	}
	return &Decoder{now: clock}
}

// Decode maps one received register block to a Reading. It never panics:
// any extraction fault is returned as an error Reading carrying the raw
// registers it was given.
func (d *Decoder) Decode(variant Variant, registers []uint16) (reading Reading) {
	raw := append([]uint16(nil), registers...)
	reading = Reading{
		Variant:          variant,
		DeviceType:       variant.DeviceType(),
		MeasurementPoint: variant.MeasurementPoint(),
		RawRegisters:     raw,
		RegisterCount:    len(raw),
		Status:           StatusError,
	}
	defer func() {
		if cause := recover(); cause != nil {
			reading.ACLoad, reading.DCSolar, reading.DCBattery = nil, nil, nil
			reading.Status = StatusError
			reading.ErrorMessage = fmt.Sprintf("Parse error: %v", cause)
			reading.ParsedAt = time.Time{}
		}
	}()

	switch variant {
	case ACLoadMeter:
		if len(raw) < minACLoadRegisters {
			reading.ErrorMessage = errInsufficientACLoad
			return reading
		}
		reading.ACLoad = decodeACLoad(raw)
	case DCSolarMeter:
		if len(raw) < minDCRegisters {
			reading.ErrorMessage = errInsufficientDCSolar
			return reading
		}
		reading.DCSolar = decodeDCSolar(raw)
	case DCBatteryMeter:
		if len(raw) < minDCRegisters {
			reading.ErrorMessage = errInsufficientDCBattery
			return reading
		}
		reading.DCBattery = decodeDCBattery(raw)
	default:
		reading.ErrorMessage = fmt.Sprintf("unknown device variant %q", variant)
		return reading
	}

	reading.Status = StatusSuccess
	reading.ParsedAt = d.now()
	return reading
}

// dcElectrical is the shared PZEM-017 extraction, before per-variant
// interpretation. Values are unrounded so classification thresholds see the
// exact measurement.
type dcElectrical struct {
	voltage  float64
	current  float64
	power    float64
	energyWh uint32
	ovRaw    *uint16
	uvRaw    *uint16
}

// PZEM-017 register map:
//
//	[0]   voltage, x0.01 V
//	[1]   current, x0.01 A
//	[2,3] power, 32-bit, x0.1 W
//	[4,5] energy, 32-bit, Wh
//	[6]   over-voltage alarm
//	[7]   under-voltage alarm (0xFFFF sentinel)
func decodeDC(regs []uint16) dcElectrical {
	e := dcElectrical{
		voltage: float64(regs[0]) * 0.01,
		current: float64(regs[1]) * 0.01,
		power:   float64(Combine32(regs[2], regs[3])) * 0.1,
	}
	if len(regs) >= 6 {
		e.energyWh = Combine32(regs[4], regs[5])
	} else if len(regs) > 4 {
		e.energyWh = uint32(regs[4])
	}
	if len(regs) > 6 {
		v := regs[6]
		e.ovRaw = &v
	}
	if len(regs) > 7 {
		v := regs[7]
		e.uvRaw = &v
	}
	return e
}

func overVoltageStatus(raw *uint16) string {
	if raw != nil && *raw != 0 {
		return AlarmOn
	}
	return AlarmOff
}

func underVoltageStatus(raw *uint16) string {
	if raw != nil && *raw == underVoltageSentinel {
		return AlarmOn
	}
	return AlarmOff
}

// round to a fixed number of decimals, half away from zero.
func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
