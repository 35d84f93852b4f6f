package events

import (
	. "github.com/arjasari/pzemwatch/internal/core/domain"
	"github.com/arjasari/pzemwatch/pkg/pzem"
)

// ReadingToUpdateEvents maps a successfully decoded reading to the sensor
// update events republished over MQTT. Error readings map to no events.
func ReadingToUpdateEvents(r pzem.Reading) []any {
	if !r.OK() {
		return nil
	}
	switch {
	case r.ACLoad != nil:
		return acLoadToUpdateEvents(r.ACLoad)
	case r.DCSolar != nil:
		return solarToUpdateEvents(r.DCSolar)
	case r.DCBattery != nil:
		return batteryToUpdateEvents(r.DCBattery)
	}
	return nil
}

func acLoadToUpdateEvents(m *pzem.ACLoadMetrics) []any {
	var events []any

	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_AC_LOAD_POWER,
		},
		Value:    m.PowerW,
		Decimals: 1,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_AC_LOAD_VOLTAGE,
		},
		Value:    m.VoltageV,
		Decimals: 1,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_AC_LOAD_CURRENT,
		},
		Value:    m.CurrentA,
		Decimals: 3,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_AC_LOAD_ENERGY,
		},
		Value:    m.EnergyKWh,
		Decimals: 3,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_AC_LOAD_FREQUENCY,
		},
		Value:    m.FrequencyHz,
		Decimals: 1,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_AC_LOAD_POWER_FACTOR,
		},
		Value:    m.PowerFactor,
		Decimals: 2,
	})

	return events
}

func solarToUpdateEvents(m *pzem.DCSolarMetrics) []any {
	var events []any

	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_SOLAR_POWER,
		},
		Value:    m.PowerW,
		Decimals: 1,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_SOLAR_VOLTAGE,
		},
		Value:    m.VoltageV,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_SOLAR_CURRENT,
		},
		Value:    m.CurrentA,
		Decimals: 3,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_SOLAR_ENERGY,
		},
		Value:    m.EnergyKWh,
		Decimals: 3,
	})
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_SOLAR_STATUS,
		},
		Value: m.SolarStatus,
	})

	return events
}

func batteryToUpdateEvents(m *pzem.DCBatteryMetrics) []any {
	var events []any

	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_BATTERY_POWER,
		},
		Value:    m.PowerW,
		Decimals: 1,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_BATTERY_VOLTAGE,
		},
		Value:    m.VoltageV,
		Decimals: 2,
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_BATTERY_SOC,
		},
		Value:    float64(m.SOCEstimate),
		Decimals: 0,
	})
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_BATTERY_STATUS,
		},
		Value: m.BatteryStatus,
	})
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_BATTERY_FLOW,
		},
		Value: m.FlowStatus,
	})

	return events
}
