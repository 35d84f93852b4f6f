package domain

// Sensor ids used as topic suffixes for the decoded state republish.
const (
	SENSOR_ID_AC_LOAD_POWER        = "ac_load_power"
	SENSOR_ID_AC_LOAD_VOLTAGE      = "ac_load_voltage"
	SENSOR_ID_AC_LOAD_CURRENT      = "ac_load_current"
	SENSOR_ID_AC_LOAD_ENERGY       = "ac_load_energy"
	SENSOR_ID_AC_LOAD_FREQUENCY    = "ac_load_frequency"
	SENSOR_ID_AC_LOAD_POWER_FACTOR = "ac_load_power_factor"

	SENSOR_ID_SOLAR_POWER   = "solar_power"
	SENSOR_ID_SOLAR_VOLTAGE = "solar_voltage"
	SENSOR_ID_SOLAR_CURRENT = "solar_current"
	SENSOR_ID_SOLAR_ENERGY  = "solar_energy"
	SENSOR_ID_SOLAR_STATUS  = "solar_status"

	SENSOR_ID_BATTERY_POWER   = "battery_power"
	SENSOR_ID_BATTERY_VOLTAGE = "battery_voltage"
	SENSOR_ID_BATTERY_SOC     = "battery_soc"
	SENSOR_ID_BATTERY_STATUS  = "battery_status"
	SENSOR_ID_BATTERY_FLOW    = "battery_flow"
)
