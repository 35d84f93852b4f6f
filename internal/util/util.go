package util

import (
	"github.com/arjasari/pzemwatch/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "arjasari",
		},
		Database: config.DatabaseConfig{
			Path:                 "file::memory:",
			RetentionHours:       720,
			SweepIntervalMinutes: 60,
		},
		Port: 8080,
	}
}
