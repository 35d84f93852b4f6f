package storage

import (
	"time"
)

// StoredReading is the persisted form of a decoded reading. Raw registers
// and the full decoded document are stored as JSON text so the row schema
// stays stable across meter variants.
type StoredReading struct {
	Id               uint      `gorm:"primaryKey"`
	ReceivedAt       time.Time `gorm:"index"`
	DeviceVariant    string    `gorm:"size:32;index"`
	DeviceType       string    `gorm:"size:32"`
	MeasurementPoint string    `gorm:"size:64"`
	DevicePath       string    `gorm:"size:128"`
	SlaveId          int
	RegisterCount    int
	Status           string `gorm:"size:16;index"`
	ErrorMessage     string
	RawRegisters     string
	ParsedData       string
}

func (StoredReading) TableName() string {
	return "sensor_readings"
}
