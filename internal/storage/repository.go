package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arjasari/pzemwatch/internal/core/port"
	"github.com/arjasari/pzemwatch/pkg/pzem"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Repository persists decoded readings in a single sqlite table. It is the
// only component that touches the database.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRepository(path string, zlogger *zap.Logger) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("could not open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&StoredReading{}); err != nil {
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}
	return &Repository{
		db:     db,
		logger: zlogger.With(zap.String("component", "storage")),
	}, nil
}

func (r *Repository) AddReading(ctx context.Context, rec port.ReadingRecord) (uint, error) {
	row, err := toStoredReading(rec)
	if err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, err
	}
	return row.Id, nil
}

func (r *Repository) RecentReadings(ctx context.Context, limit int) ([]port.ReadingRecord, error) {
	var rows []StoredReading
	err := r.db.WithContext(ctx).
		Order("received_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRecords(rows)
}

func (r *Repository) LatestSuccess(ctx context.Context, variant pzem.Variant) (*port.ReadingRecord, error) {
	var row StoredReading
	err := r.db.WithContext(ctx).
		Where("device_variant = ? AND status = ?", string(variant), string(pzem.StatusSuccess)).
		Order("received_at desc").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec, err := toRecord(row)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) ReadingsSince(ctx context.Context, variant pzem.Variant, since time.Time) ([]port.ReadingRecord, error) {
	var rows []StoredReading
	err := r.db.WithContext(ctx).
		Where("device_variant = ? AND received_at >= ?", string(variant), since).
		Order("received_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRecords(rows)
}

func (r *Repository) CountReadings(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&StoredReading{}).Count(&count).Error
	return count, err
}

func (r *Repository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("received_at < ?", cutoff).
		Delete(&StoredReading{})
	return result.RowsAffected, result.Error
}

func toStoredReading(rec port.ReadingRecord) (*StoredReading, error) {
	rawRegisters, err := json.Marshal(rec.Reading.RawRegisters)
	if err != nil {
		return nil, err
	}
	parsed, err := json.Marshal(rec.Reading)
	if err != nil {
		return nil, err
	}
	return &StoredReading{
		Id:               rec.Id,
		ReceivedAt:       rec.ReceivedAt,
		DeviceVariant:    string(rec.Reading.Variant),
		DeviceType:       rec.Reading.DeviceType,
		MeasurementPoint: rec.Reading.MeasurementPoint,
		DevicePath:       rec.DevicePath,
		SlaveId:          rec.SlaveId,
		RegisterCount:    rec.Reading.RegisterCount,
		Status:           string(rec.Reading.Status),
		ErrorMessage:     rec.Reading.ErrorMessage,
		RawRegisters:     string(rawRegisters),
		ParsedData:       string(parsed),
	}, nil
}

func toRecord(row StoredReading) (port.ReadingRecord, error) {
	var reading pzem.Reading
	if err := json.Unmarshal([]byte(row.ParsedData), &reading); err != nil {
		return port.ReadingRecord{}, fmt.Errorf("corrupt stored reading %d: %w", row.Id, err)
	}
	return port.ReadingRecord{
		Id:         row.Id,
		ReceivedAt: row.ReceivedAt,
		DevicePath: row.DevicePath,
		SlaveId:    row.SlaveId,
		Reading:    reading,
	}, nil
}

func toRecords(rows []StoredReading) ([]port.ReadingRecord, error) {
	records := make([]port.ReadingRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := toRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
