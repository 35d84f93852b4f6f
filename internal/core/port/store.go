package port

import (
	"context"
	"time"

	"github.com/arjasari/pzemwatch/pkg/pzem"
)

// ReadingRecord is a decoded reading plus its origin, as persisted.
type ReadingRecord struct {
	Id         uint
	ReceivedAt time.Time
	DevicePath string
	SlaveId    int
	Reading    pzem.Reading
}

type ReadingStore interface {
	AddReading(ctx context.Context, rec ReadingRecord) (uint, error)
	RecentReadings(ctx context.Context, limit int) ([]ReadingRecord, error)
	LatestSuccess(ctx context.Context, variant pzem.Variant) (*ReadingRecord, error)
	ReadingsSince(ctx context.Context, variant pzem.Variant, since time.Time) ([]ReadingRecord, error)
	CountReadings(ctx context.Context) (int64, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
