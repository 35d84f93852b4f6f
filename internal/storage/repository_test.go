package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arjasari/pzemwatch/internal/core/port"
	"github.com/arjasari/pzemwatch/pkg/pzem"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "readings.db"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return repo
}

func decodedRecord(t *testing.T, variant pzem.Variant, regs []uint16, receivedAt time.Time) port.ReadingRecord {
	t.Helper()
	dec := pzem.NewDecoder(func() time.Time { return receivedAt })
	return port.ReadingRecord{
		ReceivedAt: receivedAt,
		DevicePath: "/dev/ttyUSB0",
		SlaveId:    1,
		Reading:    dec.Decode(variant, regs),
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	now := time.Date(2024, 11, 2, 6, 30, 0, 0, time.UTC)
	rec := decodedRecord(t, pzem.DCSolarMeter, []uint16{7360, 25, 184, 0, 1939, 0, 0, 0}, now)

	id, err := repo.AddReading(ctx, rec)
	assert.NoError(t, err)
	assert.NotZero(t, id)

	got, err := repo.RecentReadings(ctx, 10)
	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, id, got[0].Id)
		assert.Equal(t, "/dev/ttyUSB0", got[0].DevicePath)
		assert.Equal(t, rec.Reading, got[0].Reading)
	}

	count, err := repo.CountReadings(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryLatestSuccess(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	base := time.Date(2024, 11, 2, 6, 0, 0, 0, time.UTC)

	older := decodedRecord(t, pzem.ACLoadMeter, []uint16{2200, 52, 0, 184, 0, 1939}, base)
	newer := decodedRecord(t, pzem.ACLoadMeter, []uint16{2210, 60, 0, 200, 0, 1950}, base.Add(time.Minute))
	// decode failures must not win the latest-success query
	failed := decodedRecord(t, pzem.ACLoadMeter, []uint16{2200}, base.Add(2*time.Minute))

	for _, rec := range []port.ReadingRecord{older, newer, failed} {
		_, err := repo.AddReading(ctx, rec)
		assert.NoError(t, err)
	}

	got, err := repo.LatestSuccess(ctx, pzem.ACLoadMeter)
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, newer.Reading, got.Reading)
	}

	none, err := repo.LatestSuccess(ctx, pzem.DCBatteryMeter)
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestRepositoryReadingsSince(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	base := time.Date(2024, 11, 2, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := decodedRecord(t, pzem.DCBatteryMeter, []uint16{1250, 200, 250, 0},
			base.Add(time.Duration(i)*time.Hour))
		_, err := repo.AddReading(ctx, rec)
		assert.NoError(t, err)
	}

	got, err := repo.ReadingsSince(ctx, pzem.DCBatteryMeter, base.Add(3*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	// ascending order for time series
	assert.True(t, got[0].ReceivedAt.Before(got[1].ReceivedAt))
}

func TestRepositoryPurgeBefore(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	base := time.Date(2024, 11, 2, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		rec := decodedRecord(t, pzem.DCSolarMeter, []uint16{1250, 5, 30, 0},
			base.Add(time.Duration(i)*time.Hour))
		_, err := repo.AddReading(ctx, rec)
		assert.NoError(t, err)
	}

	deleted, err := repo.PurgeBefore(ctx, base.Add(2*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := repo.CountReadings(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
