package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

func TestQueryStatsRecordsDurations(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewQueryStats(util.NewNop(), 100*time.Millisecond)
	s.now = func() time.Time { return clock }

	run := func(d time.Duration, err error) {
		ctx := s.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
		clock = clock.Add(d)
		s.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: err})
	}

	run(10*time.Millisecond, nil)
	run(30*time.Millisecond, nil)
	run(200*time.Millisecond, errors.New("timeout"))

	snap := s.Snapshot()
	if snap.Queries != 3 {
		t.Errorf("Queries = %d, want 3", snap.Queries)
	}
	if snap.Failed != 1 {
		t.Errorf("Failed = %d, want 1", snap.Failed)
	}
	if snap.SlowQueries != 1 {
		t.Errorf("SlowQueries = %d, want 1", snap.SlowQueries)
	}
	if snap.MaxMillis != 200 {
		t.Errorf("MaxMillis = %v, want 200", snap.MaxMillis)
	}
	if snap.AvgMillis != 80 {
		t.Errorf("AvgMillis = %v, want 80", snap.AvgMillis)
	}
}

func TestTraceQueryEndWithoutStart(t *testing.T) {
	s := NewQueryStats(nil, time.Second)
	s.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	if s.Snapshot().Queries != 0 {
		t.Error("query without start must not be counted")
	}
}

func TestCompactSQL(t *testing.T) {
	got := compactSQL("SELECT id\n\t\tFROM waste_collections\n\t\tWHERE id = $1")
	if got != "SELECT id FROM waste_collections WHERE id = $1" {
		t.Errorf("compactSQL() = %q", got)
	}

	long := compactSQL(strings.Repeat("x", 300))
	if len(long) != 203 {
		t.Errorf("len = %d, want 203", len(long))
	}
}
