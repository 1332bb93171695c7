package db

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// QueryStats is a pgx.QueryTracer that times every query and logs the slow
// ones.
type QueryStats struct {
	logger *util.Logger
	slow   time.Duration
	now    func() time.Time

	mu        sync.Mutex
	count     uint64
	failed    uint64
	slowCount uint64
	total     time.Duration
	max       time.Duration
}

type StatsSnapshot struct {
	Queries      uint64  `json:"queries"`
	Failed       uint64  `json:"failed"`
	SlowQueries  uint64  `json:"slow_queries"`
	AvgMillis    float64 `json:"avg_ms"`
	MaxMillis    float64 `json:"max_ms"`
	SlowThreshMs int64   `json:"slow_threshold_ms"`
}

func NewQueryStats(logger *util.Logger, slow time.Duration) *QueryStats {
	return &QueryStats{logger: logger, slow: slow, now: time.Now}
}

func (s *QueryStats) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: s.now()})
}

func (s *QueryStats) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	s.record(qs.sql, s.now().Sub(qs.start), data.Err)
}

func (s *QueryStats) record(sql string, elapsed time.Duration, err error) {
	s.mu.Lock()
	s.count++
	s.total += elapsed
	if elapsed > s.max {
		s.max = elapsed
	}
	if err != nil {
		s.failed++
	}
	isSlow := s.slow > 0 && elapsed >= s.slow
	if isSlow {
		s.slowCount++
	}
	s.mu.Unlock()

	if isSlow && s.logger != nil {
		s.logger.Warn("DB.SlowQuery", fmt.Sprintf("%dms: %s", elapsed.Milliseconds(), compactSQL(sql)))
	}
}

func (s *QueryStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		Queries:      s.count,
		Failed:       s.failed,
		SlowQueries:  s.slowCount,
		MaxMillis:    float64(s.max) / float64(time.Millisecond),
		SlowThreshMs: s.slow.Milliseconds(),
	}
	if s.count > 0 {
		snap.AvgMillis = float64(s.total) / float64(s.count) / float64(time.Millisecond)
	}
	return snap
}

func compactSQL(sql string) string {
	out := strings.Join(strings.Fields(sql), " ")
	if len(out) > 200 {
		out = out[:200] + "..."
	}
	return out
}
