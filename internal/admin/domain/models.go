package domain

import (
	"context"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/cache"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/db"
)

type SystemMetrics struct {
	CollectionsByStatus    map[string]int `json:"collections_by_status"`
	CollectionsToday       int            `json:"collections_today"`
	UsersByRole            map[string]int `json:"users_by_role"`
	AvailableRecyclers     int            `json:"available_recyclers"`
	ActiveTrackingSessions int            `json:"active_tracking_sessions"`
	CompletedRevenue       float64        `json:"completed_revenue"`
	OutstandingAmount      float64        `json:"outstanding_amount"`
	TotalWeightKg          float64        `json:"total_weight_kg"`
}

type Overview struct {
	Timestamp string         `json:"timestamp"`
	Metrics   *SystemMetrics `json:"metrics"`
}

type DBStats struct {
	Queries db.StatsSnapshot `json:"queries"`
	Cache   cache.Stats      `json:"cache"`
}

type MetricsRepository interface {
	SystemMetrics(ctx context.Context) (*SystemMetrics, error)
}

type QueryStatsSource interface {
	Snapshot() db.StatsSnapshot
}

type CacheStatsSource interface {
	Stats() cache.Stats
}
