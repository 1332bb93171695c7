package app

import (
	"context"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/admin/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

type AdminService struct {
	repo    domain.MetricsRepository
	queries domain.QueryStatsSource
	cache   domain.CacheStatsSource
	now     func() time.Time
}

func NewAdminService(repo domain.MetricsRepository, queries domain.QueryStatsSource, cache domain.CacheStatsSource) *AdminService {
	return &AdminService{repo: repo, queries: queries, cache: cache, now: time.Now}
}

func (s *AdminService) Overview(ctx context.Context) (*domain.Overview, error) {
	metrics, err := s.repo.SystemMetrics(ctx)
	if err != nil {
		return nil, err
	}
	metrics.CompletedRevenue = util.Round2(metrics.CompletedRevenue)
	metrics.OutstandingAmount = util.Round2(metrics.OutstandingAmount)
	metrics.TotalWeightKg = util.Round2(metrics.TotalWeightKg)

	return &domain.Overview{
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Metrics:   metrics,
	}, nil
}

func (s *AdminService) DBStats() domain.DBStats {
	var out domain.DBStats
	if s.queries != nil {
		out.Queries = s.queries.Snapshot()
	}
	if s.cache != nil {
		out.Cache = s.cache.Stats()
	}
	return out
}
