package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/admin/domain"
)

type AdminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepo(db *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{db: db}
}

func (r *AdminRepo) SystemMetrics(ctx context.Context) (*domain.SystemMetrics, error) {
	m := &domain.SystemMetrics{
		CollectionsByStatus: map[string]int{},
		UsersByRole:         map[string]int{},
	}

	if err := r.countBy(ctx, `SELECT status, COUNT(*) FROM waste_collections GROUP BY status`, m.CollectionsByStatus); err != nil {
		return nil, fmt.Errorf("collections by status: %w", err)
	}
	if err := r.countBy(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`, m.UsersByRole); err != nil {
		return nil, fmt.Errorf("users by role: %w", err)
	}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM waste_collections WHERE DATE(created_at) = CURRENT_DATE
	`).Scan(&m.CollectionsToday)
	if err != nil {
		return nil, fmt.Errorf("collections today: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'completed'), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE status IN ('pending', 'confirmed')), 0)
		FROM payments
	`).Scan(&m.CompletedRevenue, &m.OutstandingAmount)
	if err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM tracking_sessions WHERE status IN ('en_route', 'arrived', 'picking_up')
	`).Scan(&m.ActiveTrackingSessions)
	if err != nil {
		return nil, fmt.Errorf("active tracking: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM recycler_profiles WHERE is_available = TRUE
	`).Scan(&m.AvailableRecyclers)
	if err != nil {
		return nil, fmt.Errorf("available recyclers: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(weight), 0) FROM payments WHERE status <> 'cancelled'
	`).Scan(&m.TotalWeightKg)
	if err != nil {
		return nil, fmt.Errorf("total weight: %w", err)
	}

	return m, nil
}

func (r *AdminRepo) countBy(ctx context.Context, sql string, into map[string]int) error {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}
