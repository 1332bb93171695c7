package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/domain"
)

type RewardRepo struct {
	db *pgxpool.Pool
}

func NewRewardRepo(db *pgxpool.Pool) *RewardRepo {
	return &RewardRepo{db: db}
}

// InsertReward writes rw inside tx, next to the collection it was earned on.
func InsertReward(ctx context.Context, tx pgx.Tx, rw *domain.Reward) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO rewards (id, user_id, collection_id, points, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`, rw.ID, rw.UserID, rw.CollectionID, rw.Points, rw.Reason).Scan(&rw.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reward failed: %w", err)
	}
	return nil
}

func (r *RewardRepo) TotalPoints(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(points), 0) FROM rewards WHERE user_id = $1
	`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum rewards: %w", err)
	}
	return total, nil
}

func (r *RewardRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.Reward, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, collection_id, points, reason, created_at
		FROM rewards
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	rewards := []domain.Reward{}
	for rows.Next() {
		var rw domain.Reward
		if err := rows.Scan(&rw.ID, &rw.UserID, &rw.CollectionID, &rw.Points, &rw.Reason, &rw.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, rw)
	}
	return rewards, rows.Err()
}
