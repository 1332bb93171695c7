package domain

import (
	"context"
	"math"
	"time"
)

// PointsPerKg is what a customer earns for each kilogram collected.
const PointsPerKg = 10

type Reward struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CollectionID string    `json:"collection_id"`
	Points       int       `json:"points"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

type Summary struct {
	TotalPoints int      `json:"total_points"`
	History     []Reward `json:"history"`
}

// PointsForWeight floors partial points.
func PointsForWeight(weightKg float64) int {
	if weightKg <= 0 {
		return 0
	}
	return int(math.Floor(weightKg * PointsPerKg))
}

type RewardRepository interface {
	TotalPoints(ctx context.Context, userID string) (int, error)
	List(ctx context.Context, userID string, limit, offset int) ([]Reward, error)
}
