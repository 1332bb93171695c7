package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/fsm"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/domain"
)

type TrackingRepo struct {
	db *pgxpool.Pool
}

func NewTrackingRepo(db *pgxpool.Pool) *TrackingRepo {
	return &TrackingRepo{db: db}
}

const sessionColumns = `
	id, pickup_id, recycler_id, customer_id, start_location, destination_location,
	current_location, status, distance_km, duration_text, estimated_arrival,
	created_at, updated_at`

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	err := row.Scan(&s.ID, &s.PickupID, &s.RecyclerID, &s.CustomerID, &s.StartLocation, &s.DestinationLocation,
		&s.CurrentLocation, &s.Status, &s.DistanceKm, &s.DurationText, &s.EstimatedArrival,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *TrackingRepo) Create(ctx context.Context, s *domain.Session) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO tracking_sessions (
			id, pickup_id, recycler_id, customer_id, start_location, destination_location,
			current_location, status, distance_km, duration_text, estimated_arrival,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`,
		s.ID, s.PickupID, s.RecyclerID, s.CustomerID, s.StartLocation, s.DestinationLocation,
		s.CurrentLocation, s.Status, s.DistanceKm, s.DurationText, s.EstimatedArrival,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert tracking session failed: %w", err)
	}
	return nil
}

func (r *TrackingRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM tracking_sessions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tracking session %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tracking session: %w", err)
	}
	return s, nil
}

func (r *TrackingRepo) LatestForPickup(ctx context.Context, pickupID string) (*domain.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM tracking_sessions
		WHERE pickup_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, pickupID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no tracking session for pickup %s: %w", pickupID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest tracking session: %w", err)
	}
	return s, nil
}

func (r *TrackingRepo) UpdateLocation(ctx context.Context, s *domain.Session, from []domain.Status) (*domain.Session, error) {
	out, err := scanSession(r.db.QueryRow(ctx, `
		UPDATE tracking_sessions
		SET current_location = $2,
		    distance_km = $3,
		    duration_text = $4,
		    estimated_arrival = $5,
		    updated_at = NOW()
		WHERE id = $1 AND status = ANY($6)
		RETURNING `+sessionColumns,
		s.ID, s.CurrentLocation, s.DistanceKm, s.DurationText, s.EstimatedArrival, fsm.Strings(from),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tracking session %s: %w", s.ID, apperrors.ErrNotFoundOrState)
	}
	if err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	return out, nil
}

func (r *TrackingRepo) UpdateStatus(ctx context.Context, id string, from []domain.Status, to domain.Status) (*domain.Session, error) {
	out, err := scanSession(r.db.QueryRow(ctx, `
		UPDATE tracking_sessions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
		RETURNING `+sessionColumns,
		id, to, fsm.Strings(from),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tracking session %s -> %s: %w", id, to, apperrors.ErrNotFoundOrState)
	}
	if err != nil {
		return nil, fmt.Errorf("update tracking status: %w", err)
	}
	return out, nil
}
