package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `
		SELECT id, email, full_name, phone, role, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// UpsertUser inserts the user or updates name and phone. Role and email are
// fixed at creation.
func (r *UserRepo) UpsertUser(ctx context.Context, u domain.User) (*domain.User, error) {
	var out domain.User
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, full_name, phone, role, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    phone = EXCLUDED.phone
		RETURNING id, email, full_name, phone, role, created_at
	`, u.ID, u.Email, u.FullName, u.Phone, u.Role,
	).Scan(&out.ID, &out.Email, &out.FullName, &out.Phone, &out.Role, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &out, nil
}

const recyclerColumns = `
	p.user_id, p.company_name, p.vehicle_type, p.service_area, p.is_available,
	p.latitude, p.longitude, p.rating, p.total_collections, u.full_name, u.phone`

func scanRecycler(row pgx.Row) (*domain.RecyclerProfile, error) {
	var p domain.RecyclerProfile
	err := row.Scan(&p.UserID, &p.CompanyName, &p.VehicleType, &p.ServiceArea, &p.IsAvailable,
		&p.Latitude, &p.Longitude, &p.Rating, &p.TotalCollections, &p.FullName, &p.Phone)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *UserRepo) AvailableRecyclers(ctx context.Context) ([]domain.RecyclerProfile, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+recyclerColumns+`
		FROM recycler_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.is_available
		ORDER BY p.rating DESC, p.user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list recyclers: %w", err)
	}
	defer rows.Close()

	recyclers := []domain.RecyclerProfile{}
	for rows.Next() {
		p, err := scanRecycler(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recycler: %w", err)
		}
		recyclers = append(recyclers, *p)
	}
	return recyclers, rows.Err()
}

func (r *UserRepo) GetRecycler(ctx context.Context, userID string) (*domain.RecyclerProfile, error) {
	p, err := scanRecycler(r.db.QueryRow(ctx, `
		SELECT `+recyclerColumns+`
		FROM recycler_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("recycler %s: %w", userID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get recycler: %w", err)
	}
	return p, nil
}

func (r *UserRepo) UpsertRecycler(ctx context.Context, p domain.RecyclerProfile) (*domain.RecyclerProfile, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO recycler_profiles
			(user_id, company_name, vehicle_type, service_area, is_available, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET company_name = EXCLUDED.company_name,
		    vehicle_type = EXCLUDED.vehicle_type,
		    service_area = EXCLUDED.service_area,
		    is_available = EXCLUDED.is_available,
		    latitude = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude
	`, p.UserID, p.CompanyName, p.VehicleType, p.ServiceArea, p.IsAvailable, p.Latitude, p.Longitude)
	if err != nil {
		return nil, fmt.Errorf("upsert recycler: %w", err)
	}
	return r.GetRecycler(ctx, p.UserID)
}
