package domain

import (
	"context"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleRecycler = "recycler"
	RoleAdmin    = "admin"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type RecyclerProfile struct {
	UserID           string   `json:"user_id"`
	CompanyName      string   `json:"company_name"`
	VehicleType      string   `json:"vehicle_type"`
	ServiceArea      string   `json:"service_area"`
	IsAvailable      bool     `json:"is_available"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Rating           float64  `json:"rating"`
	TotalCollections int      `json:"total_collections"`
	FullName         string   `json:"full_name"`
	Phone            string   `json:"phone"`
	DistanceKm       *float64 `json:"distance_km,omitempty"`
}

// UpsertUserRequest creates the caller's profile on first use; later calls
// only change name and phone.
type UpsertUserRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type UpsertRecyclerRequest struct {
	CompanyName string  `json:"company_name"`
	VehicleType string  `json:"vehicle_type"`
	ServiceArea string  `json:"service_area"`
	IsAvailable bool    `json:"is_available"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*User, error)
	UpsertUser(ctx context.Context, u User) (*User, error)
	AvailableRecyclers(ctx context.Context) ([]RecyclerProfile, error)
	GetRecycler(ctx context.Context, userID string) (*RecyclerProfile, error)
	UpsertRecycler(ctx context.Context, p RecyclerProfile) (*RecyclerProfile, error)
}
