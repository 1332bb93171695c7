package domain

import (
	"context"
	"time"

	collectiondomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/fsm"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
)

type Status string

const (
	StatusEnRoute   Status = "en_route"
	StatusArrived   Status = "arrived"
	StatusPickingUp Status = "picking_up"
	StatusCompleted Status = "completed"
)

// Machine is the trip lifecycle of a recycler heading to one pickup.
var Machine = fsm.New[Status]("tracking",
	fsm.Transition[Status]{From: StatusEnRoute, To: StatusArrived},
	fsm.Transition[Status]{From: StatusArrived, To: StatusPickingUp},
	fsm.Transition[Status]{From: StatusPickingUp, To: StatusCompleted},
)

// ActiveStatuses are the statuses in which location updates are accepted.
var ActiveStatuses = []Status{StatusEnRoute, StatusArrived, StatusPickingUp}

// Session stores locations in the "lat,lng" text form.
type Session struct {
	ID                  string     `json:"id"`
	PickupID            string     `json:"pickup_id"`
	RecyclerID          string     `json:"recycler_id"`
	CustomerID          string     `json:"customer_id"`
	StartLocation       string     `json:"start_location"`
	DestinationLocation string     `json:"destination_location"`
	CurrentLocation     string     `json:"current_location"`
	Status              Status     `json:"status"`
	DistanceKm          *float64   `json:"distance_km"`
	DurationText        string     `json:"duration_text"`
	EstimatedArrival    *time.Time `json:"estimated_arrival"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Apply copies an estimate onto the session.
func (s *Session) Apply(e Estimate) {
	s.DistanceKm = e.DistanceKm
	s.DurationText = e.DurationText
	s.EstimatedArrival = e.EstimatedArrival
}

type StartRequest struct {
	PickupID string  `json:"pickup_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type LocationUpdate struct {
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
	Speed   *float64 `json:"speed_kmh,omitempty"`
	Heading *float64 `json:"heading,omitempty"`
}

// CustomerUpdate is pushed to the customer's websocket.
type CustomerUpdate struct {
	Type             string     `json:"type"`
	SessionID        string     `json:"session_id"`
	PickupID         string     `json:"pickup_id"`
	Status           Status     `json:"status"`
	CurrentLocation  string     `json:"current_location,omitempty"`
	DistanceKm       *float64   `json:"distance_km"`
	DurationText     string     `json:"duration_text"`
	EstimatedArrival *time.Time `json:"estimated_arrival"`
	Message          string     `json:"message,omitempty"`
}

type TrackingRepository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	LatestForPickup(ctx context.Context, pickupID string) (*Session, error)
	// UpdateLocation applies only while the session is in one of from.
	UpdateLocation(ctx context.Context, s *Session, from []Status) (*Session, error)
	UpdateStatus(ctx context.Context, id string, from []Status, to Status) (*Session, error)
}

// PickupReader is the part of the collection store tracking depends on.
type PickupReader interface {
	Get(ctx context.Context, id string) (*collectiondomain.WasteCollection, error)
}

// CustomerNotifier delivers live updates. A customer who is not connected is
// not an error.
type CustomerNotifier interface {
	SendToCustomer(customerID string, message interface{}) error
}

type Publisher interface {
	PublishEvent(ctx context.Context, event mq.Event) error
}
