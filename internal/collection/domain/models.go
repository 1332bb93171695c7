package domain

import (
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/fsm"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Machine is the pickup lifecycle.
var Machine = fsm.New[Status]("collection",
	fsm.Transition[Status]{From: StatusPending, To: StatusAccepted},
	fsm.Transition[Status]{From: StatusAccepted, To: StatusInProgress},
	fsm.Transition[Status]{From: StatusInProgress, To: StatusCompleted},
	fsm.Transition[Status]{From: StatusPending, To: StatusCancelled},
	fsm.Transition[Status]{From: StatusAccepted, To: StatusCancelled},
)

var AllStatuses = []string{
	string(StatusPending), string(StatusAccepted), string(StatusInProgress),
	string(StatusCompleted), string(StatusCancelled),
}

type WasteCollection struct {
	ID                 string     `json:"id"`
	CustomerID         string     `json:"customer_id"`
	RecyclerID         *string    `json:"recycler_id"`
	WasteType          string     `json:"waste_type"`
	Weight             float64    `json:"weight"`
	AdditionalServices []string   `json:"additional_services"`
	Description        string     `json:"description"`
	PickupAddress      string     `json:"pickup_address"`
	PickupLat          float64    `json:"pickup_lat"`
	PickupLng          float64    `json:"pickup_lng"`
	ScheduledAt        *time.Time `json:"scheduled_at"`
	Status             Status     `json:"status"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	AcceptedAt         *time.Time `json:"accepted_at"`
	StartedAt          *time.Time `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	CancelledAt        *time.Time `json:"cancelled_at"`
}

// AssignedTo reports whether recyclerID has accepted this pickup.
func (c *WasteCollection) AssignedTo(recyclerID string) bool {
	return c.RecyclerID != nil && *c.RecyclerID == recyclerID
}

type CreateRequest struct {
	WasteType          string     `json:"waste_type"`
	Weight             float64    `json:"weight"`
	AdditionalServices []string   `json:"additional_services"`
	Description        string     `json:"description"`
	PickupAddress      string     `json:"pickup_address"`
	PickupLat          float64    `json:"pickup_lat"`
	PickupLng          float64    `json:"pickup_lng"`
	ScheduledAt        *time.Time `json:"scheduled_at"`
}

type CompleteRequest struct {
	// ActualWeight replaces the estimate when set.
	ActualWeight  float64 `json:"actual_weight"`
	PaymentMethod string  `json:"payment_method"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// ListFilter narrows a listing. Empty fields do not filter.
type ListFilter struct {
	CustomerID string
	RecyclerID string
	Status     Status
	Limit      int
	Offset     int
}
