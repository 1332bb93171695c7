package domain

import (
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/fsm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Machine is the payment lifecycle.
var Machine = fsm.New[Status]("payment",
	fsm.Transition[Status]{From: StatusPending, To: StatusConfirmed},
	fsm.Transition[Status]{From: StatusConfirmed, To: StatusCompleted},
	fsm.Transition[Status]{From: StatusPending, To: StatusCancelled},
	fsm.Transition[Status]{From: StatusConfirmed, To: StatusCancelled},
)

const (
	MethodCash        = "cash"
	MethodMobileMoney = "mobile_money"
)

type Payment struct {
	ID                 string    `json:"id"`
	CollectionID       string    `json:"collection_id"`
	CustomerID         string    `json:"customer_id"`
	RecyclerID         string    `json:"recycler_id"`
	WasteType          string    `json:"waste_type"`
	Weight             float64   `json:"weight"`
	BaseAmount         float64   `json:"base_amount"`
	AdditionalAmount   float64   `json:"additional_amount"`
	Subtotal           float64   `json:"subtotal"`
	Tax                float64   `json:"tax"`
	TotalAmount        float64   `json:"total_amount"`
	AdditionalServices []string  `json:"additional_services"`
	Method             string    `json:"method"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewPayment prices a completed pickup. The caller sets the id and parties.
func NewPayment(wasteType string, weight float64, services []string, method string) Payment {
	b := Calculate(wasteType, weight, services)
	if method == "" {
		method = MethodCash
	}
	if services == nil {
		services = []string{}
	}
	return Payment{
		WasteType:          wasteType,
		Weight:             weight,
		BaseAmount:         b.BaseAmount,
		AdditionalAmount:   b.AdditionalAmount,
		Subtotal:           b.Subtotal,
		Tax:                b.Tax,
		TotalAmount:        b.TotalAmount,
		AdditionalServices: services,
		Method:             method,
		Status:             StatusPending,
	}
}

// Party reports whether userID is the payer or the payee.
func (p *Payment) Party(userID string) bool {
	return p.CustomerID == userID || p.RecyclerID == userID
}

type CalculateRequest struct {
	WasteType          string   `json:"waste_type"`
	Weight             float64  `json:"weight"`
	AdditionalServices []string `json:"additional_services"`
}

type CalculateResponse struct {
	WasteType string  `json:"waste_type"`
	Weight    float64 `json:"weight"`
	Rate      float64 `json:"rate_per_kg"`
	Breakdown
}

type RatesResponse struct {
	Currency          string             `json:"currency"`
	TaxRate           float64            `json:"tax_rate"`
	WasteRates        map[string]float64 `json:"waste_rates"`
	ServiceSurcharges map[string]float64 `json:"service_surcharges"`
}

// ListFilter selects payments where the user is the customer or recycler,
// according to Role.
type ListFilter struct {
	UserID string
	Role   string
	Status Status
	Limit  int
	Offset int
}

type StatusTotal struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type Summary struct {
	TotalPayments int                    `json:"total_payments"`
	TotalAmount   float64                `json:"total_amount"`
	ByStatus      map[Status]StatusTotal `json:"by_status"`
}
