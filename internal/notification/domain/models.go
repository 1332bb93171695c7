package domain

import (
	"context"
	"time"

	paymentdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/domain"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	EntityID  string    `json:"entity_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
	// DedupeKey makes redelivered events idempotent.
	DedupeKey string `json:"-"`
}

type ListResult struct {
	Notifications []Notification `json:"notifications"`
	Unread        int            `json:"unread"`
}

type NotificationRepository interface {
	// Create inserts n unless a row with the same DedupeKey exists; it
	// reports whether a row was written.
	Create(ctx context.Context, n *Notification) (bool, error)
	List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// ContactReader resolves where to reach a user.
type ContactReader interface {
	GetUser(ctx context.Context, id string) (*userdomain.User, error)
}

type PaymentReader interface {
	Get(ctx context.Context, id string) (*paymentdomain.Payment, error)
}

type SMSSender interface {
	Send(ctx context.Context, message string, recipients ...string) error
}

type ReceiptMailer interface {
	SendReceipt(to, name string, p *paymentdomain.Payment) error
}
