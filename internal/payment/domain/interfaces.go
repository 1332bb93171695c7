package domain

import (
	"context"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
)

type PaymentRepository interface {
	Get(ctx context.Context, id string) (*Payment, error)
	List(ctx context.Context, filter ListFilter) ([]Payment, error)
	Summary(ctx context.Context, userID, role string) (*Summary, error)
	// UpdateStatus moves the payment to `to` only while its status is one of
	// from. It returns apperrors.ErrNotFoundOrState when no row matched.
	UpdateStatus(ctx context.Context, id string, from []Status, to Status) (*Payment, error)
}

type Publisher interface {
	PublishEvent(ctx context.Context, event mq.Event) error
}
