package domain

import (
	"context"

	paymentdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/domain"
	rewarddomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
)

// CollectionRepository updates are guarded: each applies only while the row
// is in one of the from statuses and otherwise returns
// apperrors.ErrNotFoundOrState.
type CollectionRepository interface {
	Create(ctx context.Context, c *WasteCollection) error
	Get(ctx context.Context, id string) (*WasteCollection, error)
	List(ctx context.Context, filter ListFilter) ([]WasteCollection, error)
	Accept(ctx context.Context, id, recyclerID string, from []Status) (*WasteCollection, error)
	Start(ctx context.Context, id, recyclerID string, from []Status) (*WasteCollection, error)
	Cancel(ctx context.Context, id, reason string, from []Status) (*WasteCollection, error)
	// Complete marks the pickup completed and stores its payment and reward
	// in one transaction.
	Complete(ctx context.Context, id, recyclerID string, weight float64, from []Status,
		payment *paymentdomain.Payment, reward *rewarddomain.Reward) (*WasteCollection, error)
}

type Publisher interface {
	PublishEvent(ctx context.Context, event mq.Event) error
}
