package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/domain"
	paymentdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/domain"
	paymentrepo "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/repo"
	rewarddomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/domain"
	rewardrepo "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/repo"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/fsm"
)

type CollectionRepo struct {
	db *pgxpool.Pool
}

func NewCollectionRepo(db *pgxpool.Pool) *CollectionRepo {
	return &CollectionRepo{db: db}
}

const collectionColumns = `
	id, customer_id, recycler_id, waste_type, weight, additional_services,
	description, pickup_address, pickup_lat, pickup_lng, scheduled_at, status,
	COALESCE(cancellation_reason, ''), created_at, accepted_at, started_at,
	completed_at, cancelled_at`

func scanCollection(row pgx.Row) (*domain.WasteCollection, error) {
	var c domain.WasteCollection
	err := row.Scan(&c.ID, &c.CustomerID, &c.RecyclerID, &c.WasteType, &c.Weight, &c.AdditionalServices,
		&c.Description, &c.PickupAddress, &c.PickupLat, &c.PickupLng, &c.ScheduledAt, &c.Status,
		&c.CancellationReason, &c.CreatedAt, &c.AcceptedAt, &c.StartedAt,
		&c.CompletedAt, &c.CancelledAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// guarded maps the no-row result of an UPDATE ... RETURNING to the state
// error callers switch on.
func guarded(c *domain.WasteCollection, err error, id string, to domain.Status) (*domain.WasteCollection, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("collection %s -> %s: %w", id, to, apperrors.ErrNotFoundOrState)
	}
	if err != nil {
		return nil, fmt.Errorf("update collection: %w", err)
	}
	return c, nil
}

func (r *CollectionRepo) Create(ctx context.Context, c *domain.WasteCollection) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO waste_collections (
			id, customer_id, waste_type, weight, additional_services, description,
			pickup_address, pickup_lat, pickup_lng, scheduled_at, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING created_at
	`,
		c.ID, c.CustomerID, c.WasteType, c.Weight, c.AdditionalServices, c.Description,
		c.PickupAddress, c.PickupLat, c.PickupLng, c.ScheduledAt, c.Status,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert collection failed: %w", err)
	}
	return nil
}

func (r *CollectionRepo) Get(ctx context.Context, id string) (*domain.WasteCollection, error) {
	c, err := scanCollection(r.db.QueryRow(ctx, `SELECT `+collectionColumns+` FROM waste_collections WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("collection %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return c, nil
}

func (r *CollectionRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.WasteCollection, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+collectionColumns+`
		FROM waste_collections
		WHERE ($1 = '' OR customer_id::text = $1)
		  AND ($2 = '' OR recycler_id::text = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, f.CustomerID, f.RecyclerID, string(f.Status), f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	collections := []domain.WasteCollection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, *c)
	}
	return collections, rows.Err()
}

func (r *CollectionRepo) Accept(ctx context.Context, id, recyclerID string, from []domain.Status) (*domain.WasteCollection, error) {
	c, err := scanCollection(r.db.QueryRow(ctx, `
		UPDATE waste_collections
		SET status = $2, recycler_id = $3, accepted_at = NOW()
		WHERE id = $1 AND status = ANY($4)
		RETURNING `+collectionColumns,
		id, domain.StatusAccepted, recyclerID, fsm.Strings(from),
	))
	return guarded(c, err, id, domain.StatusAccepted)
}

func (r *CollectionRepo) Start(ctx context.Context, id, recyclerID string, from []domain.Status) (*domain.WasteCollection, error) {
	c, err := scanCollection(r.db.QueryRow(ctx, `
		UPDATE waste_collections
		SET status = $2, started_at = NOW()
		WHERE id = $1 AND recycler_id = $3 AND status = ANY($4)
		RETURNING `+collectionColumns,
		id, domain.StatusInProgress, recyclerID, fsm.Strings(from),
	))
	return guarded(c, err, id, domain.StatusInProgress)
}

func (r *CollectionRepo) Cancel(ctx context.Context, id, reason string, from []domain.Status) (*domain.WasteCollection, error) {
	c, err := scanCollection(r.db.QueryRow(ctx, `
		UPDATE waste_collections
		SET status = $2, cancellation_reason = $3, cancelled_at = NOW()
		WHERE id = $1 AND status = ANY($4)
		RETURNING `+collectionColumns,
		id, domain.StatusCancelled, reason, fsm.Strings(from),
	))
	return guarded(c, err, id, domain.StatusCancelled)
}

func (r *CollectionRepo) Complete(ctx context.Context, id, recyclerID string, weight float64, from []domain.Status,
	payment *paymentdomain.Payment, reward *rewarddomain.Reward) (*domain.WasteCollection, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	c, err := scanCollection(tx.QueryRow(ctx, `
		UPDATE waste_collections
		SET status = $2, weight = $3, completed_at = NOW()
		WHERE id = $1 AND recycler_id = $4 AND status = ANY($5)
		RETURNING `+collectionColumns,
		id, domain.StatusCompleted, weight, recyclerID, fsm.Strings(from),
	))
	if c, err = guarded(c, err, id, domain.StatusCompleted); err != nil {
		return nil, err
	}

	if err := paymentrepo.InsertPayment(ctx, tx, payment); err != nil {
		return nil, err
	}
	if reward != nil {
		if err := rewardrepo.InsertReward(ctx, tx, reward); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE recycler_profiles
		SET total_collections = total_collections + 1
		WHERE user_id = $1
	`, recyclerID)
	if err != nil {
		return nil, fmt.Errorf("bump recycler stats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit completion: %w", err)
	}
	return c, nil
}
