package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/fsm"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

type PaymentRepo struct {
	db *pgxpool.Pool
}

func NewPaymentRepo(db *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const paymentColumns = `
	id, collection_id, customer_id, recycler_id, waste_type, weight,
	base_amount, additional_amount, subtotal, tax, total_amount,
	additional_services, method, status, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.CollectionID, &p.CustomerID, &p.RecyclerID, &p.WasteType, &p.Weight,
		&p.BaseAmount, &p.AdditionalAmount, &p.Subtotal, &p.Tax, &p.TotalAmount,
		&p.AdditionalServices, &p.Method, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertPayment writes p inside tx. It is called while completing a
// collection so the status change and the bill commit together.
func InsertPayment(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO payments (
			id, collection_id, customer_id, recycler_id, waste_type, weight,
			base_amount, additional_amount, subtotal, tax, total_amount,
			additional_services, method, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`,
		p.ID, p.CollectionID, p.CustomerID, p.RecyclerID, p.WasteType, p.Weight,
		p.BaseAmount, p.AdditionalAmount, p.Subtotal, p.Tax, p.TotalAmount,
		p.AdditionalServices, p.Method, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment failed: %w", err)
	}
	return nil
}

func (r *PaymentRepo) Get(ctx context.Context, id string) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// partyColumn is the column that ties a payment to a user of the given role.
// Admins see every payment and get an empty column; any other role is refused.
func partyColumn(role string) (string, error) {
	switch role {
	case userdomain.RoleCustomer:
		return "customer_id", nil
	case userdomain.RoleRecycler:
		return "recycler_id", nil
	case userdomain.RoleAdmin:
		return "", nil
	}
	return "", fmt.Errorf("role %q has no payments: %w", role, apperrors.ErrForbidden)
}

func (r *PaymentRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Payment, error) {
	col, err := partyColumn(f.Role)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ($1 = '' OR status = $1)`
	args := []interface{}{string(f.Status)}

	if col != "" {
		args = append(args, f.UserID)
		query += fmt.Sprintf(" AND %s = $%d", col, len(args))
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepo) Summary(ctx context.Context, userID, role string) (*domain.Summary, error) {
	col, err := partyColumn(role)
	if err != nil {
		return nil, err
	}
	query := `SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0) FROM payments`
	var args []interface{}
	if col != "" {
		query += " WHERE " + col + " = $1"
		args = append(args, userID)
	}
	query += " GROUP BY status"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("payment summary: %w", err)
	}
	defer rows.Close()

	summary := &domain.Summary{ByStatus: map[domain.Status]domain.StatusTotal{}}
	for rows.Next() {
		var (
			status domain.Status
			total  domain.StatusTotal
		)
		if err := rows.Scan(&status, &total.Count, &total.Amount); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summary.ByStatus[status] = total
		summary.TotalPayments += total.Count
		summary.TotalAmount += total.Amount
	}
	return summary, rows.Err()
}

func (r *PaymentRepo) UpdateStatus(ctx context.Context, id string, from []domain.Status, to domain.Status) (*domain.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
		RETURNING `+paymentColumns,
		id, to, fsm.Strings(from),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payment %s -> %s: %w", id, to, apperrors.ErrNotFoundOrState)
	}
	if err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return p, nil
}
