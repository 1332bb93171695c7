package app

import (
	"context"
	"fmt"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/validation"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

type PaymentService struct {
	repo   domain.PaymentRepository
	pub    domain.Publisher
	logger *util.Logger
}

func NewPaymentService(repo domain.PaymentRepository, pub domain.Publisher, logger *util.Logger) *PaymentService {
	return &PaymentService{repo: repo, pub: pub, logger: logger}
}

func (s *PaymentService) Calculate(req domain.CalculateRequest) (*domain.CalculateResponse, error) {
	if err := validation.ValidateNonNegativeFloat(req.Weight, "weight"); err != nil {
		return nil, err
	}

	wasteType := req.WasteType
	if !domain.IsKnownWasteType(wasteType) {
		wasteType = domain.DefaultWasteType
	}

	return &domain.CalculateResponse{
		WasteType: wasteType,
		Weight:    req.Weight,
		Rate:      domain.Rate(wasteType),
		Breakdown: domain.Calculate(wasteType, req.Weight, req.AdditionalServices),
	}, nil
}

func (s *PaymentService) Rates() domain.RatesResponse {
	return domain.RatesResponse{
		Currency:          "GHS",
		TaxRate:           domain.TaxRate,
		WasteRates:        domain.WasteRates,
		ServiceSurcharges: domain.ServiceSurcharges,
	}
}

func (s *PaymentService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Payment, error) {
	if err := requireListRole(filter.Role); err != nil {
		return nil, err
	}
	if filter.Status != "" {
		if err := validation.ValidateOneOf(string(filter.Status), "status", []string{
			string(domain.StatusPending), string(domain.StatusConfirmed),
			string(domain.StatusCompleted), string(domain.StatusCancelled),
		}); err != nil {
			return nil, err
		}
	}

	payments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("PaymentService.List", err)
		return nil, err
	}
	return payments, nil
}

func (s *PaymentService) Summary(ctx context.Context, userID, role string) (*domain.Summary, error) {
	if err := requireListRole(role); err != nil {
		return nil, err
	}
	summary, err := s.repo.Summary(ctx, userID, role)
	if err != nil {
		s.logger.Error("PaymentService.Summary", err)
		return nil, err
	}
	summary.TotalAmount = util.Round2(summary.TotalAmount)
	return summary, nil
}

// requireListRole rejects callers without a known role, who would otherwise
// match no party column.
func requireListRole(role string) error {
	switch role {
	case userdomain.RoleCustomer, userdomain.RoleRecycler, userdomain.RoleAdmin:
		return nil
	}
	return fmt.Errorf("role %q cannot list payments: %w", role, apperrors.ErrForbidden)
}

// Get returns a payment visible to the caller: one of its parties or an admin.
func (s *PaymentService) Get(ctx context.Context, id, userID, role string) (*domain.Payment, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != userdomain.RoleAdmin && !p.Party(userID) {
		return nil, fmt.Errorf("payment %s: %w", id, apperrors.ErrForbidden)
	}
	return p, nil
}

// Confirm is the customer acknowledging the bill.
func (s *PaymentService) Confirm(ctx context.Context, id, customerID string) (*domain.Payment, error) {
	return s.transition(ctx, "PaymentService.Confirm", id, domain.StatusConfirmed, func(p *domain.Payment) bool {
		return p.CustomerID == customerID
	})
}

// Complete is the recycler recording that the money was received.
func (s *PaymentService) Complete(ctx context.Context, id, recyclerID string) (*domain.Payment, error) {
	return s.transition(ctx, "PaymentService.Complete", id, domain.StatusCompleted, func(p *domain.Payment) bool {
		return p.RecyclerID == recyclerID
	})
}

func (s *PaymentService) Cancel(ctx context.Context, id, userID, role string) (*domain.Payment, error) {
	return s.transition(ctx, "PaymentService.Cancel", id, domain.StatusCancelled, func(p *domain.Payment) bool {
		return role == userdomain.RoleAdmin || p.Party(userID)
	})
}

func (s *PaymentService) transition(ctx context.Context, instance, id string, to domain.Status, allowed func(*domain.Payment) bool) (*domain.Payment, error) {
	start := time.Now()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("payment lookup failed: %v", err))
		return nil, err
	}
	if !allowed(current) {
		s.logger.Warn(instance, fmt.Sprintf("forbidden transition of payment %s to %s", id, to))
		return nil, fmt.Errorf("payment %s: %w", id, apperrors.ErrForbidden)
	}
	if err := domain.Machine.Check(current.Status, to); err != nil {
		s.logger.Warn(instance, err.Error())
		return nil, err
	}

	from, err := domain.Machine.Sources(to)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.UpdateStatus(ctx, id, from, to)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("guarded update failed: %v", err))
		return nil, err
	}

	s.publish(ctx, instance, p)
	s.logger.OK(instance, fmt.Sprintf("payment %s is %s (took %dms)", id, to, time.Since(start).Milliseconds()))
	return p, nil
}

func (s *PaymentService) publish(ctx context.Context, instance string, p *domain.Payment) {
	if s.pub == nil {
		return
	}
	event := mq.Event{
		Entity:     "payment",
		ID:         p.ID,
		Status:     string(p.Status),
		CustomerID: p.CustomerID,
		RecyclerID: p.RecyclerID,
		Amount:     p.TotalAmount,
	}
	if err := s.pub.PublishEvent(ctx, event); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to publish %s: %v", event.RoutingKey(), err))
	}
}
