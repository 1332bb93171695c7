package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/domain"
	paymentdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/domain"
	rewarddomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/validation"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

type CollectionService struct {
	repo   domain.CollectionRepository
	pub    domain.Publisher
	logger *util.Logger
}

func NewCollectionService(repo domain.CollectionRepository, pub domain.Publisher, logger *util.Logger) *CollectionService {
	return &CollectionService{repo: repo, pub: pub, logger: logger}
}

// Completion is everything written when a pickup is completed.
type Completion struct {
	Collection *domain.WasteCollection `json:"collection"`
	Payment    *paymentdomain.Payment  `json:"payment"`
	Reward     *rewarddomain.Reward    `json:"reward,omitempty"`
}

func serviceNames() []string {
	names := make([]string, 0, len(paymentdomain.ServiceSurcharges))
	for name := range paymentdomain.ServiceSurcharges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateCreate(req domain.CreateRequest) error {
	if err := validation.ValidateOneOf(req.WasteType, "waste_type", paymentdomain.WasteTypes()); err != nil {
		return err
	}
	if err := validation.ValidatePositiveFloat(req.Weight, "weight"); err != nil {
		return err
	}
	if err := validation.ValidateStringNotEmpty(req.PickupAddress, "pickup_address"); err != nil {
		return err
	}
	if err := validation.ValidateCoordinates(req.PickupLat, req.PickupLng); err != nil {
		return err
	}
	for _, s := range req.AdditionalServices {
		if err := validation.ValidateOneOf(s, "additional_services", serviceNames()); err != nil {
			return err
		}
	}
	return nil
}

func (s *CollectionService) Create(ctx context.Context, customerID string, req domain.CreateRequest) (*domain.WasteCollection, error) {
	instance := "CollectionService.Create"
	start := time.Now()

	if err := validateCreate(req); err != nil {
		s.logger.Warn(instance, err.Error())
		return nil, err
	}

	services := req.AdditionalServices
	if services == nil {
		services = []string{}
	}

	c := &domain.WasteCollection{
		ID:                 uuid.NewString(),
		CustomerID:         customerID,
		WasteType:          req.WasteType,
		Weight:             req.Weight,
		AdditionalServices: services,
		Description:        strings.TrimSpace(req.Description),
		PickupAddress:      strings.TrimSpace(req.PickupAddress),
		PickupLat:          req.PickupLat,
		PickupLng:          req.PickupLng,
		ScheduledAt:        req.ScheduledAt,
		Status:             domain.StatusPending,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	s.publish(ctx, instance, c, 0)
	s.logger.Info(instance, fmt.Sprintf("pickup requested [id=%s, type=%s, weight=%.2fkg, duration_ms=%d]",
		c.ID, c.WasteType, c.Weight, time.Since(start).Milliseconds()))
	return c, nil
}

// List returns the caller's own pickups: requested ones for a customer,
// accepted ones for a recycler, everything for an admin.
func (s *CollectionService) List(ctx context.Context, userID, role string, status domain.Status, page, pageSize int) ([]domain.WasteCollection, error) {
	if status != "" {
		if err := validation.ValidateOneOf(string(status), "status", domain.AllStatuses); err != nil {
			return nil, err
		}
	}

	filter := domain.ListFilter{Status: status, Limit: pageSize, Offset: (page - 1) * pageSize}
	switch role {
	case userdomain.RoleCustomer:
		filter.CustomerID = userID
	case userdomain.RoleRecycler:
		filter.RecyclerID = userID
	case userdomain.RoleAdmin:
	default:
		return nil, fmt.Errorf("complete your profile first: %w", apperrors.ErrForbidden)
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("CollectionService.List", err)
		return nil, err
	}
	return list, nil
}

// Available lists requests still waiting for a recycler.
func (s *CollectionService) Available(ctx context.Context, page, pageSize int) ([]domain.WasteCollection, error) {
	list, err := s.repo.List(ctx, domain.ListFilter{
		Status: domain.StatusPending,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		s.logger.Error("CollectionService.Available", err)
		return nil, err
	}
	return list, nil
}

// Get shows a pickup to its customer, its recycler and admins. Recyclers may
// also view any pickup that is still pending.
func (s *CollectionService) Get(ctx context.Context, id, userID, role string) (*domain.WasteCollection, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case role == userdomain.RoleAdmin,
		c.CustomerID == userID,
		c.AssignedTo(userID),
		role == userdomain.RoleRecycler && c.Status == domain.StatusPending:
		return c, nil
	}
	return nil, fmt.Errorf("collection %s: %w", id, apperrors.ErrForbidden)
}

func (s *CollectionService) Accept(ctx context.Context, id, recyclerID string) (*domain.WasteCollection, error) {
	instance := "CollectionService.Accept"

	from, err := s.check(ctx, instance, id, domain.StatusAccepted, nil)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Accept(ctx, id, recyclerID, from)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("guarded update failed: %v", err))
		return nil, err
	}

	s.publish(ctx, instance, c, 0)
	s.logger.OK(instance, fmt.Sprintf("recycler %s accepted pickup %s", recyclerID, id))
	return c, nil
}

func (s *CollectionService) Start(ctx context.Context, id, recyclerID string) (*domain.WasteCollection, error) {
	instance := "CollectionService.Start"

	from, err := s.check(ctx, instance, id, domain.StatusInProgress, func(c *domain.WasteCollection) bool {
		return c.AssignedTo(recyclerID)
	})
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Start(ctx, id, recyclerID, from)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("guarded update failed: %v", err))
		return nil, err
	}

	s.publish(ctx, instance, c, 0)
	s.logger.OK(instance, fmt.Sprintf("pickup %s in progress", id))
	return c, nil
}

// Complete closes the pickup, bills it at the actual weight and credits the
// customer's reward points, all in one transaction.
func (s *CollectionService) Complete(ctx context.Context, id, recyclerID string, req domain.CompleteRequest) (*Completion, error) {
	instance := "CollectionService.Complete"
	start := time.Now()

	if err := validation.ValidateNonNegativeFloat(req.ActualWeight, "actual_weight"); err != nil {
		return nil, err
	}
	if req.PaymentMethod != "" {
		if err := validation.ValidateOneOf(req.PaymentMethod, "payment_method",
			[]string{paymentdomain.MethodCash, paymentdomain.MethodMobileMoney}); err != nil {
			return nil, err
		}
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("collection lookup failed: %v", err))
		return nil, err
	}
	if err := domain.Machine.Check(current.Status, domain.StatusCompleted); err != nil {
		s.logger.Warn(instance, err.Error())
		return nil, err
	}
	if !current.AssignedTo(recyclerID) {
		return nil, fmt.Errorf("collection %s: %w", id, apperrors.ErrForbidden)
	}

	weight := current.Weight
	if req.ActualWeight > 0 {
		weight = req.ActualWeight
	}

	payment := paymentdomain.NewPayment(current.WasteType, weight, current.AdditionalServices, req.PaymentMethod)
	payment.ID = uuid.NewString()
	payment.CollectionID = id
	payment.CustomerID = current.CustomerID
	payment.RecyclerID = recyclerID

	var reward *rewarddomain.Reward
	if points := rewarddomain.PointsForWeight(weight); points > 0 {
		reward = &rewarddomain.Reward{
			ID:           uuid.NewString(),
			UserID:       current.CustomerID,
			CollectionID: id,
			Points:       points,
			Reason:       fmt.Sprintf("%.2fkg of %s recycled", weight, current.WasteType),
		}
	}

	from, err := domain.Machine.Sources(domain.StatusCompleted)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.Complete(ctx, id, recyclerID, weight, from, &payment, reward)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("completion failed: %v", err))
		return nil, err
	}

	s.publish(ctx, instance, c, payment.TotalAmount)
	s.publishPayment(ctx, instance, &payment)
	s.logger.OK(instance, fmt.Sprintf("pickup %s completed [weight=%.2fkg, total=%.2f, duration_ms=%d]",
		id, weight, payment.TotalAmount, time.Since(start).Milliseconds()))

	return &Completion{Collection: c, Payment: &payment, Reward: reward}, nil
}

func (s *CollectionService) Cancel(ctx context.Context, id, userID, role, reason string) (*domain.WasteCollection, error) {
	instance := "CollectionService.Cancel"

	from, err := s.check(ctx, instance, id, domain.StatusCancelled, func(c *domain.WasteCollection) bool {
		return role == userdomain.RoleAdmin || c.CustomerID == userID || c.AssignedTo(userID)
	})
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Cancelled by " + role
	}

	c, err := s.repo.Cancel(ctx, id, reason, from)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("guarded update failed: %v", err))
		return nil, err
	}

	s.publish(ctx, instance, c, 0)
	s.logger.OK(instance, fmt.Sprintf("pickup %s cancelled: %s", id, reason))
	return c, nil
}

// check loads the pickup, rejects a move the lifecycle does not allow from
// its current status, then applies allowed (if any). It returns the statuses
// the guarded update may start from.
func (s *CollectionService) check(ctx context.Context, instance, id string, to domain.Status, allowed func(*domain.WasteCollection) bool) ([]domain.Status, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("collection lookup failed: %v", err))
		return nil, err
	}
	if err := domain.Machine.Check(current.Status, to); err != nil {
		s.logger.Warn(instance, err.Error())
		return nil, err
	}
	if allowed != nil && !allowed(current) {
		s.logger.Warn(instance, fmt.Sprintf("forbidden move of pickup %s to %s", id, to))
		return nil, fmt.Errorf("collection %s: %w", id, apperrors.ErrForbidden)
	}
	return domain.Machine.Sources(to)
}

func (s *CollectionService) publish(ctx context.Context, instance string, c *domain.WasteCollection, amount float64) {
	if s.pub == nil {
		return
	}
	event := mq.Event{
		Entity:     "collection",
		ID:         c.ID,
		Status:     string(c.Status),
		CustomerID: c.CustomerID,
		Amount:     amount,
	}
	if c.RecyclerID != nil {
		event.RecyclerID = *c.RecyclerID
	}
	if err := s.pub.PublishEvent(ctx, event); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to publish %s: %v", event.RoutingKey(), err))
	}
}

func (s *CollectionService) publishPayment(ctx context.Context, instance string, p *paymentdomain.Payment) {
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
