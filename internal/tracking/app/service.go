package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	collectiondomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/validation"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/domain"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

type TrackingService struct {
	repo      domain.TrackingRepository
	pickups   domain.PickupReader
	estimator *domain.Estimator
	notifier  domain.CustomerNotifier
	pub       domain.Publisher
	logger    *util.Logger
}

func NewTrackingService(repo domain.TrackingRepository, pickups domain.PickupReader, estimator *domain.Estimator,
	notifier domain.CustomerNotifier, pub domain.Publisher, logger *util.Logger) *TrackingService {
	return &TrackingService{
		repo:      repo,
		pickups:   pickups,
		estimator: estimator,
		notifier:  notifier,
		pub:       pub,
		logger:    logger,
	}
}

var statusMessages = map[domain.Status]string{
	domain.StatusEnRoute:   "Your recycler is on the way",
	domain.StatusArrived:   "Your recycler has arrived",
	domain.StatusPickingUp: "Your waste is being picked up",
	domain.StatusCompleted: "Pickup finished",
}

// Start opens a session for a pickup the recycler has accepted.
func (s *TrackingService) Start(ctx context.Context, recyclerID string, req domain.StartRequest) (*domain.Session, error) {
	instance := "TrackingService.Start"

	if err := validation.ValidateUUID(req.PickupID, "pickup_id"); err != nil {
		return nil, err
	}
	if err := validation.ValidateCoordinates(req.Lat, req.Lng); err != nil {
		return nil, err
	}

	pickup, err := s.pickups.Get(ctx, req.PickupID)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("pickup lookup failed: %v", err))
		return nil, err
	}
	if !pickup.AssignedTo(recyclerID) {
		return nil, fmt.Errorf("pickup %s: %w", req.PickupID, apperrors.ErrForbidden)
	}
	if pickup.Status != collectiondomain.StatusAccepted && pickup.Status != collectiondomain.StatusInProgress {
		return nil, fmt.Errorf("pickup %s is %s: %w", pickup.ID, pickup.Status, apperrors.ErrNotFoundOrState)
	}

	current := util.LatLng{Lat: req.Lat, Lng: req.Lng}
	destination := util.LatLng{Lat: pickup.PickupLat, Lng: pickup.PickupLng}

	session := &domain.Session{
		ID:                  uuid.NewString(),
		PickupID:            pickup.ID,
		RecyclerID:          recyclerID,
		CustomerID:          pickup.CustomerID,
		StartLocation:       current.String(),
		DestinationLocation: destination.String(),
		CurrentLocation:     current.String(),
		Status:              domain.StatusEnRoute,
	}
	session.Apply(s.estimator.Estimate(ctx, current, destination))

	if err := s.repo.Create(ctx, session); err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	s.push(instance, session, "tracking_started")
	s.publish(ctx, instance, session)
	s.logger.OK(instance, fmt.Sprintf("tracking started [session=%s, pickup=%s, eta=%s]", session.ID, pickup.ID, session.DurationText))
	return session, nil
}

// ForPickup returns the latest session of a pickup to one of its parties.
func (s *TrackingService) ForPickup(ctx context.Context, pickupID, userID, role string) (*domain.Session, error) {
	pickup, err := s.pickups.Get(ctx, pickupID)
	if err != nil {
		return nil, err
	}
	if role != userdomain.RoleAdmin && pickup.CustomerID != userID && !pickup.AssignedTo(userID) {
		return nil, fmt.Errorf("pickup %s: %w", pickupID, apperrors.ErrForbidden)
	}
	return s.repo.LatestForPickup(ctx, pickupID)
}

// UpdateLocation records the recycler's position, recomputes the ETA and
// pushes both to the customer.
func (s *TrackingService) UpdateLocation(ctx context.Context, id, recyclerID string, upd domain.LocationUpdate) (*domain.Session, error) {
	instance := "TrackingService.UpdateLocation"
	start := time.Now()

	if err := validation.ValidateCoordinates(upd.Lat, upd.Lng); err != nil {
		return nil, err
	}
	if upd.Speed != nil {
		if err := validation.ValidateSpeed(*upd.Speed); err != nil {
			return nil, err
		}
	}
	if upd.Heading != nil {
		if err := validation.ValidateHeading(*upd.Heading); err != nil {
			return nil, err
		}
	}

	session, err := s.owned(ctx, id, recyclerID)
	if err != nil {
		return nil, err
	}

	current := util.LatLng{Lat: upd.Lat, Lng: upd.Lng}
	// An unparsable destination yields the Unknown estimate.
	destination, _ := util.ParseLatLng(session.DestinationLocation)

	session.CurrentLocation = current.String()
	session.Apply(s.estimator.Estimate(ctx, current, destination))

	updated, err := s.repo.UpdateLocation(ctx, session, domain.ActiveStatuses)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("location update rejected: %v", err))
		return nil, err
	}

	s.push(instance, updated, "location_update")
	s.logger.Info(instance, fmt.Sprintf("session %s at %s, eta %s (took %dms)",
		id, updated.CurrentLocation, updated.DurationText, time.Since(start).Milliseconds()))
	return updated, nil
}

func (s *TrackingService) Arrived(ctx context.Context, id, recyclerID string) (*domain.Session, error) {
	return s.transition(ctx, "TrackingService.Arrived", id, recyclerID, domain.StatusArrived)
}

func (s *TrackingService) PickingUp(ctx context.Context, id, recyclerID string) (*domain.Session, error) {
	return s.transition(ctx, "TrackingService.PickingUp", id, recyclerID, domain.StatusPickingUp)
}

func (s *TrackingService) Complete(ctx context.Context, id, recyclerID string) (*domain.Session, error) {
	return s.transition(ctx, "TrackingService.Complete", id, recyclerID, domain.StatusCompleted)
}

func (s *TrackingService) transition(ctx context.Context, instance, id, recyclerID string, to domain.Status) (*domain.Session, error) {
	session, err := s.owned(ctx, id, recyclerID)
	if err != nil {
		return nil, err
	}
	if err := domain.Machine.Check(session.Status, to); err != nil {
		s.logger.Warn(instance, err.Error())
		return nil, err
	}

	from, err := domain.Machine.Sources(to)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateStatus(ctx, id, from, to)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("guarded update failed: %v", err))
		return nil, err
	}

	s.push(instance, updated, "status_update")
	s.publish(ctx, instance, updated)
	s.logger.OK(instance, fmt.Sprintf("session %s is %s", id, to))
	return updated, nil
}

func (s *TrackingService) owned(ctx context.Context, id, recyclerID string) (*domain.Session, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.RecyclerID != recyclerID {
		return nil, fmt.Errorf("tracking session %s: %w", id, apperrors.ErrForbidden)
	}
	return session, nil
}

func (s *TrackingService) push(instance string, session *domain.Session, kind string) {
	if s.notifier == nil {
		return
	}
	msg := domain.CustomerUpdate{
		Type:             kind,
		SessionID:        session.ID,
		PickupID:         session.PickupID,
		Status:           session.Status,
		CurrentLocation:  session.CurrentLocation,
		DistanceKm:       session.DistanceKm,
		DurationText:     session.DurationText,
		EstimatedArrival: session.EstimatedArrival,
	}
	if kind != "location_update" {
		msg.Message = statusMessages[session.Status]
	}
	if err := s.notifier.SendToCustomer(session.CustomerID, msg); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("push to customer %s failed: %v", session.CustomerID, err))
	}
}

func (s *TrackingService) publish(ctx context.Context, instance string, session *domain.Session) {
	if s.pub == nil {
		return
	}
	event := mq.Event{
		Entity:     "tracking",
		ID:         session.ID,
		Status:     string(session.Status),
		CustomerID: session.CustomerID,
		RecyclerID: session.RecyclerID,
	}
	if err := s.pub.PublishEvent(ctx, event); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to publish %s: %v", event.RoutingKey(), err))
	}
}
