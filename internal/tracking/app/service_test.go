package app

import (
	"context"
	"errors"
	"testing"

	collectiondomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/domain"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

const pickupID = "3f9a6c1e-2b4d-4e8f-9a7b-1c2d3e4f5a6b"

type memRepo struct {
	sessions map[string]domain.Session
}

func (m *memRepo) Create(_ context.Context, s *domain.Session) error {
	m.sessions[s.ID] = *s
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (m *memRepo) LatestForPickup(_ context.Context, id string) (*domain.Session, error) {
	for _, s := range m.sessions {
		if s.PickupID == id {
			return &s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func guard(status domain.Status, from []domain.Status) bool {
	for _, f := range from {
		if f == status {
			return true
		}
	}
	return false
}

func (m *memRepo) UpdateLocation(_ context.Context, s *domain.Session, from []domain.Status) (*domain.Session, error) {
	cur, ok := m.sessions[s.ID]
	if !ok || !guard(cur.Status, from) {
		return nil, apperrors.ErrNotFoundOrState
	}
	m.sessions[s.ID] = *s
	return s, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, from []domain.Status, to domain.Status) (*domain.Session, error) {
	cur, ok := m.sessions[id]
	if !ok || !guard(cur.Status, from) {
		return nil, apperrors.ErrNotFoundOrState
	}
	cur.Status = to
	m.sessions[id] = cur
	return &cur, nil
}

type pickups map[string]collectiondomain.WasteCollection

func (p pickups) Get(_ context.Context, id string) (*collectiondomain.WasteCollection, error) {
	c, ok := p[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

type sent struct {
	customerID string
	update     domain.CustomerUpdate
}

type recordingNotifier struct {
	messages []sent
}

func (r *recordingNotifier) SendToCustomer(customerID string, message interface{}) error {
	r.messages = append(r.messages, sent{customerID, message.(domain.CustomerUpdate)})
	return nil
}

type recordingPublisher struct {
	keys []string
}

func (r *recordingPublisher) PublishEvent(_ context.Context, e mq.Event) error {
	r.keys = append(r.keys, e.RoutingKey())
	return nil
}

type fixture struct {
	svc      *TrackingService
	repo     *memRepo
	notifier *recordingNotifier
	pub      *recordingPublisher
}

func newFixture(status collectiondomain.Status) *fixture {
	recycler := "rec-1"
	f := &fixture{
		repo:     &memRepo{sessions: map[string]domain.Session{}},
		notifier: &recordingNotifier{},
		pub:      &recordingPublisher{},
	}
	store := pickups{pickupID: {
		ID:         pickupID,
		CustomerID: "cust-1",
		RecyclerID: &recycler,
		Status:     status,
		PickupLat:  5.6052,
		PickupLng:  -0.1668,
	}}
	estimator := domain.NewEstimator(nil, util.NewNop())
	f.svc = NewTrackingService(f.repo, store, estimator, f.notifier, f.pub, util.NewNop())
	return f
}

func TestStartSession(t *testing.T) {
	f := newFixture(collectiondomain.StatusAccepted)

	s, err := f.svc.Start(context.Background(), "rec-1", domain.StartRequest{PickupID: pickupID, Lat: 5.556, Lng: -0.182})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if s.Status != domain.StatusEnRoute || s.CustomerID != "cust-1" {
		t.Errorf("session = %+v", s)
	}
	if s.DestinationLocation != "5.6052,-0.1668" || s.StartLocation != "5.556,-0.182" {
		t.Errorf("locations = %s -> %s", s.StartLocation, s.DestinationLocation)
	}
	if s.DistanceKm == nil || s.EstimatedArrival == nil || s.DurationText == domain.UnknownDuration {
		t.Errorf("missing estimate: %+v", s)
	}

	if len(f.notifier.messages) != 1 || f.notifier.messages[0].customerID != "cust-1" ||
		f.notifier.messages[0].update.Type != "tracking_started" {
		t.Errorf("pushed %+v", f.notifier.messages)
	}
	if len(f.pub.keys) != 1 || f.pub.keys[0] != "tracking.status.en_route" {
		t.Errorf("published %v", f.pub.keys)
	}
}

func TestStartRejections(t *testing.T) {
	tests := []struct {
		name     string
		status   collectiondomain.Status
		recycler string
		req      domain.StartRequest
		want     error
	}{
		{"pending pickup", collectiondomain.StatusPending, "rec-1", domain.StartRequest{PickupID: pickupID, Lat: 5.5, Lng: -0.2}, apperrors.ErrNotFoundOrState},
		{"completed pickup", collectiondomain.StatusCompleted, "rec-1", domain.StartRequest{PickupID: pickupID, Lat: 5.5, Lng: -0.2}, apperrors.ErrNotFoundOrState},
		{"other recycler", collectiondomain.StatusAccepted, "rec-2", domain.StartRequest{PickupID: pickupID, Lat: 5.5, Lng: -0.2}, apperrors.ErrForbidden},
		{"bad pickup id", collectiondomain.StatusAccepted, "rec-1", domain.StartRequest{PickupID: "42", Lat: 5.5, Lng: -0.2}, apperrors.ErrValidation},
		{"bad coordinates", collectiondomain.StatusAccepted, "rec-1", domain.StartRequest{PickupID: pickupID, Lat: 95, Lng: -0.2}, apperrors.ErrValidation},
	}

	for _, tc := range tests {
		f := newFixture(tc.status)
		if _, err := f.svc.Start(context.Background(), tc.recycler, tc.req); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestLocationUpdateRecomputesETA(t *testing.T) {
	f := newFixture(collectiondomain.StatusAccepted)
	ctx := context.Background()

	s, _ := f.svc.Start(ctx, "rec-1", domain.StartRequest{PickupID: pickupID, Lat: 5.556, Lng: -0.182})
	before := *s.DistanceKm

	updated, err := f.svc.UpdateLocation(ctx, s.ID, "rec-1", domain.LocationUpdate{Lat: 5.600, Lng: -0.170})
	if err != nil {
		t.Fatalf("UpdateLocation() error = %v", err)
	}
	if *updated.DistanceKm >= before {
		t.Errorf("distance %v did not shrink from %v", *updated.DistanceKm, before)
	}
	if updated.CurrentLocation != "5.6,-0.17" {
		t.Errorf("current = %s", updated.CurrentLocation)
	}

	last := f.notifier.messages[len(f.notifier.messages)-1].update
	if last.Type != "location_update" || last.DistanceKm == nil || *last.DistanceKm != *updated.DistanceKm {
		t.Errorf("pushed %+v", last)
	}
}

func TestLocationUpdateRejections(t *testing.T) {
	f := newFixture(collectiondomain.StatusAccepted)
	ctx := context.Background()
	s, _ := f.svc.Start(ctx, "rec-1", domain.StartRequest{PickupID: pickupID, Lat: 5.556, Lng: -0.182})

	speed := 500.0
	if _, err := f.svc.UpdateLocation(ctx, s.ID, "rec-1", domain.LocationUpdate{Lat: 5.6, Lng: -0.17, Speed: &speed}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("speed: err = %v", err)
	}
	if _, err := f.svc.UpdateLocation(ctx, s.ID, "rec-2", domain.LocationUpdate{Lat: 5.6, Lng: -0.17}); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("other recycler: err = %v", err)
	}

	f.svc.Arrived(ctx, s.ID, "rec-1")
	f.svc.PickingUp(ctx, s.ID, "rec-1")
	f.svc.Complete(ctx, s.ID, "rec-1")

	if _, err := f.svc.UpdateLocation(ctx, s.ID, "rec-1", domain.LocationUpdate{Lat: 5.6, Lng: -0.17}); !errors.Is(err, apperrors.ErrNotFoundOrState) {
		t.Errorf("after completion: err = %v", err)
	}
}

func TestStatusProgression(t *testing.T) {
	f := newFixture(collectiondomain.StatusInProgress)
	ctx := context.Background()
	s, _ := f.svc.Start(ctx, "rec-1", domain.StartRequest{PickupID: pickupID, Lat: 5.556, Lng: -0.182})

	if _, err := f.svc.PickingUp(ctx, s.ID, "rec-1"); !errors.Is(err, apperrors.ErrNotFoundOrState) {
		t.Errorf("skip arrived: err = %v", err)
	}

	steps := []struct {
		call func(context.Context, string, string) (*domain.Session, error)
		want domain.Status
	}{
		{f.svc.Arrived, domain.StatusArrived},
		{f.svc.PickingUp, domain.StatusPickingUp},
		{f.svc.Complete, domain.StatusCompleted},
	}
	for _, step := range steps {
		got, err := step.call(ctx, s.ID, "rec-1")
		if err != nil || got.Status != step.want {
			t.Fatalf("want %s: got %+v, %v", step.want, got, err)
		}
	}

	if _, err := f.svc.Arrived(ctx, s.ID, "rec-1"); !errors.Is(err, apperrors.ErrNotFoundOrState) {
		t.Errorf("arrived after completion: err = %v", err)
	}

	last := f.notifier.messages[len(f.notifier.messages)-1].update
	if last.Type != "status_update" || last.Message != "Pickup finished" {
		t.Errorf("last push = %+v", last)
	}
	if got := f.pub.keys[len(f.pub.keys)-1]; got != "tracking.status.completed" {
		t.Errorf("last event = %s", got)
	}
}

func TestForPickupVisibility(t *testing.T) {
	f := newFixture(collectiondomain.StatusAccepted)
	ctx := context.Background()
	f.svc.Start(ctx, "rec-1", domain.StartRequest{PickupID: pickupID, Lat: 5.556, Lng: -0.182})

	if _, err := f.svc.ForPickup(ctx, pickupID, "cust-1", userdomain.RoleCustomer); err != nil {
		t.Errorf("customer: %v", err)
	}
	if _, err := f.svc.ForPickup(ctx, pickupID, "cust-9", userdomain.RoleCustomer); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("stranger: err = %v", err)
	}
}
