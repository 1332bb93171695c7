package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/domain"
	paymentdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/domain"
	rewarddomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	userdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

// fakeRepo mirrors the SQL status guards so races between the lookup and
// the update behave as they would against Postgres.
type fakeRepo struct {
	mu          sync.Mutex
	collections map[string]domain.WasteCollection
	payments    []paymentdomain.Payment
	rewards     []rewarddomain.Reward
	failTx      bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{collections: map[string]domain.WasteCollection{}}
}

func (f *fakeRepo) Create(_ context.Context, c *domain.WasteCollection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[c.ID] = *c
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*domain.WasteCollection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collections[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (f *fakeRepo) List(_ context.Context, filter domain.ListFilter) ([]domain.WasteCollection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.WasteCollection
	for _, c := range f.collections {
		if filter.CustomerID != "" && c.CustomerID != filter.CustomerID {
			continue
		}
		if filter.RecyclerID != "" && !c.AssignedTo(filter.RecyclerID) {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) update(id string, from []domain.Status, apply func(*domain.WasteCollection) bool) (*domain.WasteCollection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collections[id]
	if !ok {
		return nil, apperrors.ErrNotFoundOrState
	}
	for _, s := range from {
		if c.Status == s && apply(&c) {
			f.collections[id] = c
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFoundOrState
}

func (f *fakeRepo) Accept(_ context.Context, id, recyclerID string, from []domain.Status) (*domain.WasteCollection, error) {
	return f.update(id, from, func(c *domain.WasteCollection) bool {
		c.Status, c.RecyclerID = domain.StatusAccepted, &recyclerID
		return true
	})
}

func (f *fakeRepo) Start(_ context.Context, id, recyclerID string, from []domain.Status) (*domain.WasteCollection, error) {
	return f.update(id, from, func(c *domain.WasteCollection) bool {
		if !c.AssignedTo(recyclerID) {
			return false
		}
		c.Status = domain.StatusInProgress
		return true
	})
}

func (f *fakeRepo) Cancel(_ context.Context, id, reason string, from []domain.Status) (*domain.WasteCollection, error) {
	return f.update(id, from, func(c *domain.WasteCollection) bool {
		c.Status, c.CancellationReason = domain.StatusCancelled, reason
		return true
	})
}

func (f *fakeRepo) Complete(_ context.Context, id, recyclerID string, weight float64, from []domain.Status,
	p *paymentdomain.Payment, rw *rewarddomain.Reward) (*domain.WasteCollection, error) {
	if f.failTx {
		return nil, errors.New("insert payment failed: connection reset")
	}
	c, err := f.update(id, from, func(c *domain.WasteCollection) bool {
		if !c.AssignedTo(recyclerID) {
			return false
		}
		c.Status, c.Weight = domain.StatusCompleted, weight
		return true
	})
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append(f.payments, *p)
	if rw != nil {
		f.rewards = append(f.rewards, *rw)
	}
	return c, nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingPublisher) PublishEvent(_ context.Context, e mq.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, e.RoutingKey())
	return nil
}

var validRequest = domain.CreateRequest{
	WasteType:     "plastic",
	Weight:        10,
	PickupAddress: "12 Oxford St, Osu",
	PickupLat:     5.556,
	PickupLng:     -0.182,
}

func setup(t *testing.T) (*CollectionService, *fakeRepo, *recordingPublisher, string) {
	t.Helper()
	repo := newFakeRepo()
	pub := &recordingPublisher{}
	svc := NewCollectionService(repo, pub, util.NewNop())

	c, err := svc.Create(context.Background(), "cust-1", validRequest)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return svc, repo, pub, c.ID
}

func TestCreateValidation(t *testing.T) {
	svc := NewCollectionService(newFakeRepo(), nil, util.NewNop())

	tests := []struct {
		name   string
		mutate func(*domain.CreateRequest)
	}{
		{"unknown waste type", func(r *domain.CreateRequest) { r.WasteType = "furniture" }},
		{"zero weight", func(r *domain.CreateRequest) { r.Weight = 0 }},
		{"missing address", func(r *domain.CreateRequest) { r.PickupAddress = " " }},
		{"latitude out of range", func(r *domain.CreateRequest) { r.PickupLat = 95 }},
		{"unknown service", func(r *domain.CreateRequest) { r.AdditionalServices = []string{"gift_wrap"} }},
	}

	for _, tc := range tests {
		req := validRequest
		tc.mutate(&req)
		if _, err := svc.Create(context.Background(), "cust-1", req); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("%s: err = %v, want validation error", tc.name, err)
		}
	}
}

func TestStartOnPendingIsRejected(t *testing.T) {
	svc, repo, _, id := setup(t)

	_, err := svc.Start(context.Background(), id, "rec-1")
	if !errors.Is(err, apperrors.ErrNotFoundOrState) {
		t.Fatalf("Start() on pending: err = %v, want ErrNotFoundOrState", err)
	}
	if apperrors.Status(err) != 400 {
		t.Errorf("status = %d, want 400", apperrors.Status(err))
	}
	if got := repo.collections[id].Status; got != domain.StatusPending {
		t.Errorf("status changed to %s", got)
	}
}

func TestStartTwiceOnlyFirstSucceeds(t *testing.T) {
	svc, _, _, id := setup(t)
	ctx := context.Background()

	if _, err := svc.Accept(ctx, id, "rec-1"); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	c, err := svc.Start(ctx, id, "rec-1")
	if err != nil || c.Status != domain.StatusInProgress {
		t.Fatalf("first Start() = %+v, %v", c, err)
	}
	if _, err := svc.Start(ctx, id, "rec-1"); !errors.Is(err, apperrors.ErrNotFoundOrState) {
		t.Errorf("second Start(): err = %v, want ErrNotFoundOrState", err)
	}
}

func TestConcurrentAcceptOnlyOneWins(t *testing.T) {
	svc, repo, _, id := setup(t)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, rec := range []string{"rec-1", "rec-2", "rec-3", "rec-4"} {
		wg.Add(1)
		go func(rec string) {
			defer wg.Done()
			if _, err := svc.Accept(context.Background(), id, rec); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(rec)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d recyclers accepted the same pickup", wins)
	}
	if repo.collections[id].RecyclerID == nil {
		t.Error("no recycler assigned")
	}
}

func TestStartByOtherRecyclerIsForbidden(t *testing.T) {
	svc, _, _, id := setup(t)
	ctx := context.Background()

	svc.Accept(ctx, id, "rec-1")
	if _, err := svc.Start(ctx, id, "rec-2"); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestCompleteWritesPaymentAndReward(t *testing.T) {
	svc, repo, pub, id := setup(t)
	ctx := context.Background()

	svc.Accept(ctx, id, "rec-1")
	svc.Start(ctx, id, "rec-1")

	got, err := svc.Complete(ctx, id, "rec-1", domain.CompleteRequest{ActualWeight: 12.5, PaymentMethod: "mobile_money"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got.Collection.Status != domain.StatusCompleted || got.Collection.Weight != 12.5 {
		t.Errorf("collection = %+v", got.Collection)
	}
	// 12.5kg plastic: 31.25 + 15% tax.
	if got.Payment.TotalAmount != 35.94 || got.Payment.Method != "mobile_money" {
		t.Errorf("payment = %+v", got.Payment)
	}
	if got.Payment.CustomerID != "cust-1" || got.Payment.CollectionID != id {
		t.Errorf("payment parties = %+v", got.Payment)
	}
	if got.Reward == nil || got.Reward.Points != 125 || got.Reward.UserID != "cust-1" {
		t.Errorf("reward = %+v", got.Reward)
	}
	if len(repo.payments) != 1 || len(repo.rewards) != 1 {
		t.Errorf("stored %d payments, %d rewards", len(repo.payments), len(repo.rewards))
	}

	want := []string{
		"collection.status.pending",
		"collection.status.accepted",
		"collection.status.in_progress",
		"collection.status.completed",
		"payment.status.pending",
	}
	if len(pub.keys) != len(want) {
		t.Fatalf("published %v", pub.keys)
	}
	for i := range want {
		if pub.keys[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, pub.keys[i], want[i])
		}
	}

	if _, err := svc.Complete(ctx, id, "rec-1", domain.CompleteRequest{}); !errors.Is(err, apperrors.ErrNotFoundOrState) {
		t.Errorf("second Complete(): err = %v", err)
	}
}

func TestCompleteUsesEstimateWithoutActualWeight(t *testing.T) {
	svc, _, _, id := setup(t)
	ctx := context.Background()

	svc.Accept(ctx, id, "rec-1")
	svc.Start(ctx, id, "rec-1")

	got, err := svc.Complete(ctx, id, "rec-1", domain.CompleteRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Payment.TotalAmount != 28.75 || got.Payment.Method != "cash" {
		t.Errorf("payment = %+v", got.Payment)
	}
}

func TestCompleteFailureLeavesCollectionInProgress(t *testing.T) {
	svc, repo, _, id := setup(t)
	ctx := context.Background()

	svc.Accept(ctx, id, "rec-1")
	svc.Start(ctx, id, "rec-1")
	repo.failTx = true

	if _, err := svc.Complete(ctx, id, "rec-1", domain.CompleteRequest{}); err == nil {
		t.Fatal("expected error")
	}
	if got := repo.collections[id].Status; got != domain.StatusInProgress {
		t.Errorf("status = %s, want in_progress", got)
	}
	if len(repo.payments) != 0 {
		t.Error("payment written despite failure")
	}
}

func TestCancel(t *testing.T) {
	svc, _, _, id := setup(t)
	ctx := context.Background()

	if _, err := svc.Cancel(ctx, id, "stranger", userdomain.RoleCustomer, ""); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("stranger cancel: err = %v", err)
	}

	c, err := svc.Cancel(ctx, id, "cust-1", userdomain.RoleCustomer, "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != domain.StatusCancelled || c.CancellationReason != "Cancelled by customer" {
		t.Errorf("cancelled = %+v", c)
	}

	if _, err := svc.Accept(ctx, id, "rec-1"); !errors.Is(err, apperrors.ErrNotFoundOrState) {
		t.Errorf("accept cancelled: err = %v", err)
	}
}

func TestGetVisibility(t *testing.T) {
	svc, _, _, id := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		role   string
		ok     bool
	}{
		{"owner", "cust-1", userdomain.RoleCustomer, true},
		{"other customer", "cust-2", userdomain.RoleCustomer, false},
		{"any recycler while pending", "rec-9", userdomain.RoleRecycler, true},
		{"admin", "root", userdomain.RoleAdmin, true},
	}

	for _, tc := range tests {
		_, err := svc.Get(ctx, id, tc.userID, tc.role)
		if (err == nil) != tc.ok {
			t.Errorf("%s: err = %v, want ok=%v", tc.name, err, tc.ok)
		}
	}

	svc.Accept(ctx, id, "rec-1")
	if _, err := svc.Get(ctx, id, "rec-9", userdomain.RoleRecycler); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("unassigned recycler after accept: err = %v", err)
	}
}

func TestListScopesByRole(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()
	svc.Create(ctx, "cust-2", validRequest)

	mine, err := svc.List(ctx, "cust-1", userdomain.RoleCustomer, "", 1, 20)
	if err != nil || len(mine) != 1 {
		t.Errorf("customer list = %d, %v", len(mine), err)
	}

	all, _ := svc.List(ctx, "root", userdomain.RoleAdmin, "", 1, 20)
	if len(all) != 2 {
		t.Errorf("admin list = %d", len(all))
	}

	if _, err := svc.List(ctx, "nobody", "", "", 1, 20); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("no role: err = %v", err)
	}

	available, _ := svc.Available(ctx, 1, 20)
	if len(available) != 2 {
		t.Errorf("available = %d", len(available))
	}
}
