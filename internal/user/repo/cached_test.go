package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/cache"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

type countingRepo struct {
	users     map[string]domain.User
	recyclers []domain.RecyclerProfile
	userReads int
	listReads int
}

func (c *countingRepo) GetUser(_ context.Context, id string) (*domain.User, error) {
	c.userReads++
	u, ok := c.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (c *countingRepo) UpsertUser(_ context.Context, u domain.User) (*domain.User, error) {
	c.users[u.ID] = u
	return &u, nil
}

func (c *countingRepo) AvailableRecyclers(context.Context) ([]domain.RecyclerProfile, error) {
	c.listReads++
	return c.recyclers, nil
}

func (c *countingRepo) GetRecycler(_ context.Context, id string) (*domain.RecyclerProfile, error) {
	for _, p := range c.recyclers {
		if p.UserID == id {
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (c *countingRepo) UpsertRecycler(_ context.Context, p domain.RecyclerProfile) (*domain.RecyclerProfile, error) {
	c.recyclers = append(c.recyclers, p)
	return &p, nil
}

func newCached() (*CachedRepo, *countingRepo) {
	inner := &countingRepo{users: map[string]domain.User{
		"u1": {ID: "u1", FullName: "Ama", Role: domain.RoleCustomer},
	}}
	return NewCachedRepo(inner, cache.New[any](100, time.Minute)), inner
}

func TestGetUserIsCached(t *testing.T) {
	r, inner := newCached()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		u, err := r.GetUser(ctx, "u1")
		if err != nil || u.FullName != "Ama" {
			t.Fatalf("GetUser() = %+v, %v", u, err)
		}
	}
	if inner.userReads != 1 {
		t.Errorf("inner reads = %d, want 1", inner.userReads)
	}

	role, err := r.Role(ctx, "u1")
	if err != nil || role != domain.RoleCustomer {
		t.Errorf("Role() = %q, %v", role, err)
	}
}

func TestMissingUserIsNotCached(t *testing.T) {
	r, inner := newCached()

	for i := 0; i < 2; i++ {
		if _, err := r.GetUser(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrNotFound) {
			t.Fatalf("err = %v", err)
		}
	}
	if inner.userReads != 2 {
		t.Errorf("inner reads = %d, want 2", inner.userReads)
	}
}

func TestUpsertInvalidates(t *testing.T) {
	r, inner := newCached()
	ctx := context.Background()

	r.GetUser(ctx, "u1")
	if _, err := r.UpsertUser(ctx, domain.User{ID: "u1", FullName: "Ama Mensah", Role: domain.RoleCustomer}); err != nil {
		t.Fatal(err)
	}
	u, _ := r.GetUser(ctx, "u1")
	if u.FullName != "Ama Mensah" {
		t.Errorf("stale profile %q after update", u.FullName)
	}
	if inner.userReads != 2 {
		t.Errorf("inner reads = %d, want 2", inner.userReads)
	}
}

func TestRecyclerListInvalidatedByUpsert(t *testing.T) {
	r, inner := newCached()
	ctx := context.Background()

	r.AvailableRecyclers(ctx)
	r.AvailableRecyclers(ctx)
	if inner.listReads != 1 {
		t.Fatalf("list reads = %d, want 1", inner.listReads)
	}

	r.UpsertRecycler(ctx, domain.RecyclerProfile{UserID: "r1", IsAvailable: true})
	list, _ := r.AvailableRecyclers(ctx)
	if inner.listReads != 2 || len(list) != 1 {
		t.Errorf("list reads = %d, len = %d", inner.listReads, len(list))
	}
}
