package repo

import (
	"context"
	"time"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/cache"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

const (
	userKeyPrefix = "user:"
	recyclersKey  = "recyclers:available"

	recyclersTTL = time.Minute
)

// CachedRepo serves profile lookups and the available-recycler list from a
// TTL cache and drops the affected keys on every write.
type CachedRepo struct {
	next  domain.UserRepository
	cache *cache.Cache[any]
}

func NewCachedRepo(next domain.UserRepository, c *cache.Cache[any]) *CachedRepo {
	return &CachedRepo{next: next, cache: c}
}

func (r *CachedRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	key := userKeyPrefix + id
	if v, ok := r.cache.Get(key); ok {
		if u, ok := v.(*domain.User); ok {
			return u, nil
		}
	}

	u, err := r.next.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, u, 0)
	return u, nil
}

// Role implements middleware.RoleResolver.
func (r *CachedRepo) Role(ctx context.Context, userID string) (string, error) {
	u, err := r.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (r *CachedRepo) UpsertUser(ctx context.Context, u domain.User) (*domain.User, error) {
	out, err := r.next.UpsertUser(ctx, u)
	if err != nil {
		return nil, err
	}
	r.cache.Invalidate(userKeyPrefix + u.ID)
	// Recycler rows embed name and phone.
	r.cache.Invalidate(recyclersKey)
	return out, nil
}

func (r *CachedRepo) AvailableRecyclers(ctx context.Context) ([]domain.RecyclerProfile, error) {
	if v, ok := r.cache.Get(recyclersKey); ok {
		if list, ok := v.([]domain.RecyclerProfile); ok {
			return list, nil
		}
	}

	list, err := r.next.AvailableRecyclers(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(recyclersKey, list, recyclersTTL)
	return list, nil
}

func (r *CachedRepo) GetRecycler(ctx context.Context, userID string) (*domain.RecyclerProfile, error) {
	return r.next.GetRecycler(ctx, userID)
}

func (r *CachedRepo) UpsertRecycler(ctx context.Context, p domain.RecyclerProfile) (*domain.RecyclerProfile, error) {
	out, err := r.next.UpsertRecycler(ctx, p)
	if err != nil {
		return nil, err
	}
	r.cache.Invalidate(recyclersKey)
	return out, nil
}
