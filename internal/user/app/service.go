package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/validation"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/domain"
)

type UserService struct {
	repo   domain.UserRepository
	logger *util.Logger
}

func NewUserService(repo domain.UserRepository, logger *util.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetUser(ctx, userID)
}

// UpsertProfile creates the caller's profile on first call. Admins are
// provisioned in the database, never through the API.
func (s *UserService) UpsertProfile(ctx context.Context, userID, email string, req domain.UpsertUserRequest) (*domain.User, error) {
	instance := "UserService.UpsertProfile"

	if err := validation.ValidateStringNotEmpty(req.FullName, "full_name"); err != nil {
		return nil, err
	}

	role := req.Role
	existing, err := s.repo.GetUser(ctx, userID)
	switch {
	case err == nil:
		role = existing.Role
	case errors.Is(err, apperrors.ErrNotFound):
		if role == "" {
			role = domain.RoleCustomer
		}
		if err := validation.ValidateOneOf(role, "role", []string{domain.RoleCustomer, domain.RoleRecycler}); err != nil {
			return nil, err
		}
	default:
		s.logger.Error(instance, err)
		return nil, err
	}

	u, err := s.repo.UpsertUser(ctx, domain.User{
		ID:       userID,
		Email:    email,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     role,
	})
	if err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	s.logger.OK(instance, fmt.Sprintf("profile saved [user_id=%s, role=%s]", userID, role))
	return u, nil
}

// ListRecyclers returns available recyclers. When near is set the list is
// ordered by great-circle distance from it.
func (s *UserService) ListRecyclers(ctx context.Context, near *util.LatLng) ([]domain.RecyclerProfile, error) {
	cached, err := s.repo.AvailableRecyclers(ctx)
	if err != nil {
		s.logger.Error("UserService.ListRecyclers", err)
		return nil, err
	}

	// The slice may be shared with the cache.
	list := make([]domain.RecyclerProfile, len(cached))
	copy(list, cached)

	if near == nil {
		return list, nil
	}

	for i := range list {
		d := util.Round2(util.Haversine(near.Lat, near.Lng, list[i].Latitude, list[i].Longitude))
		list[i].DistanceKm = &d
	}
	sort.SliceStable(list, func(i, j int) bool {
		return *list[i].DistanceKm < *list[j].DistanceKm
	})
	return list, nil
}

func (s *UserService) GetRecycler(ctx context.Context, userID string) (*domain.RecyclerProfile, error) {
	return s.repo.GetRecycler(ctx, userID)
}

func (s *UserService) UpsertRecycler(ctx context.Context, userID string, req domain.UpsertRecyclerRequest) (*domain.RecyclerProfile, error) {
	instance := "UserService.UpsertRecycler"

	if err := validation.ValidateStringNotEmpty(req.CompanyName, "company_name"); err != nil {
		return nil, err
	}
	if err := validation.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	p, err := s.repo.UpsertRecycler(ctx, domain.RecyclerProfile{
		UserID:      userID,
		CompanyName: strings.TrimSpace(req.CompanyName),
		VehicleType: req.VehicleType,
		ServiceArea: req.ServiceArea,
		IsAvailable: req.IsAvailable,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	s.logger.OK(instance, fmt.Sprintf("recycler profile saved [user_id=%s, available=%t]", userID, req.IsAvailable))
	return p, nil
}
