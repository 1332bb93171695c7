package app

import (
	"context"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

type RewardService struct {
	repo   domain.RewardRepository
	logger *util.Logger
}

func NewRewardService(repo domain.RewardRepository, logger *util.Logger) *RewardService {
	return &RewardService{repo: repo, logger: logger}
}

func (s *RewardService) Summary(ctx context.Context, userID string, page, pageSize int) (*domain.Summary, error) {
	instance := "RewardService.Summary"

	total, err := s.repo.TotalPoints(ctx, userID)
	if err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	history, err := s.repo.List(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	return &domain.Summary{TotalPoints: total, History: history}, nil
}
