package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context) ([]entities.Team, error)
	FindTeam(ctx context.Context, id uint64) (*entities.Team, error)
	CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*entities.Team, error)
}

type TeamService struct {
	teamRepo repositories.TeamRepositoryInterface
	logger   *zap.Logger
}

func NewTeamService(teamRepo repositories.TeamRepositoryInterface, logger *zap.Logger) TeamServiceInterface {
	return &TeamService{teamRepo: teamRepo, logger: logger}
}

func (s *TeamService) GetTeams(ctx context.Context) ([]entities.Team, error) {
	return s.teamRepo.GetTeams(ctx)
}

func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*entities.Team, error) {
	return s.teamRepo.FindTeam(ctx, id)
}

func (s *TeamService) CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*entities.Team, error) {
	id, err := s.teamRepo.CreateTeam(ctx, payload)
	if err != nil {
		s.logger.Error("не удалось создать бригаду", zap.Error(err))
		return nil, err
	}
	return s.teamRepo.FindTeam(ctx, id)
}
