package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context) ([]entities.User, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	teamRepo repositories.TeamRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{userRepo: userRepo, teamRepo: teamRepo, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context) ([]entities.User, error) {
	return s.userRepo.GetUsers(ctx)
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	return s.userRepo.FindUserByID(ctx, id)
}

// CreateUser заводит пользователя от имени аутентифицированного актора.
// Те же правила, что и при самостоятельной регистрации: работник и техник
// обязаны состоять в бригаде, бригада должна существовать.
func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if constants.RequiresTeam(payload.Role) && payload.TeamID == nil {
		return nil, apperrors.NewValidationError("для роли %q требуется указать бригаду", payload.Role)
	}

	if payload.TeamID != nil {
		if _, err := s.teamRepo.FindTeam(ctx, *payload.TeamID); err != nil {
			return nil, err
		}
	}

	hashedPassword, err := utils.HashPassword(payload.Password)
	if err != nil {
		s.logger.Error("ошибка хэширования пароля", zap.Error(err))
		return nil, err
	}

	user := &entities.User{
		Name:      payload.Name,
		Email:     payload.Email,
		Password:  hashedPassword,
		Role:      payload.Role,
		TeamID:    payload.TeamID,
		AvatarURL: payload.AvatarURL,
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("создан пользователь",
		zap.Uint64("userID", id), zap.String("role", payload.Role), zap.Uint64("actorID", actor.ID))

	return s.userRepo.FindUserByID(ctx, id)
}
