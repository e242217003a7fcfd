package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
)

type AuthServiceInterface interface {
	Signup(ctx context.Context, payload dto.SignupDTO) (*dto.AuthResponseDTO, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Refresh(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.TokenPairDTO, error)
	GetUserByID(ctx context.Context, userID uint64) (*entities.User, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	teamRepo   repositories.TeamRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (s *AuthService) Signup(ctx context.Context, payload dto.SignupDTO) (*dto.AuthResponseDTO, error) {
	// Работник и техник без бригады не имеют смысла: вся их видимость строится от неё.
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
		Name:     payload.Name,
		Email:    payload.Email,
		Password: hashedPassword,
		Role:     payload.Role,
		TeamID:   payload.TeamID,
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	user.Password = ""

	tokens, err := s.issueTokens(id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("зарегистрирован новый пользователь",
		zap.Uint64("userID", id), zap.String("role", payload.Role))

	return &dto.AuthResponseDTO{User: user, Tokens: *tokens}, nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		// Не раскрываем, существует ли email.
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	user.Password = ""

	tokens, err := s.issueTokens(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponseDTO{User: user, Tokens: *tokens}, nil
}

func (s *AuthService) Refresh(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	// Пользователь мог быть удалён после выдачи токена.
	if _, err := s.userRepo.FindUserByID(ctx, claims.UserID); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	return s.issueTokens(claims.UserID)
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*entities.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *AuthService) issueTokens(userID uint64) (*dto.TokenPairDTO, error) {
	access, refresh, err := s.jwtService.GenerateTokens(userID)
	if err != nil {
		s.logger.Error("не удалось сгенерировать токены", zap.Error(err))
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}
