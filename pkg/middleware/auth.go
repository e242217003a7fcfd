package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	userRepo   repositories.UserRepositoryInterface
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, userRepo repositories.UserRepositoryInterface, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Auth проверяет access-токен и кладёт актора (id, роль, бригада) в контекст запроса.
// Роль читается из БД на каждый запрос: токен переживает смену роли, контекст — нет.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: попытка доступа с refresh-токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := c.Request().Context()

		user, err := m.userRepo.FindUserByID(ctx, claims.UserID)
		if err != nil {
			m.logger.Warn("AuthMiddleware: пользователь из токена не найден",
				zap.Uint64("userID", claims.UserID), zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrInvalidToken, m.logger)
		}

		actor := &authz.Actor{
			ID:     user.ID,
			Role:   user.Role,
			TeamID: user.TeamID,
		}

		newCtx := context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		newCtx = context.WithValue(newCtx, contextkeys.ActorKey, actor)
		c.SetRequest(c.Request().WithContext(newCtx))

		return next(c)
	}
}
