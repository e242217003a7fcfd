package utils

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
)

// GetActorFromCtx достаёт аутентифицированного пользователя, положенного в контекст middleware-ом.
// Без актора ни одна защищённая операция выполняться не должна.
func GetActorFromCtx(ctx context.Context) (*authz.Actor, error) {
	actor, ok := ctx.Value(contextkeys.ActorKey).(*authz.Actor)
	if !ok || actor == nil {
		return nil, apperrors.ErrActorNotFoundInContext
	}
	return actor, nil
}

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrActorNotFoundInContext
	}
	return userID, nil
}
