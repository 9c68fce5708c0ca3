package utils

import (
	"context"

	"delay-tracker/pkg/contextkeys"
	apperrors "delay-tracker/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(int64)
	if !ok {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}
