package services

import (
	"context"
	"strconv"
	"time"

	"delay-tracker/internal/authz"
	"delay-tracker/internal/dto"
	"delay-tracker/internal/repositories"
	apperrors "delay-tracker/pkg/errors"
	"delay-tracker/pkg/types"
	"delay-tracker/pkg/utils"
)

// resolveAnalyticsFilter turns raw request parameters into the canonical
// filter specification. The branch scope comes from the authenticated
// caller's user row, never from the request.
func resolveAnalyticsFilter(ctx context.Context, userRepo repositories.UserRepositoryInterface, p dto.AnalyticsFilterDTO) (types.AnalyticsFilter, error) {
	var f types.AnalyticsFilter

	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return f, err
	}
	actor, err := userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return f, apperrors.ErrUserNotFound
	}

	authContext := authz.Context{Actor: actor, Permissions: authz.PermissionsForRole(actor.Role)}
	if !authContext.HasPermission(authz.OrdersView) {
		return f, apperrors.ErrForbidden
	}

	period := p.Period
	if period == "" {
		period = types.DefaultPeriod
	}

	f = types.AnalyticsFilter{
		Period:    period,
		StartDate: types.StartDateForPeriod(period, time.Now()),
		BranchID:  authContext.BranchScope(),
		Category:  p.Category,
		OrderType: p.OrderType,
	}

	if p.User != "" {
		// Unparseable reporter ids coerce to 0, which matches no rows.
		id, err := strconv.ParseInt(p.User, 10, 64)
		if err != nil {
			id = 0
		}
		f.ReportedBy = &id
	}

	return f, nil
}
