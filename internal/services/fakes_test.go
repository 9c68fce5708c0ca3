package services

import (
	"context"
	"sync"
	"time"

	"github.com/aarondl/null/v8"

	"delay-tracker/internal/entities"
	"delay-tracker/internal/repositories"
	"delay-tracker/pkg/contextkeys"
	apperrors "delay-tracker/pkg/errors"
	"delay-tracker/pkg/types"
)

// fakeAnalyticsRepo implements AnalyticsRepositoryInterface via optional
// function fields; unset fields return zero values. LastFilter records the
// filter the service actually passed down.
type fakeAnalyticsRepo struct {
	mu         sync.Mutex
	LastFilter *types.AnalyticsFilter

	CountDelayedFn           func(f types.AnalyticsFilter) (int64, error)
	CountDelayedExceededFn   func(f types.AnalyticsFilter) (int64, error)
	CountCompletedReportedFn func(f types.AnalyticsFilter) (int64, error)
	DelayedOrdersWithTimesFn func(f types.AnalyticsFilter, limit uint64) ([]entities.Order, error)
	RevenueAtRiskFn          func(f types.AnalyticsFilter) (float64, error)
	TopReasonsFn             func(f types.AnalyticsFilter, limit uint64) ([]types.ReasonCount, error)
	AllReasonsFn             func(f types.AnalyticsFilter) ([]types.ReasonCount, error)
	CategoryCountsFn         func(f types.AnalyticsFilter) ([]types.CategoryCount, error)
	DailyDelayCountsFn       func(f types.AnalyticsFilter) ([]types.DailyDelayPoint, error)
	DailyCompletedTotalsFn   func(f types.AnalyticsFilter) ([]types.DailyTotal, error)
	TypeCountsFn             func(f types.AnalyticsFilter) ([]types.TypeCount, error)
	ReporterCountsFn         func(f types.AnalyticsFilter) ([]types.ReporterCount, error)
	RepeatDelayCustomersFn   func(f types.AnalyticsFilter) (int64, error)
	UniqueDelayCustomersFn   func(f types.AnalyticsFilter) (int64, error)
	ReasonImpactFn           func(f types.AnalyticsFilter, limit uint64) ([]types.ReasonImpactRow, error)
	ActiveCategoriesFn       func() ([]string, error)
}

var _ repositories.AnalyticsRepositoryInterface = (*fakeAnalyticsRepo)(nil)

func (r *fakeAnalyticsRepo) record(f types.AnalyticsFilter) {
	r.mu.Lock()
	r.LastFilter = &f
	r.mu.Unlock()
}

func (r *fakeAnalyticsRepo) CountDelayed(_ context.Context, f types.AnalyticsFilter) (int64, error) {
	r.record(f)
	if r.CountDelayedFn != nil {
		return r.CountDelayedFn(f)
	}
	return 0, nil
}

func (r *fakeAnalyticsRepo) CountDelayedExceeded(_ context.Context, f types.AnalyticsFilter) (int64, error) {
	r.record(f)
	if r.CountDelayedExceededFn != nil {
		return r.CountDelayedExceededFn(f)
	}
	return 0, nil
}

func (r *fakeAnalyticsRepo) CountCompletedReported(_ context.Context, f types.AnalyticsFilter) (int64, error) {
	r.record(f)
	if r.CountCompletedReportedFn != nil {
		return r.CountCompletedReportedFn(f)
	}
	return 0, nil
}

func (r *fakeAnalyticsRepo) DelayedOrdersWithTimes(_ context.Context, f types.AnalyticsFilter, limit uint64) ([]entities.Order, error) {
	r.record(f)
	if r.DelayedOrdersWithTimesFn != nil {
		return r.DelayedOrdersWithTimesFn(f, limit)
	}
	return nil, nil
}

func (r *fakeAnalyticsRepo) RevenueAtRisk(_ context.Context, f types.AnalyticsFilter) (float64, error) {
	r.record(f)
	if r.RevenueAtRiskFn != nil {
		return r.RevenueAtRiskFn(f)
	}
	return 0, nil
}

func (r *fakeAnalyticsRepo) TopReasons(_ context.Context, f types.AnalyticsFilter, limit uint64) ([]types.ReasonCount, error) {
	r.record(f)
	if r.TopReasonsFn != nil {
		return r.TopReasonsFn(f, limit)
	}
	return nil, nil
}

func (r *fakeAnalyticsRepo) AllReasons(_ context.Context, f types.AnalyticsFilter) ([]types.ReasonCount, error) {
	r.record(f)
	if r.AllReasonsFn != nil {
		return r.AllReasonsFn(f)
	}
	return nil, nil
}

func (r *fakeAnalyticsRepo) CategoryCounts(_ context.Context, f types.AnalyticsFilter) ([]types.CategoryCount, error) {
	r.record(f)
	if r.CategoryCountsFn != nil {
		return r.CategoryCountsFn(f)
	}
	return nil, nil
}

func (r *fakeAnalyticsRepo) DailyDelayCounts(_ context.Context, f types.AnalyticsFilter) ([]types.DailyDelayPoint, error) {
	r.record(f)
	if r.DailyDelayCountsFn != nil {
		return r.DailyDelayCountsFn(f)
	}
	return nil, nil
}

func (r *fakeAnalyticsRepo) DailyCompletedTotals(_ context.Context, f types.AnalyticsFilter) ([]types.DailyTotal, error) {
	r.record(f)
	if r.DailyCompletedTotalsFn != nil {
		return r.DailyCompletedTotalsFn(f)
	}
	return nil, nil
}

func (r *fakeAnalyticsRepo) TypeCounts(_ context.Context, f types.AnalyticsFilter) ([]types.TypeCount, error) {
	r.record(f)
	if r.TypeCountsFn != nil {
		return r.TypeCountsFn(f)
	}
	return nil, nil
}

func (r *fakeAnalyticsRepo) ReporterCounts(_ context.Context, f types.AnalyticsFilter) ([]types.ReporterCount, error) {
	r.record(f)
	if r.ReporterCountsFn != nil {
		return r.ReporterCountsFn(f)
	}
	return nil, nil
}

func (r *fakeAnalyticsRepo) RepeatDelayCustomers(_ context.Context, f types.AnalyticsFilter) (int64, error) {
	r.record(f)
	if r.RepeatDelayCustomersFn != nil {
		return r.RepeatDelayCustomersFn(f)
	}
	return 0, nil
}

func (r *fakeAnalyticsRepo) UniqueDelayCustomers(_ context.Context, f types.AnalyticsFilter) (int64, error) {
	r.record(f)
	if r.UniqueDelayCustomersFn != nil {
		return r.UniqueDelayCustomersFn(f)
	}
	return 0, nil
}

func (r *fakeAnalyticsRepo) ReasonImpact(_ context.Context, f types.AnalyticsFilter, limit uint64) ([]types.ReasonImpactRow, error) {
	r.record(f)
	if r.ReasonImpactFn != nil {
		return r.ReasonImpactFn(f, limit)
	}
	return nil, nil
}

func (r *fakeAnalyticsRepo) ActiveCategories(context.Context) ([]string, error) {
	if r.ActiveCategoriesFn != nil {
		return r.ActiveCategoriesFn()
	}
	return nil, nil
}

type fakeUserRepo struct {
	Users     map[int64]*entities.User
	Reporters []types.Reporter
}

var _ repositories.UserRepositoryInterface = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) FindUserByID(_ context.Context, id int64) (*entities.User, error) {
	if u, ok := r.Users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindUserByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, u := range r.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) DelayReporters(context.Context) ([]types.Reporter, error) {
	return r.Reporters, nil
}

type fakeCacheRepo struct {
	store map[string][]byte
}

var _ repositories.CacheRepositoryInterface = (*fakeCacheRepo)(nil)

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{store: make(map[string][]byte)}
}

func (r *fakeCacheRepo) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := r.store[key]; ok {
		return v, nil
	}
	return nil, repositories.ErrCacheMiss
}

func (r *fakeCacheRepo) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	r.store[key] = value
	return nil
}

func ctxWithUser(id int64) context.Context {
	return context.WithValue(context.Background(), contextkeys.UserIDKey, id)
}

func adminUser(id int64) *entities.User {
	return &entities.User{ID: id, Username: "admin", Role: "admin"}
}

func staffUser(id, branchID int64) *entities.User {
	return &entities.User{ID: id, Username: "staff", Role: "staff", BranchID: null.Int64From(branchID)}
}
