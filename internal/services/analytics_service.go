package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"delay-tracker/internal/dto"
	"delay-tracker/internal/entities"
	"delay-tracker/internal/repositories"
	apperrors "delay-tracker/pkg/errors"
	"delay-tracker/pkg/types"
)

const (
	// delayThresholdHours is the duration past which an order's completion
	// time counts as delayed time. The orders table also carries a
	// precomputed exceeded_9_hours flag; the two are intentionally kept as
	// independent signals.
	delayThresholdHours = 9.0

	// maxInMemoryRows caps the rows pulled for in-memory duration math.
	// Past the cap the averages and hour totals become approximations; the
	// trade-off bounds worst-case latency.
	maxInMemoryRows = 1000

	topReasonsLimit  = 10
	reasonImpactLimit = 5
)

type AnalyticsService struct {
	repo      repositories.AnalyticsRepositoryInterface
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewAnalyticsService(
	repo repositories.AnalyticsRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		repo:      repo,
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// percentage returns n/d*100; a zero denominator yields 0, never NaN.
func percentage(n, d int64) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// GetSummary computes the headline statistics plus the top 10 delay reasons.
func (s *AnalyticsService) GetSummary(ctx context.Context, p dto.AnalyticsFilterDTO) (*dto.SummaryResponseDTO, error) {
	f, err := resolveAnalyticsFilter(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}

	totalDelayed, err := s.repo.CountDelayed(ctx, f)
	if err != nil {
		return nil, s.queryFailed("summary delayed count", err)
	}
	totalAll, err := s.repo.CountCompletedReported(ctx, f)
	if err != nil {
		return nil, s.queryFailed("summary baseline count", err)
	}
	exceeded, err := s.repo.CountDelayedExceeded(ctx, f)
	if err != nil {
		return nil, s.queryFailed("summary exceeded count", err)
	}

	timed, err := s.repo.DelayedOrdersWithTimes(ctx, f, maxInMemoryRows)
	if err != nil {
		return nil, s.queryFailed("summary durations", err)
	}
	var totalHours float64
	var counted int64
	for _, o := range timed {
		if hours, ok := o.CompletionHours(); ok {
			totalHours += hours
			counted++
		}
	}
	var avgHours float64
	if counted > 0 {
		avgHours = totalHours / float64(counted)
	}

	reasons, err := s.repo.TopReasons(ctx, f, topReasonsLimit)
	if err != nil {
		return nil, s.queryFailed("summary top reasons", err)
	}
	topReasons := make([]dto.ReasonItemDTO, 0, len(reasons))
	for _, rc := range reasons {
		topReasons = append(topReasons, dto.ReasonItemDTO{
			ReasonText:    rc.ReasonText,
			CategoryCode:  rc.CategoryCode.String,
			CategoryLabel: entities.CategoryDisplay(rc.CategoryCode.String),
			Count:         rc.Count,
			Percentage:    round1(percentage(rc.Count, totalDelayed)),
		})
	}

	return &dto.SummaryResponseDTO{
		Success: true,
		Summary: dto.SummaryStatsDTO{
			TotalDelayedOrders:     totalDelayed,
			TotalAllOrders:         totalAll,
			DelayPercentage:        round2(percentage(totalDelayed, totalAll)),
			Exceeded9hCount:        exceeded,
			AverageCompletionHours: round1(avgHours),
		},
		TopReasons: topReasons,
	}, nil
}

// GetCategoryBreakdown groups the delayed view by reason category; the
// percentage is relative to the total of categorized orders.
func (s *AnalyticsService) GetCategoryBreakdown(ctx context.Context, p dto.AnalyticsFilterDTO) (*dto.CategoryBreakdownResponseDTO, error) {
	f, err := resolveAnalyticsFilter(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CategoryCounts(ctx, f)
	if err != nil {
		return nil, s.queryFailed("category breakdown", err)
	}

	var total int64
	for _, cc := range counts {
		total += cc.Count
	}

	data := make([]dto.CategoryBreakdownItemDTO, 0, len(counts))
	for _, cc := range counts {
		data = append(data, dto.CategoryBreakdownItemDTO{
			CategoryCode:  cc.CategoryCode,
			CategoryLabel: entities.CategoryDisplay(cc.CategoryCode),
			Count:         cc.Count,
			Percentage:    round1(percentage(cc.Count, total)),
		})
	}

	return &dto.CategoryBreakdownResponseDTO{Success: true, Data: data, Total: total}, nil
}

// GetTrends returns per-day delay counts against the per-day completed
// order baseline, oldest day first.
func (s *AnalyticsService) GetTrends(ctx context.Context, p dto.AnalyticsFilterDTO) (*dto.TrendsResponseDTO, error) {
	f, err := resolveAnalyticsFilter(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}

	delays, err := s.repo.DailyDelayCounts(ctx, f)
	if err != nil {
		return nil, s.queryFailed("trend delays", err)
	}
	totals, err := s.repo.DailyCompletedTotals(ctx, f)
	if err != nil {
		return nil, s.queryFailed("trend totals", err)
	}

	totalsByDay := make(map[string]int64, len(totals))
	for _, t := range totals {
		totalsByDay[t.Date.Format("2006-01-02")] = t.Total
	}

	data := make([]dto.TrendPointDTO, 0, len(delays))
	for _, d := range delays {
		day := d.Date.Format("2006-01-02")
		totalDay := totalsByDay[day]
		data = append(data, dto.TrendPointDTO{
			Date:               day,
			DelayedCount:       d.DelayedCount,
			Exceeded9hCount:    d.ExceededCount,
			TotalOrdersThatDay: totalDay,
			DelayRate:          round1(percentage(d.DelayedCount, totalDay)),
		})
	}

	return &dto.TrendsResponseDTO{Success: true, Data: data}, nil
}

// GetByOrderType breaks the delayed view down by order type; percentages
// are relative to the total filtered delayed count.
func (s *AnalyticsService) GetByOrderType(ctx context.Context, p dto.AnalyticsFilterDTO) (*dto.OrderTypeResponseDTO, error) {
	f, err := resolveAnalyticsFilter(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.TypeCounts(ctx, f)
	if err != nil {
		return nil, s.queryFailed("order type breakdown", err)
	}

	var total int64
	for _, tc := range counts {
		total += tc.Count
	}

	data := make([]dto.OrderTypeItemDTO, 0, len(counts))
	for _, tc := range counts {
		data = append(data, dto.OrderTypeItemDTO{
			TypeCode:   tc.TypeCode,
			TypeLabel:  entities.OrderTypeDisplay(tc.TypeCode),
			Count:      tc.Count,
			Percentage: round1(percentage(tc.Count, total)),
		})
	}

	return &dto.OrderTypeResponseDTO{Success: true, Data: data}, nil
}

// GetByReporter breaks the delayed view down by the user who reported the
// delay, most active reporter first.
func (s *AnalyticsService) GetByReporter(ctx context.Context, p dto.AnalyticsFilterDTO) (*dto.ReporterResponseDTO, error) {
	f, err := resolveAnalyticsFilter(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.ReporterCounts(ctx, f)
	if err != nil {
		return nil, s.queryFailed("reporter breakdown", err)
	}

	data := make([]dto.ReporterItemDTO, 0, len(counts))
	for _, rc := range counts {
		reporter := entities.User{
			FirstName: rc.FirstName,
			LastName:  rc.LastName,
			Username:  rc.Username.String,
		}
		data = append(data, dto.ReporterItemDTO{
			UserID:          rc.UserID,
			DisplayName:     reporter.DisplayName(),
			DelayCount:      rc.DelayCount,
			Exceeded9hCount: rc.ExceededCount,
		})
	}

	return &dto.ReporterResponseDTO{Success: true, Data: data}, nil
}

// GetImpact estimates time, revenue and customer impact. Only the
// period/scope filters apply; the computer always reasons over the full
// delayed population.
func (s *AnalyticsService) GetImpact(ctx context.Context, p dto.AnalyticsFilterDTO) (*dto.ImpactResponseDTO, error) {
	f, err := resolveAnalyticsFilter(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}
	f = f.ScopeOnly()

	timed, err := s.repo.DelayedOrdersWithTimes(ctx, f, maxInMemoryRows)
	if err != nil {
		return nil, s.queryFailed("impact durations", err)
	}
	var totalDelayedHours float64
	for _, o := range timed {
		if hours, ok := o.CompletionHours(); ok && hours > delayThresholdHours {
			totalDelayedHours += hours - delayThresholdHours
		}
	}

	revenue, err := s.repo.RevenueAtRisk(ctx, f)
	if err != nil {
		return nil, s.queryFailed("impact revenue", err)
	}
	repeatCustomers, err := s.repo.RepeatDelayCustomers(ctx, f)
	if err != nil {
		return nil, s.queryFailed("impact repeat customers", err)
	}
	uniqueCustomers, err := s.repo.UniqueDelayCustomers(ctx, f)
	if err != nil {
		return nil, s.queryFailed("impact unique customers", err)
	}
	reasonRows, err := s.repo.ReasonImpact(ctx, f, reasonImpactLimit)
	if err != nil {
		return nil, s.queryFailed("impact reasons", err)
	}

	reasonImpact := make([]dto.ReasonImpactItemDTO, 0, len(reasonRows))
	for _, ri := range reasonRows {
		reasonImpact = append(reasonImpact, dto.ReasonImpactItemDTO{
			ReasonText:            ri.ReasonText,
			CategoryCode:          ri.CategoryCode.String,
			CategoryLabel:         entities.CategoryDisplay(ri.CategoryCode.String),
			Count:                 ri.Count,
			AffectedCustomerCount: ri.AffectedCustomers,
		})
	}

	return &dto.ImpactResponseDTO{
		Success: true,
		Impact: dto.ImpactStatsDTO{
			TotalDelayedHours:            round1(totalDelayedHours),
			EstimatedRevenueImpact:       fmt.Sprintf("%.2f", revenue),
			CustomersWithRepeatDelays:    repeatCustomers,
			TotalUniqueCustomersAffected: uniqueCustomers,
		},
		ReasonImpact: reasonImpact,
	}, nil
}

// GetAllReasons lists every distinct reason present in the filtered view.
// An empty view yields an explanatory message, not an error.
func (s *AnalyticsService) GetAllReasons(ctx context.Context, p dto.AnalyticsFilterDTO) (*dto.DelayReasonsResponseDTO, error) {
	f, err := resolveAnalyticsFilter(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}

	totalDelayed, err := s.repo.CountDelayed(ctx, f)
	if err != nil {
		return nil, s.queryFailed("reasons total count", err)
	}
	if totalDelayed == 0 {
		return &dto.DelayReasonsResponseDTO{
			Success: true,
			Data:    []dto.DelayReasonItemDTO{},
			Total:   0,
			Message: "No delay reasons submitted in the selected period.",
		}, nil
	}

	reasons, err := s.repo.AllReasons(ctx, f)
	if err != nil {
		return nil, s.queryFailed("reasons listing", err)
	}

	data := make([]dto.DelayReasonItemDTO, 0, len(reasons))
	for _, rc := range reasons {
		data = append(data, dto.DelayReasonItemDTO{
			ID:            rc.ReasonID,
			ReasonText:    rc.ReasonText,
			CategoryCode:  rc.CategoryCode.String,
			CategoryLabel: entities.CategoryDisplay(rc.CategoryCode.String),
			Count:         rc.Count,
			Percentage:    round1(percentage(rc.Count, totalDelayed)),
		})
	}

	return &dto.DelayReasonsResponseDTO{
		Success: true,
		Data:    data,
		Total:   totalDelayed,
		Message: fmt.Sprintf("Showing %d unique delay reasons from %d submitted.", len(data), totalDelayed),
	}, nil
}

// GetDashboard assembles the dashboard shell: filter context echo, headline
// delay rate and the dropdown catalogs. Sub-queries run concurrently against
// the same logical snapshot and the result is cached per filter key.
func (s *AnalyticsService) GetDashboard(ctx context.Context, p dto.AnalyticsFilterDTO) (*dto.DashboardResponseDTO, error) {
	f, err := resolveAnalyticsFilter(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}

	cacheKey := "analytics:dashboard:" + f.CacheKey()
	if cached, err := s.cacheRepo.Get(ctx, cacheKey); err == nil {
		var resp dto.DashboardResponseDTO
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	var (
		wg           sync.WaitGroup
		totalDelayed int64
		totalBase    int64
		categories   []string
		reporters    []types.Reporter

		errs []error
		mu   sync.Mutex
	)

	addTask := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	addTask(func() (err error) { totalDelayed, err = s.repo.CountDelayed(ctx, f); return })
	addTask(func() (err error) { totalBase, err = s.repo.CountCompletedReported(ctx, f); return })
	addTask(func() (err error) { categories, err = s.repo.ActiveCategories(ctx); return })
	addTask(func() (err error) { reporters, err = s.userRepo.DelayReporters(ctx); return })

	wg.Wait()

	if len(errs) > 0 {
		s.logger.Error("dashboard fetching error", zap.Error(errs[0]))
		return nil, apperrors.NewInternalError("failed to load the analytics dashboard")
	}

	categoryChoices := make([]dto.CategoryChoiceDTO, 0, len(categories))
	for _, code := range categories {
		categoryChoices = append(categoryChoices, dto.CategoryChoiceDTO{
			Code:  code,
			Label: entities.CategoryDisplay(code),
		})
	}

	reporterChoices := make([]dto.ReporterChoiceDTO, 0, len(reporters))
	for _, rep := range reporters {
		u := entities.User{FirstName: rep.FirstName, LastName: rep.LastName, Username: rep.Username.String}
		reporterChoices = append(reporterChoices, dto.ReporterChoiceDTO{
			ID:          rep.ID,
			DisplayName: u.DisplayName(),
		})
	}

	typeChoices := make([]dto.OrderTypeChoiceDTO, 0)
	for _, choice := range entities.OrderTypeChoices() {
		typeChoices = append(typeChoices, dto.OrderTypeChoiceDTO{Code: choice[0], Label: choice[1]})
	}

	resp := &dto.DashboardResponseDTO{
		Success: true,
		Dashboard: dto.DashboardDTO{
			TimePeriod:         f.Period,
			SelectedCategory:   p.Category,
			SelectedUser:       p.User,
			SelectedOrderType:  p.OrderType,
			TotalDelayedOrders: totalDelayed,
			DelayRate:          round2(percentage(totalDelayed, totalBase)),
			Categories:         categoryChoices,
			Users:              reporterChoices,
			OrderTypes:         typeChoices,
		},
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cacheRepo.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}

	return resp, nil
}

func (s *AnalyticsService) queryFailed(what string, err error) error {
	s.logger.Error("analytics query failed", zap.String("query", what), zap.Error(err))
	return apperrors.NewInternalError("failed to compute delay analytics")
}
