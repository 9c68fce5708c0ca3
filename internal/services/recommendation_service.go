package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"delay-tracker/internal/dto"
	"delay-tracker/internal/entities"
	"delay-tracker/internal/repositories"
	apperrors "delay-tracker/pkg/errors"
	"delay-tracker/pkg/types"
)

const (
	maxRecommendations = 8
	trendWindowDays    = 7

	// dominantCategoryShare is the fraction of total delays above which a
	// single category triggers a process-improvement recommendation.
	dominantCategoryShare = 0.3

	// trendDailyAverageLimit is the mean daily delay count above which the
	// recent trend counts as escalating.
	trendDailyAverageLimit = 2.0
)

var priorityRank = map[string]int{"high": 0, "medium": 1, "low": 2}

type RecommendationService struct {
	repo     repositories.AnalyticsRepositoryInterface
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewRecommendationService(
	repo repositories.AnalyticsRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{repo: repo, userRepo: userRepo, logger: logger}
}

// GetRecommendations evaluates the fixed rule set against the current
// delayed-orders view. Only period/scope filters apply here: the rules
// always reason over the full delayed population for the window.
func (s *RecommendationService) GetRecommendations(ctx context.Context, p dto.AnalyticsFilterDTO) (*dto.RecommendationsResponseDTO, error) {
	f, err := resolveAnalyticsFilter(ctx, s.userRepo, p)
	if err != nil {
		return nil, err
	}
	f = f.ScopeOnly()

	total, err := s.repo.CountDelayed(ctx, f)
	if err != nil {
		return nil, s.queryFailed("recommendations total", err)
	}
	categoryCounts, err := s.repo.CategoryCounts(ctx, f)
	if err != nil {
		return nil, s.queryFailed("recommendations categories", err)
	}
	exceeded, err := s.repo.CountDelayedExceeded(ctx, f)
	if err != nil {
		return nil, s.queryFailed("recommendations exceeded", err)
	}
	topReasons, err := s.repo.TopReasons(ctx, f, 3)
	if err != nil {
		return nil, s.queryFailed("recommendations reasons", err)
	}
	daily, err := s.repo.DailyDelayCounts(ctx, f)
	if err != nil {
		return nil, s.queryFailed("recommendations trend", err)
	}

	return &dto.RecommendationsResponseDTO{
		Success:         true,
		Recommendations: buildRecommendations(total, exceeded, categoryCounts, topReasons, daily),
	}, nil
}

// buildRecommendations runs the four rules in their fixed evaluation order,
// then stable-sorts by priority and truncates to the cap.
func buildRecommendations(
	total, exceeded int64,
	categoryCounts []types.CategoryCount,
	topReasons []types.ReasonCount,
	daily []types.DailyDelayPoint,
) []dto.RecommendationDTO {
	recommendations := make([]dto.RecommendationDTO, 0)

	// Rule 1: a single category dominating the delays.
	if len(categoryCounts) > 0 && total > 0 {
		top := categoryCounts[0]
		if float64(top.Count) > float64(total)*dominantCategoryShare {
			label := entities.CategoryDisplay(top.CategoryCode)
			recommendations = append(recommendations, dto.RecommendationDTO{
				Priority: "high",
				Category: "Process Improvement",
				Title:    fmt.Sprintf("Address %s Issues", label),
				Description: fmt.Sprintf(
					"%s accounts for %.1f%% of delays. Consider process improvements or resource allocation.",
					label, percentage(top.Count, total),
				),
				Impact: "high",
			})
		}
	}

	// Rule 2: orders breaching the 9-hour threshold.
	if exceeded > 0 && total > 0 {
		pct := percentage(exceeded, total)
		priority := "medium"
		if pct > 20 {
			priority = "high"
		}
		recommendations = append(recommendations, dto.RecommendationDTO{
			Priority: priority,
			Category: "Urgent",
			Title:    fmt.Sprintf("%.1f%% of Delays Exceed 9 Hours", pct),
			Description: fmt.Sprintf(
				"%d orders exceeded 9 hours. Implement preventive measures to reduce critical delays.",
				exceeded,
			),
			Impact: "critical",
		})
	}

	// Rule 3: the top specific reasons, each worth a root cause analysis.
	for _, reason := range topReasons {
		recommendations = append(recommendations, dto.RecommendationDTO{
			Priority: "medium",
			Category: "Root Cause Analysis",
			Title:    fmt.Sprintf("Investigate: %s", reason.ReasonText),
			Description: fmt.Sprintf(
				"This reason accounts for %d delay incidents. Consider root cause analysis and preventive actions.",
				reason.Count,
			),
			Impact: "medium",
		})
	}

	// Rule 4: escalating recent trend over the last days with activity.
	recent := daily
	if len(recent) > trendWindowDays {
		recent = recent[len(recent)-trendWindowDays:]
	}
	if len(recent) > 0 {
		var sum int64
		for _, d := range recent {
			sum += d.DelayedCount
		}
		avg := float64(sum) / float64(len(recent))
		if avg > trendDailyAverageLimit {
			recommendations = append(recommendations, dto.RecommendationDTO{
				Priority: "high",
				Category: "Trend",
				Title:    "Increasing Delay Incidents",
				Description: fmt.Sprintf(
					"Recent average of %.1f delays per day. Escalating trend detected. Immediate action recommended.",
					avg,
				),
				Impact: "high",
			})
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		ri, ok := priorityRank[recommendations[i].Priority]
		if !ok {
			ri = len(priorityRank)
		}
		rj, ok := priorityRank[recommendations[j].Priority]
		if !ok {
			rj = len(priorityRank)
		}
		return ri < rj
	})

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

func (s *RecommendationService) queryFailed(what string, err error) error {
	s.logger.Error("recommendation query failed", zap.String("query", what), zap.Error(err))
	return apperrors.NewInternalError("failed to compute recommendations")
}
