package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartDateForPeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		period   string
		wantDays int
	}{
		{Period7Days, 7},
		{Period30Days, 30},
		{Period90Days, 90},
		{Period6Months, 180},
		{Period1Year, 365},
	}

	for _, tc := range testCases {
		t.Run(tc.period, func(t *testing.T) {
			start := StartDateForPeriod(tc.period, now)
			require.NotNil(t, start)
			assert.Equal(t, now.AddDate(0, 0, -tc.wantDays), *start)
		})
	}
}

func TestStartDateForPeriod_All(t *testing.T) {
	assert.Nil(t, StartDateForPeriod(PeriodAll, time.Now()))
}

func TestStartDateForPeriod_UnknownFallsBackTo30Days(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	for _, period := range []string{"", "yesterday", "2weeks", "ALL"} {
		start := StartDateForPeriod(period, now)
		require.NotNil(t, start, "period %q", period)
		assert.Equal(t, now.AddDate(0, 0, -30), *start, "period %q", period)
	}
}

func TestAnalyticsFilter_ScopeOnly(t *testing.T) {
	start := time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC)
	branchID := int64(3)
	reporterID := int64(7)

	f := AnalyticsFilter{
		Period:     Period30Days,
		StartDate:  &start,
		BranchID:   &branchID,
		Category:   "mechanical",
		ReportedBy: &reporterID,
		OrderType:  "service",
	}

	scoped := f.ScopeOnly()

	assert.Equal(t, f.Period, scoped.Period)
	assert.Equal(t, f.StartDate, scoped.StartDate)
	assert.Equal(t, f.BranchID, scoped.BranchID)
	assert.Empty(t, scoped.Category)
	assert.Nil(t, scoped.ReportedBy)
	assert.Empty(t, scoped.OrderType)
}

func TestAnalyticsFilter_CacheKey(t *testing.T) {
	branchID := int64(3)
	reporterID := int64(7)

	f := AnalyticsFilter{
		Period:     Period90Days,
		BranchID:   &branchID,
		Category:   "parts",
		ReportedBy: &reporterID,
		OrderType:  "sales",
	}
	assert.Equal(t, "90days:3:parts:7:sales", f.CacheKey())

	unscoped := AnalyticsFilter{Period: PeriodAll}
	assert.Equal(t, "all:all:::", unscoped.CacheKey())
}
