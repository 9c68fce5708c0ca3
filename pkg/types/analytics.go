package types

import (
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
)

// Known period values. Anything else silently falls back to the 30-day
// window; that is the long-standing default-on-invalid-input policy and
// callers rely on it.
const (
	Period7Days   = "7days"
	Period30Days  = "30days"
	Period90Days  = "90days"
	Period6Months = "6months"
	Period1Year   = "1year"
	PeriodAll     = "all"

	DefaultPeriod = Period30Days
)

var periodDays = map[string]int{
	Period7Days:   7,
	Period30Days:  30,
	Period90Days:  90,
	Period6Months: 180,
	Period1Year:   365,
}

// StartDateForPeriod converts a relative period into an absolute start
// timestamp. "all" yields nil (no lower bound); unknown values behave
// exactly like "30days".
func StartDateForPeriod(period string, now time.Time) *time.Time {
	if period == PeriodAll {
		return nil
	}
	days, ok := periodDays[period]
	if !ok {
		days = periodDays[Period30Days]
	}
	start := now.AddDate(0, 0, -days)
	return &start
}

// AnalyticsFilter is the canonical filter specification shared by every
// metric computer. It is resolved once at the request boundary and then
// passed around by value; nothing mutates it afterwards.
type AnalyticsFilter struct {
	Period     string
	StartDate  *time.Time
	BranchID   *int64 // nil = caller is unscoped, sees all branches
	Category   string // delay reason category code, "" = all
	ReportedBy *int64 // delay reporter id; 0 matches nothing (unparseable input)
	OrderType  string // "" = all
}

// ScopeOnly strips the category/user/type dimensions, leaving period and
// branch scope. Impact analysis and the recommendation engine always reason
// over the full delayed population for the period/scope.
func (f AnalyticsFilter) ScopeOnly() AnalyticsFilter {
	return AnalyticsFilter{
		Period:    f.Period,
		StartDate: f.StartDate,
		BranchID:  f.BranchID,
	}
}

// CacheKey uniquely identifies the filter combination for response caching.
func (f AnalyticsFilter) CacheKey() string {
	branch := "all"
	if f.BranchID != nil {
		branch = fmt.Sprintf("%d", *f.BranchID)
	}
	user := ""
	if f.ReportedBy != nil {
		user = fmt.Sprintf("%d", *f.ReportedBy)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", f.Period, branch, f.Category, user, f.OrderType)
}

// Raw aggregation rows produced by the analytics repository. Percentages,
// labels and ordering guarantees are applied in the service layer.

type ReasonCount struct {
	ReasonID     int64
	ReasonText   string
	CategoryCode null.String
	Count        int64
}

type CategoryCount struct {
	CategoryCode string
	Count        int64
}

type DailyDelayPoint struct {
	Date          time.Time
	DelayedCount  int64
	ExceededCount int64
}

type DailyTotal struct {
	Date  time.Time
	Total int64
}

type TypeCount struct {
	TypeCode string
	Count    int64
}

type ReporterCount struct {
	UserID        int64
	FirstName     null.String
	LastName      null.String
	Username      null.String
	DelayCount    int64
	ExceededCount int64
}

type ReasonImpactRow struct {
	ReasonText        string
	CategoryCode      null.String
	Count             int64
	AffectedCustomers int64
}

// Reporter is a filter-dropdown entry for the dashboard.
type Reporter struct {
	ID        int64       `json:"id"`
	FirstName null.String `json:"first_name"`
	LastName  null.String `json:"last_name"`
	Username  null.String `json:"username"`
}
