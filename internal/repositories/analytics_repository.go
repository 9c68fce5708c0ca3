package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"delay-tracker/internal/entities"
	"delay-tracker/pkg/types"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// delayedOrders builds the shared base for the delayed-orders view: orders
// with both a delay reason and a delay report timestamp, narrowed by the
// additive filter conditions. Every metric query starts from this builder so
// that all computers read the same filtered population.
func delayedOrders(f types.AnalyticsFilter) sq.SelectBuilder {
	b := psql.Select().
		From("orders o").
		LeftJoin("delay_reasons dr ON o.delay_reason_id = dr.id").
		LeftJoin("delay_reason_categories dc ON dr.category_id = dc.id").
		Where("o.delay_reason_id IS NOT NULL").
		Where("o.delay_reported_at IS NOT NULL")

	if f.BranchID != nil {
		b = b.Where(sq.Eq{"o.branch_id": *f.BranchID})
	}
	if f.StartDate != nil {
		b = b.Where(sq.GtOrEq{"o.delay_reported_at": *f.StartDate})
	}
	if f.Category != "" {
		b = b.Where(sq.Eq{"dc.code": f.Category})
	}
	if f.ReportedBy != nil {
		b = b.Where(sq.Eq{"o.delay_reported_by": *f.ReportedBy})
	}
	if f.OrderType != "" {
		b = b.Where(sq.Eq{"o.type": f.OrderType})
	}
	return b
}

type AnalyticsRepositoryInterface interface {
	CountDelayed(ctx context.Context, f types.AnalyticsFilter) (int64, error)
	CountDelayedExceeded(ctx context.Context, f types.AnalyticsFilter) (int64, error)
	CountCompletedReported(ctx context.Context, f types.AnalyticsFilter) (int64, error)
	DelayedOrdersWithTimes(ctx context.Context, f types.AnalyticsFilter, limit uint64) ([]entities.Order, error)
	RevenueAtRisk(ctx context.Context, f types.AnalyticsFilter) (float64, error)
	TopReasons(ctx context.Context, f types.AnalyticsFilter, limit uint64) ([]types.ReasonCount, error)
	AllReasons(ctx context.Context, f types.AnalyticsFilter) ([]types.ReasonCount, error)
	CategoryCounts(ctx context.Context, f types.AnalyticsFilter) ([]types.CategoryCount, error)
	DailyDelayCounts(ctx context.Context, f types.AnalyticsFilter) ([]types.DailyDelayPoint, error)
	DailyCompletedTotals(ctx context.Context, f types.AnalyticsFilter) ([]types.DailyTotal, error)
	TypeCounts(ctx context.Context, f types.AnalyticsFilter) ([]types.TypeCount, error)
	ReporterCounts(ctx context.Context, f types.AnalyticsFilter) ([]types.ReporterCount, error)
	RepeatDelayCustomers(ctx context.Context, f types.AnalyticsFilter) (int64, error)
	UniqueDelayCustomers(ctx context.Context, f types.AnalyticsFilter) (int64, error)
	ReasonImpact(ctx context.Context, f types.AnalyticsFilter, limit uint64) ([]types.ReasonImpactRow, error)
	ActiveCategories(ctx context.Context) ([]string, error)
}

type AnalyticsRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAnalyticsRepository(storage *pgxpool.Pool, logger *zap.Logger) AnalyticsRepositoryInterface {
	return &AnalyticsRepository{storage: storage, logger: logger}
}

func (r *AnalyticsRepository) countOne(ctx context.Context, b sq.SelectBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var count int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("execute count query: %w", err)
	}
	return count, nil
}

// CountDelayed counts distinct orders in the delayed view. DISTINCT guards
// against double counting across the reason/category joins.
func (r *AnalyticsRepository) CountDelayed(ctx context.Context, f types.AnalyticsFilter) (int64, error) {
	return r.countOne(ctx, delayedOrders(f).Columns("COUNT(DISTINCT o.id)"))
}

func (r *AnalyticsRepository) CountDelayedExceeded(ctx context.Context, f types.AnalyticsFilter) (int64, error) {
	return r.countOne(ctx, delayedOrders(f).
		Where(sq.Eq{"o.exceeded_9_hours": true}).
		Columns("COUNT(DISTINCT o.id)"))
}

// CountCompletedReported is the summary baseline: completed orders with a
// delay report timestamp in the same scope/period.
func (r *AnalyticsRepository) CountCompletedReported(ctx context.Context, f types.AnalyticsFilter) (int64, error) {
	b := psql.Select("COUNT(DISTINCT o.id)").
		From("orders o").
		Where(sq.Eq{"o.status": "completed"}).
		Where("o.delay_reported_at IS NOT NULL")
	if f.BranchID != nil {
		b = b.Where(sq.Eq{"o.branch_id": *f.BranchID})
	}
	if f.StartDate != nil {
		b = b.Where(sq.GtOrEq{"o.delay_reported_at": *f.StartDate})
	}
	return r.countOne(ctx, b)
}

// DelayedOrdersWithTimes fetches delayed orders that have both start and
// completion timestamps, for in-memory duration math. Callers pass a limit
// to bound the iteration (results past the cap are approximated away).
func (r *AnalyticsRepository) DelayedOrdersWithTimes(ctx context.Context, f types.AnalyticsFilter, limit uint64) ([]entities.Order, error) {
	b := delayedOrders(f).
		Where("o.started_at IS NOT NULL").
		Where("o.completed_at IS NOT NULL").
		Columns("o.id", "o.started_at", "o.completed_at", "o.customer_id", "o.exceeded_9_hours").
		OrderBy("o.id")
	if limit > 0 {
		b = b.Limit(limit)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delayed orders query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute delayed orders query: %w", err)
	}
	defer rows.Close()

	var orders []entities.Order
	for rows.Next() {
		var o entities.Order
		if err := rows.Scan(&o.ID, &o.StartedAt, &o.CompletedAt, &o.CustomerID, &o.Exceeded9Hours); err != nil {
			return nil, fmt.Errorf("scan delayed order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// RevenueAtRisk sums the invoice totals linked to delayed orders that have
// both start and completion timestamps in scope.
func (r *AnalyticsRepository) RevenueAtRisk(ctx context.Context, f types.AnalyticsFilter) (float64, error) {
	b := delayedOrders(f).
		Where("o.started_at IS NOT NULL").
		Where("o.completed_at IS NOT NULL").
		LeftJoin("invoices i ON i.order_id = o.id").
		Columns("COALESCE(SUM(i.total_amount), 0)")

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build revenue query: %w", err)
	}
	var total float64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("execute revenue query: %w", err)
	}
	return total, nil
}

func (r *AnalyticsRepository) scanReasons(ctx context.Context, b sq.SelectBuilder) ([]types.ReasonCount, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reasons query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute reasons query: %w", err)
	}
	defer rows.Close()

	var reasons []types.ReasonCount
	for rows.Next() {
		var rc types.ReasonCount
		if err := rows.Scan(&rc.ReasonID, &rc.ReasonText, &rc.CategoryCode, &rc.Count); err != nil {
			return nil, fmt.Errorf("scan reason row: %w", err)
		}
		reasons = append(reasons, rc)
	}
	return reasons, rows.Err()
}

func reasonCounts(f types.AnalyticsFilter) sq.SelectBuilder {
	return delayedOrders(f).
		Columns("dr.id", "dr.reason_text", "dc.code", "COUNT(DISTINCT o.id) AS cnt").
		GroupBy("dr.id", "dr.reason_text", "dc.code").
		OrderBy("cnt DESC")
}

func (r *AnalyticsRepository) TopReasons(ctx context.Context, f types.AnalyticsFilter, limit uint64) ([]types.ReasonCount, error) {
	return r.scanReasons(ctx, reasonCounts(f).Limit(limit))
}

func (r *AnalyticsRepository) AllReasons(ctx context.Context, f types.AnalyticsFilter) ([]types.ReasonCount, error) {
	return r.scanReasons(ctx, reasonCounts(f))
}

// CategoryCounts groups the delayed view by reason category. Orders whose
// reason has no category are excluded (they show up in totals but not here).
func (r *AnalyticsRepository) CategoryCounts(ctx context.Context, f types.AnalyticsFilter) ([]types.CategoryCount, error) {
	b := delayedOrders(f).
		Where("dc.code IS NOT NULL").
		Columns("dc.code", "COUNT(DISTINCT o.id) AS cnt").
		GroupBy("dc.code").
		OrderBy("cnt DESC")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category counts query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute category counts query: %w", err)
	}
	defer rows.Close()

	var counts []types.CategoryCount
	for rows.Next() {
		var cc types.CategoryCount
		if err := rows.Scan(&cc.CategoryCode, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

// DailyDelayCounts groups the delayed view by the calendar day of the delay
// report timestamp, oldest first.
func (r *AnalyticsRepository) DailyDelayCounts(ctx context.Context, f types.AnalyticsFilter) ([]types.DailyDelayPoint, error) {
	b := delayedOrders(f).
		Columns(
			"date_trunc('day', o.delay_reported_at) AS day",
			"COUNT(DISTINCT o.id) AS delayed",
			"COUNT(DISTINCT o.id) FILTER (WHERE o.exceeded_9_hours) AS exceeded",
		).
		GroupBy("day").
		OrderBy("day")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build daily delays query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute daily delays query: %w", err)
	}
	defer rows.Close()

	var points []types.DailyDelayPoint
	for rows.Next() {
		var p types.DailyDelayPoint
		if err := rows.Scan(&p.Date, &p.DelayedCount, &p.ExceededCount); err != nil {
			return nil, fmt.Errorf("scan daily delay point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// DailyCompletedTotals is the trend baseline: completed orders per calendar
// day of completion, scope-filtered only.
func (r *AnalyticsRepository) DailyCompletedTotals(ctx context.Context, f types.AnalyticsFilter) ([]types.DailyTotal, error) {
	b := psql.Select(
		"date_trunc('day', o.completed_at) AS day",
		"COUNT(DISTINCT o.id) AS total",
	).
		From("orders o").
		Where(sq.Eq{"o.status": "completed"}).
		Where("o.completed_at IS NOT NULL").
		GroupBy("day").
		OrderBy("day")
	if f.BranchID != nil {
		b = b.Where(sq.Eq{"o.branch_id": *f.BranchID})
	}
	if f.StartDate != nil {
		b = b.Where(sq.GtOrEq{"o.completed_at": *f.StartDate})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build daily totals query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute daily totals query: %w", err)
	}
	defer rows.Close()

	var totals []types.DailyTotal
	for rows.Next() {
		var t types.DailyTotal
		if err := rows.Scan(&t.Date, &t.Total); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *AnalyticsRepository) TypeCounts(ctx context.Context, f types.AnalyticsFilter) ([]types.TypeCount, error) {
	b := delayedOrders(f).
		Columns("o.type", "COUNT(DISTINCT o.id) AS cnt").
		GroupBy("o.type").
		OrderBy("cnt DESC")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build type counts query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute type counts query: %w", err)
	}
	defer rows.Close()

	var counts []types.TypeCount
	for rows.Next() {
		var tc types.TypeCount
		if err := rows.Scan(&tc.TypeCode, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

func (r *AnalyticsRepository) ReporterCounts(ctx context.Context, f types.AnalyticsFilter) ([]types.ReporterCount, error) {
	b := delayedOrders(f).
		Where("o.delay_reported_by IS NOT NULL").
		LeftJoin("users u ON o.delay_reported_by = u.id").
		Columns(
			"o.delay_reported_by",
			"u.first_name", "u.last_name", "u.username",
			"COUNT(DISTINCT o.id) AS cnt",
			"COUNT(DISTINCT o.id) FILTER (WHERE o.exceeded_9_hours) AS exceeded",
		).
		GroupBy("o.delay_reported_by", "u.first_name", "u.last_name", "u.username").
		OrderBy("cnt DESC")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reporter counts query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute reporter counts query: %w", err)
	}
	defer rows.Close()

	var counts []types.ReporterCount
	for rows.Next() {
		var rc types.ReporterCount
		if err := rows.Scan(&rc.UserID, &rc.FirstName, &rc.LastName, &rc.Username, &rc.DelayCount, &rc.ExceededCount); err != nil {
			return nil, fmt.Errorf("scan reporter count: %w", err)
		}
		counts = append(counts, rc)
	}
	return counts, rows.Err()
}

// RepeatDelayCustomers counts distinct customers with two or more delayed
// orders in scope.
func (r *AnalyticsRepository) RepeatDelayCustomers(ctx context.Context, f types.AnalyticsFilter) (int64, error) {
	inner := delayedOrders(f).
		Where("o.customer_id IS NOT NULL").
		Columns("o.customer_id").
		GroupBy("o.customer_id").
		Having("COUNT(DISTINCT o.id) >= 2")

	innerSQL, args, err := inner.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build repeat customers query: %w", err)
	}

	sqlRaw := fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS repeat_customers", innerSQL)
	var count int64
	if err := r.storage.QueryRow(ctx, sqlRaw, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("execute repeat customers query: %w", err)
	}
	return count, nil
}

func (r *AnalyticsRepository) UniqueDelayCustomers(ctx context.Context, f types.AnalyticsFilter) (int64, error) {
	return r.countOne(ctx, delayedOrders(f).Columns("COUNT(DISTINCT o.customer_id)"))
}

func (r *AnalyticsRepository) ReasonImpact(ctx context.Context, f types.AnalyticsFilter, limit uint64) ([]types.ReasonImpactRow, error) {
	b := delayedOrders(f).
		Columns(
			"dr.reason_text", "dc.code",
			"COUNT(DISTINCT o.id) AS cnt",
			"COUNT(DISTINCT o.customer_id) AS customers",
		).
		GroupBy("dr.reason_text", "dc.code").
		OrderBy("cnt DESC").
		Limit(limit)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reason impact query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute reason impact query: %w", err)
	}
	defer rows.Close()

	var impact []types.ReasonImpactRow
	for rows.Next() {
		var ri types.ReasonImpactRow
		if err := rows.Scan(&ri.ReasonText, &ri.CategoryCode, &ri.Count, &ri.AffectedCustomers); err != nil {
			return nil, fmt.Errorf("scan reason impact row: %w", err)
		}
		impact = append(impact, ri)
	}
	return impact, rows.Err()
}

func (r *AnalyticsRepository) ActiveCategories(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("code").
		From("delay_reason_categories").
		Where(sq.Eq{"is_active": true}).
		OrderBy("code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute categories query: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan category code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
