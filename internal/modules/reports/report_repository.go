package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"xpom-logistics/internal/models"
)

// ExportRow is one line of the staff CSV export: the order plus its
// driver's name resolved in the same query.
type ExportRow struct {
	Order      *models.Order
	DriverName *string
}

// RepositoryInterface defines the read-only aggregation contract.
type RepositoryInterface interface {
	Summary(ctx context.Context, filter models.ReportFilter) (*models.ReportSummary, error)
	DailyBuckets(ctx context.Context, filter models.ReportFilter) ([]models.PeriodBucket, error)
	MonthlyBuckets(ctx context.Context, filter models.ReportFilter) ([]models.PeriodBucket, error)
	StatusDistribution(ctx context.Context, filter models.ReportFilter) ([]models.StatusCount, error)
	Dashboard(ctx context.Context, recentLimit int) (*models.DashboardStats, error)
	ListForExport(ctx context.Context, filter models.ReportFilter) ([]ExportRow, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// rangeClause renders the shared WHERE for the report window. Args start
// at $1: from, to, then the optional type and status filters.
func rangeClause(filter models.ReportFilter) (string, []interface{}) {
	clause := `o.created_at >= $1 AND o.created_at <= $2`
	args := []interface{}{filter.From, filter.To}
	if filter.OrderType != nil {
		clause += fmt.Sprintf(` AND o.order_type = $%d`, len(args)+1)
		args = append(args, *filter.OrderType)
	}
	if filter.Status != nil {
		clause += fmt.Sprintf(` AND o.status = $%d`, len(args)+1)
		args = append(args, *filter.Status)
	}
	return clause, args
}

func (r *Repository) Summary(ctx context.Context, filter models.ReportFilter) (*models.ReportSummary, error) {
	clause, args := rangeClause(filter)

	summary := &models.ReportSummary{PeriodFrom: filter.From, PeriodTo: filter.To}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COALESCE(SUM(o.price), 0),
			COUNT(*) FILTER (WHERE o.order_type = 'local'),
			COUNT(*) FILTER (WHERE o.order_type = 'intercity')
		FROM orders o
		WHERE %s`, clause)

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&summary.TotalOrders, &summary.TotalRevenue,
		&summary.LocalOrders, &summary.IntercityOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("repository.ReportSummary: %w", err)
	}

	driverQuery := fmt.Sprintf(`
		SELECT d.id, d.full_name, COUNT(o.id), COALESCE(SUM(o.price), 0)
		FROM drivers d
		JOIN orders o ON o.driver_id = d.id
		WHERE %s
		GROUP BY d.id, d.full_name
		ORDER BY COUNT(o.id) DESC`, clause)

	rows, err := r.db.Query(ctx, driverQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ReportSummary drivers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stat models.DriverStat
		if err := rows.Scan(&stat.DriverID, &stat.DriverName, &stat.OrderCount, &stat.TotalCost); err != nil {
			return nil, fmt.Errorf("repository.ReportSummary drivers scan: %w", err)
		}
		summary.DriverStats = append(summary.DriverStats, stat)
	}
	return summary, rows.Err()
}

func (r *Repository) DailyBuckets(ctx context.Context, filter models.ReportFilter) ([]models.PeriodBucket, error) {
	return r.buckets(ctx, filter, `to_char(date_trunc('day', o.created_at), 'DD.MM.YYYY')`, `date_trunc('day', o.created_at)`)
}

func (r *Repository) MonthlyBuckets(ctx context.Context, filter models.ReportFilter) ([]models.PeriodBucket, error) {
	return r.buckets(ctx, filter, `to_char(date_trunc('month', o.created_at), 'MM.YYYY')`, `date_trunc('month', o.created_at)`)
}

func (r *Repository) buckets(ctx context.Context, filter models.ReportFilter, labelExpr, truncExpr string) ([]models.PeriodBucket, error) {
	clause, args := rangeClause(filter)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*), COALESCE(SUM(o.price), 0)
		FROM orders o
		WHERE %s
		GROUP BY %s
		ORDER BY %s`, labelExpr, clause, truncExpr, truncExpr)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ReportBuckets: %w", err)
	}
	defer rows.Close()

	var buckets []models.PeriodBucket
	for rows.Next() {
		var b models.PeriodBucket
		if err := rows.Scan(&b.Period, &b.Orders, &b.Revenue); err != nil {
			return nil, fmt.Errorf("repository.ReportBuckets scan: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (r *Repository) StatusDistribution(ctx context.Context, filter models.ReportFilter) ([]models.StatusCount, error) {
	clause, args := rangeClause(filter)

	query := fmt.Sprintf(`
		SELECT o.status, COUNT(*)
		FROM orders o
		WHERE %s
		GROUP BY o.status`, clause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.StatusDistribution: %w", err)
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("repository.StatusDistribution scan: %w", err)
		}
		sc.Label = sc.Status.Label()
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func (r *Repository) Dashboard(ctx context.Context, recentLimit int) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'new'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'delivered')
		FROM orders`

	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalOrders, &stats.NewOrders,
		&stats.InProgressOrders, &stats.DeliveredOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("repository.Dashboard: %w", err)
	}

	recentQuery := `
		SELECT id, tracking_number, customer_name, customer_phone, order_type,
		       pickup_address, delivery_address, status, price, driver_id, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, recentQuery, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("repository.Dashboard recent: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.TrackingNumber, &o.CustomerName, &o.CustomerPhone,
			&o.OrderType, &o.PickupAddress, &o.DeliveryAddress, &o.Status,
			&o.Price, &o.DriverID, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.Dashboard recent scan: %w", err)
		}
		stats.RecentOrders = append(stats.RecentOrders, &o)
	}
	return stats, rows.Err()
}

func (r *Repository) ListForExport(ctx context.Context, filter models.ReportFilter) ([]ExportRow, error) {
	clause, args := rangeClause(filter)

	query := fmt.Sprintf(`
		SELECT o.id, o.tracking_number, o.customer_name, o.customer_phone,
		       o.order_type, o.pickup_address, o.delivery_address, o.status,
		       o.price, o.driver_id, o.created_at, d.full_name
		FROM orders o
		LEFT JOIN drivers d ON d.id = o.driver_id
		WHERE %s
		ORDER BY o.created_at`, clause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ListForExport: %w", err)
	}
	defer rows.Close()

	var out []ExportRow
	for rows.Next() {
		var o models.Order
		var driverName *string
		err := rows.Scan(&o.ID, &o.TrackingNumber, &o.CustomerName, &o.CustomerPhone,
			&o.OrderType, &o.PickupAddress, &o.DeliveryAddress, &o.Status,
			&o.Price, &o.DriverID, &o.CreatedAt, &driverName)
		if err != nil {
			return nil, fmt.Errorf("repository.ListForExport scan: %w", err)
		}
		out = append(out, ExportRow{Order: &o, DriverName: driverName})
	}
	return out, rows.Err()
}
