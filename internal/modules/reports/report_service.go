package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"xpom-logistics/internal/models"
	"xpom-logistics/pkg/utils"
)

// ServiceInterface defines the contract for the reporting service.
type ServiceInterface interface {
	GetSummary(ctx context.Context, filter models.ReportFilter) (*models.ReportSummary, error)
	GetDailyBuckets(ctx context.Context, filter models.ReportFilter) ([]models.PeriodBucket, error)
	GetMonthlyBuckets(ctx context.Context, filter models.ReportFilter) ([]models.PeriodBucket, error)
	GetStatusDistribution(ctx context.Context, filter models.ReportFilter) ([]models.StatusCount, error)
	GetDashboard(ctx context.Context) (*models.DashboardStats, error)
	ExportCSV(ctx context.Context, w io.Writer, filter models.ReportFilter) error
}

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

const dashboardRecentLimit = 10

// GetSummary aggregates the window. The average is total revenue over the
// total order count, orders without a price included in the denominator, same
// as the reports page always computed it.
func (s *Service) GetSummary(ctx context.Context, filter models.ReportFilter) (*models.ReportSummary, error) {
	summary, err := s.repo.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}

	if summary.TotalOrders > 0 {
		summary.AvgCost = summary.TotalRevenue / float64(summary.TotalOrders)
	}
	return summary, nil
}

func (s *Service) GetDailyBuckets(ctx context.Context, filter models.ReportFilter) ([]models.PeriodBucket, error) {
	return s.repo.DailyBuckets(ctx, filter)
}

func (s *Service) GetMonthlyBuckets(ctx context.Context, filter models.ReportFilter) ([]models.PeriodBucket, error) {
	return s.repo.MonthlyBuckets(ctx, filter)
}

// GetStatusDistribution returns one entry per workflow status in workflow
// order, zero counts included.
func (s *Service) GetStatusDistribution(ctx context.Context, filter models.ReportFilter) ([]models.StatusCount, error) {
	raw, err := s.repo.StatusDistribution(ctx, filter)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[models.OrderStatus]int, len(raw))
	for _, sc := range raw {
		byStatus[sc.Status] = sc.Count
	}

	counts := make([]models.StatusCount, 0, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		counts = append(counts, models.StatusCount{
			Status: status,
			Label:  status.Label(),
			Count:  byStatus[status],
		})
	}
	return counts, nil
}

func (s *Service) GetDashboard(ctx context.Context) (*models.DashboardStats, error) {
	return s.repo.Dashboard(ctx, dashboardRecentLimit)
}

const unassignedDriver = "Не назначен"

var csvHeader = []string{
	"Номер отслеживания", "Дата создания", "Клиент", "Тип заказа",
	"Адрес забора", "Адрес доставки", "Статус", "Водитель", "Стоимость",
}

// ExportCSV streams the filtered order list as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, filter models.ReportFilter) error {
	rows, err := s.repo.ListForExport(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("service.ExportCSV: %w", err)
	}

	for _, row := range rows {
		o := row.Order
		driver := unassignedDriver
		if row.DriverName != nil {
			driver = *row.DriverName
		}
		createdAt := o.CreatedAt
		record := []string{
			o.TrackingNumber,
			utils.FormatDateTime(&createdAt),
			o.CustomerName,
			o.OrderType.Label(),
			o.PickupAddress,
			o.DeliveryAddress,
			o.Status.Label(),
			driver,
			utils.FormatPrice(o.Price),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("service.ExportCSV: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
