package reports

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"xpom-logistics/internal/models"
	"xpom-logistics/pkg/utils"
)

// Handler handles HTTP requests for reports and the dashboard.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new report handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// parseReportFilter reads ?from, ?to (YYYY-MM-DD), ?type and ?status. When
// no explicit range is given the window is defaultFrom..now; ?to is
// inclusive through end of day.
func parseReportFilter(c echo.Context, defaultFrom time.Time) (models.ReportFilter, error) {
	filter := models.ReportFilter{
		From: defaultFrom,
		To:   time.Now(),
	}

	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("invalid 'from' date, expected YYYY-MM-DD")
		}
		filter.From = t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("invalid 'to' date, expected YYYY-MM-DD")
		}
		filter.To = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	if raw := c.QueryParam("type"); raw != "" {
		orderType := models.OrderType(raw)
		if !orderType.Valid() {
			return filter, errors.New("invalid order type")
		}
		filter.OrderType = &orderType
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := models.OrderStatus(raw)
		if !status.Valid() {
			return filter, errors.New("invalid order status")
		}
		filter.Status = &status
	}
	return filter, nil
}

// Default windows per report surface: summaries and exports look back a
// month, the daily chart a week, the monthly chart a year.
func lastDays(n int) time.Time { return time.Now().AddDate(0, 0, -n) }

func lastMonths(n int) time.Time { return time.Now().AddDate(0, -n, 0) }

func (h *Handler) GetSummary(c echo.Context) error {
	filter, err := parseReportFilter(c, lastDays(30))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	summary, err := h.svc.GetSummary(c.Request().Context(), filter)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
	}
	return utils.RespondWithJSON(c, http.StatusOK, summary)
}

func (h *Handler) GetDailyBuckets(c echo.Context) error {
	filter, err := parseReportFilter(c, lastDays(7))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	buckets, err := h.svc.GetDailyBuckets(c.Request().Context(), filter)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"buckets": buckets})
}

func (h *Handler) GetMonthlyBuckets(c echo.Context) error {
	filter, err := parseReportFilter(c, lastMonths(12))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	buckets, err := h.svc.GetMonthlyBuckets(c.Request().Context(), filter)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"buckets": buckets})
}

func (h *Handler) GetStatusDistribution(c echo.Context) error {
	filter, err := parseReportFilter(c, lastDays(30))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	counts, err := h.svc.GetStatusDistribution(c.Request().Context(), filter)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"statuses": counts})
}

func (h *Handler) GetDashboard(c echo.Context) error {
	stats, err := h.svc.GetDashboard(c.Request().Context())
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
	}
	return utils.RespondWithJSON(c, http.StatusOK, stats)
}

// ExportOrders streams the filtered order list as a CSV attachment.
func (h *Handler) ExportOrders(c echo.Context) error {
	filter, err := parseReportFilter(c, lastDays(30))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	filename := fmt.Sprintf("orders_%s_%s.csv",
		filter.From.Format("2006-01-02"), filter.To.Format("2006-01-02"))

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	return h.svc.ExportCSV(c.Request().Context(), c.Response(), filter)
}
