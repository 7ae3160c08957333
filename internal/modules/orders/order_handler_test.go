package orders

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"xpom-logistics/internal/models"
)

func filterContext(t *testing.T, query string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?"+query, nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestParseOrderFilter(t *testing.T) {
	filter, err := parseOrderFilter(filterContext(t, "status=confirmed&type=intercity&from=2026-08-01&to=2026-08-31"))
	require.NoError(t, err)
	require.Equal(t, models.StatusConfirmed, *filter.Status)
	require.Equal(t, models.TypeIntercity, *filter.OrderType)
	require.Equal(t, "2026-08-01", filter.From.Format("2006-01-02"))
	// The end of the range covers the whole last day.
	require.Equal(t, "2026-08-31 23:59:59", filter.To.Format("2006-01-02 15:04:05"))
}

func TestParseOrderFilter_rejectsUnknownValues(t *testing.T) {
	_, err := parseOrderFilter(filterContext(t, "status=shipped"))
	require.Error(t, err)

	_, err = parseOrderFilter(filterContext(t, "type=express"))
	require.Error(t, err)

	_, err = parseOrderFilter(filterContext(t, "from=31.08.2026"))
	require.Error(t, err)
}
