package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestExtractUserInfo(t *testing.T) {
	c := newTestContext(t)
	c.Set(ContextUserID, int64(7))
	c.Set(ContextRole, "logist")

	userID, role, err := ExtractUserInfo(c)
	require.NoError(t, err)
	require.Equal(t, int64(7), userID)
	require.Equal(t, "logist", role)
}

// Without the auth middleware the error must be non-nil so callers actually
// stop instead of proceeding with a zero user ID.
func TestExtractUserInfo_unauthenticated(t *testing.T) {
	c := newTestContext(t)

	userID, _, err := ExtractUserInfo(c)
	require.Error(t, err)
	require.Zero(t, userID)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestOptionalUserID(t *testing.T) {
	c := newTestContext(t)
	require.Nil(t, OptionalUserID(c))

	c.Set(ContextUserID, int64(42))
	id := OptionalUserID(c)
	require.NotNil(t, id)
	require.Equal(t, int64(42), *id)
}
