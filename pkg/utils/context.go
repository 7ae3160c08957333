package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Context keys populated by the auth middleware.
const (
	ContextUserID = "userID"
	ContextEmail  = "userEmail"
	ContextRole   = "userRole"
)

// ExtractUserInfo pulls the authenticated user's ID and role out of the
// echo context. Returns a 401 *echo.HTTPError when the middleware did not
// run; handlers pass it straight back to echo.
func ExtractUserInfo(c echo.Context) (int64, string, error) {
	userID, ok := c.Get(ContextUserID).(int64)
	if !ok || userID == 0 {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "Missing or invalid authentication")
	}
	role, _ := c.Get(ContextRole).(string)
	return userID, role, nil
}

// OptionalUserID returns the authenticated user's ID if a valid token was
// presented, or nil on anonymous requests. Used by the public order form to
// link orders to logged-in customers.
func OptionalUserID(c echo.Context) *int64 {
	if userID, ok := c.Get(ContextUserID).(int64); ok && userID != 0 {
		return &userID
	}
	return nil
}
