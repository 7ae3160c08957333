package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"xpom-logistics/internal/models"
)

// RespondWithJSON writes a JSON payload with the given status code.
func RespondWithJSON(c echo.Context, code int, payload interface{}) error {
	return c.JSON(code, payload)
}

// RespondWithError writes a JSON error body with the given status code.
func RespondWithError(c echo.Context, code int, message string) error {
	return c.JSON(code, models.ErrorResponse{Message: message})
}

// HandleServiceError maps the service layer's sentinel errors to HTTP
// status codes. Anything unrecognized becomes a 500 and is logged server
// side without leaking details to the client.
func HandleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, models.ErrNotFound.Error())
	case errors.Is(err, models.ErrConflict):
		return RespondWithError(c, http.StatusConflict, models.ErrConflict.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		return RespondWithError(c, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
	case errors.Is(err, models.ErrInvalidStatus):
		return RespondWithError(c, http.StatusBadRequest, models.ErrInvalidStatus.Error())
	case errors.Is(err, models.ErrDriverNotAvailable):
		return RespondWithError(c, http.StatusBadRequest, models.ErrDriverNotAvailable.Error())
	case errors.Is(err, models.ErrForbidden):
		return RespondWithError(c, http.StatusForbidden, models.ErrForbidden.Error())
	default:
		c.Logger().Errorf("internal error: %v", err)
		return RespondWithError(c, http.StatusInternalServerError, "internal server error")
	}
}
