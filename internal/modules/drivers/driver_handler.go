package drivers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"xpom-logistics/internal/models"
	"xpom-logistics/pkg/utils"
)

// Handler handles HTTP requests for drivers.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new driver handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// ListDrivers returns the roster. ?active=true limits it to drivers
// available for assignment.
func (h *Handler) ListDrivers(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"

	drivers, err := h.svc.ListDrivers(c.Request().Context(), activeOnly)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve drivers")
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"drivers": drivers})
}

func (h *Handler) GetDriver(c echo.Context) error {
	driverID, err := strconv.ParseInt(c.Param("driverId"), 10, 64)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid driver ID")
	}

	driver, err := h.svc.FindByID(c.Request().Context(), driverID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, driver)
}

func (h *Handler) CreateDriver(c echo.Context) error {
	var req models.CreateDriverRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	driver, err := h.svc.CreateDriver(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, driver)
}

func (h *Handler) UpdateDriver(c echo.Context) error {
	driverID, err := strconv.ParseInt(c.Param("driverId"), 10, 64)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid driver ID")
	}

	var req models.UpdateDriverRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	driver, err := h.svc.UpdateDriver(c.Request().Context(), driverID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, driver)
}

// DeactivateDriver retires a driver without deleting the row.
func (h *Handler) DeactivateDriver(c echo.Context) error {
	driverID, err := strconv.ParseInt(c.Param("driverId"), 10, 64)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid driver ID")
	}

	driver, err := h.svc.DeactivateDriver(c.Request().Context(), driverID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, driver)
}
