package orders

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"xpom-logistics/internal/models"
	"xpom-logistics/pkg/utils"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new order handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// CreateOrder handles the public order form. An authenticated caller is
// linked as the order's customer; anonymous submissions are accepted too.
func (h *Handler) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	order, err := h.svc.CreateOrder(c.Request().Context(), req, utils.OptionalUserID(c))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusCreated, order)
}

// Track resolves a tracking number to the public status view.
func (h *Handler) Track(c echo.Context) error {
	trackingNumber := c.Param("trackingNumber")

	view, err := h.svc.TrackByNumber(c.Request().Context(), trackingNumber)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, view)
}

// ListMyOrders returns the authenticated customer's orders.
func (h *Handler) ListMyOrders(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	page, limit := utils.GetPageLimit(c)
	orders, total, err := h.svc.ListCustomerOrders(c.Request().Context(), userID, page, limit)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"orders": orders, "total": total})
}

// ListAllOrders lists orders for staff with optional filters.
func (h *Handler) ListAllOrders(c echo.Context) error {
	filter, err := parseOrderFilter(c)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	page, limit := utils.GetPageLimit(c)
	orders, total, err := h.svc.ListOrders(c.Request().Context(), filter, page, limit)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"orders": orders, "total": total})
}

// GetOrder returns one order with its audit trail for staff.
func (h *Handler) GetOrder(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	order, history, err := h.svc.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"order": order, "history": history})
}

// UpdateOrder applies a staff edit to an order.
func (h *Handler) UpdateOrder(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	var req models.AdminUpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	order, err := h.svc.UpdateOrder(c.Request().Context(), orderID, userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, order)
}

func parseOrderFilter(c echo.Context) (models.OrderFilter, error) {
	var filter models.OrderFilter

	if v := c.QueryParam("status"); v != "" {
		status := models.OrderStatus(v)
		if !status.Valid() {
			return filter, errors.New("invalid order status")
		}
		filter.Status = &status
	}
	if v := c.QueryParam("type"); v != "" {
		orderType := models.OrderType(v)
		if !orderType.Valid() {
			return filter, errors.New("invalid order type")
		}
		filter.OrderType = &orderType
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("invalid 'from' date, expected YYYY-MM-DD")
		}
		filter.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("invalid 'to' date, expected YYYY-MM-DD")
		}
		// Make the range inclusive of the whole end day.
		end := t.Add(24*time.Hour - time.Second)
		filter.To = &end
	}
	return filter, nil
}
