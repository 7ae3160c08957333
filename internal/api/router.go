package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"xpom-logistics/internal/api/middleware"
	"xpom-logistics/internal/modules/drivers"
	"xpom-logistics/internal/modules/orders"
	"xpom-logistics/internal/modules/reports"
	"xpom-logistics/internal/modules/users"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	userHandler *users.Handler,
	orderHandler *orders.Handler,
	driverHandler *drivers.Handler,
	reportHandler *reports.Handler,
	jwtSecret string,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)
	optionalAuth := middleware.OptionalAuth(jwtSecret)
	logistRequired := middleware.LogistRequired()

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "XPOM-KZ logistics API"})
	})

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", userHandler.Signup)
		authGroup.POST("/login", userHandler.Login)
	}

	// The order form accepts guest submissions; a valid token links the
	// order to the customer account.
	e.POST("/api/orders", orderHandler.CreateOrder, optionalAuth)
	e.GET("/api/track/:trackingNumber", orderHandler.Track)

	// --- Customer Routes ---
	profileGroup := e.Group("/api/profile", authMiddleware)
	{
		profileGroup.GET("", userHandler.GetProfile)
		profileGroup.GET("/orders", orderHandler.ListMyOrders)
	}

	// --- Admin (Logist) Routes ---
	adminGroup := e.Group("/api/admin", authMiddleware, logistRequired)
	{
		// Order Management
		adminGroup.GET("/orders", orderHandler.ListAllOrders)
		adminGroup.GET("/orders/export", reportHandler.ExportOrders)
		adminGroup.GET("/orders/:orderId", orderHandler.GetOrder)
		adminGroup.PUT("/orders/:orderId", orderHandler.UpdateOrder)

		// Driver Management
		adminGroup.GET("/drivers", driverHandler.ListDrivers)
		adminGroup.POST("/drivers", driverHandler.CreateDriver)
		adminGroup.GET("/drivers/:driverId", driverHandler.GetDriver)
		adminGroup.PUT("/drivers/:driverId", driverHandler.UpdateDriver)
		adminGroup.DELETE("/drivers/:driverId", driverHandler.DeactivateDriver)

		// Dashboard & Reports
		adminGroup.GET("/dashboard", reportHandler.GetDashboard)
		adminGroup.GET("/reports/summary", reportHandler.GetSummary)
		adminGroup.GET("/reports/daily", reportHandler.GetDailyBuckets)
		adminGroup.GET("/reports/monthly", reportHandler.GetMonthlyBuckets)
		adminGroup.GET("/reports/status", reportHandler.GetStatusDistribution)
	}
}
