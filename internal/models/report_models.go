package models

import "time"

// ReportFilter parameterizes every aggregation: a date range plus optional
// order-type and status filters.
type ReportFilter struct {
	From      time.Time
	To        time.Time
	OrderType *OrderType
	Status    *OrderStatus
}

// ReportSummary mirrors the staff reports page: counts, revenue and the
// per-driver breakdown for the selected window.
//
// AvgCost is TotalRevenue / TotalOrders. The denominator counts every order
// in range, including those without a price yet; 0 when the range is empty.
type ReportSummary struct {
	TotalOrders     int          `json:"total_orders"`
	TotalRevenue    float64      `json:"total_revenue"`
	AvgCost         float64      `json:"avg_cost"`
	LocalOrders     int          `json:"local_orders"`
	IntercityOrders int          `json:"intercity_orders"`
	DriverStats     []DriverStat `json:"driver_stats"`
	PeriodFrom      time.Time    `json:"period_from"`
	PeriodTo        time.Time    `json:"period_to"`
}

type DriverStat struct {
	DriverID   int64   `json:"driver_id"`
	DriverName string  `json:"driver_name"`
	OrderCount int     `json:"order_count"`
	TotalCost  float64 `json:"total_cost"`
}

// PeriodBucket is one calendar-day or calendar-month slice of the order
// volume charts.
type PeriodBucket struct {
	Period  string  `json:"period"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type StatusCount struct {
	Status OrderStatus `json:"status"`
	Label  string      `json:"label"`
	Count  int         `json:"count"`
}

// DashboardStats backs the staff landing page.
type DashboardStats struct {
	TotalOrders      int      `json:"total_orders"`
	NewOrders        int      `json:"new_orders"`
	InProgressOrders int      `json:"in_progress_orders"`
	DeliveredOrders  int      `json:"delivered_orders"`
	RecentOrders     []*Order `json:"recent_orders"`
}
