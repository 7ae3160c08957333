package models

import "time"

// Order represents one delivery request. The numeric ID is internal; the
// tracking number is the public identifier and never changes once assigned.
type Order struct {
	ID             int64  `json:"id"`
	TrackingNumber string `json:"tracking_number"`

	// Customer information
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	CustomerID    *int64  `json:"customer_id,omitempty"`

	OrderType OrderType `json:"order_type"`

	// Route
	PickupAddress   string  `json:"pickup_address"`
	PickupContact   *string `json:"pickup_contact,omitempty"`
	PickupPhone     *string `json:"pickup_phone,omitempty"`
	DeliveryAddress string  `json:"delivery_address"`
	DeliveryContact *string `json:"delivery_contact,omitempty"`
	DeliveryPhone   *string `json:"delivery_phone,omitempty"`

	// Cargo
	CargoDescription string   `json:"cargo_description"`
	CargoWeight      *float64 `json:"cargo_weight,omitempty"`
	CargoVolume      *float64 `json:"cargo_volume,omitempty"`
	CargoDimensions  *string  `json:"cargo_dimensions,omitempty"`

	// Workflow
	Status   OrderStatus `json:"status"`
	Price    *float64    `json:"price,omitempty"`
	DriverID *int64      `json:"driver_id,omitempty"`

	InternalComments *string `json:"internal_comments,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	PickupDate   *time.Time `json:"pickup_date,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
}

// OrderStatusHistory is an append-only audit record of a status change.
// Rows are never mutated or deleted.
type OrderStatusHistory struct {
	ID          int64       `json:"id"`
	OrderID     int64       `json:"order_id"`
	Status      OrderStatus `json:"status"`
	Comment     *string     `json:"comment,omitempty"`
	ChangedByID *int64      `json:"changed_by_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// CreateOrderRequest carries the public order form.
type CreateOrderRequest struct {
	CustomerName  string  `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string  `json:"customer_phone" validate:"required,min=10,max=20"`
	CustomerEmail *string `json:"customer_email,omitempty" validate:"omitempty,email"`

	OrderType OrderType `json:"order_type" validate:"required,oneof=local intercity"`

	PickupAddress   string  `json:"pickup_address" validate:"required"`
	PickupContact   *string `json:"pickup_contact,omitempty" validate:"omitempty,max=100"`
	PickupPhone     *string `json:"pickup_phone,omitempty" validate:"omitempty,max=20"`
	DeliveryAddress string  `json:"delivery_address" validate:"required"`
	DeliveryContact *string `json:"delivery_contact,omitempty" validate:"omitempty,max=100"`
	DeliveryPhone   *string `json:"delivery_phone,omitempty" validate:"omitempty,max=20"`

	CargoDescription string   `json:"cargo_description" validate:"required"`
	CargoWeight      *float64 `json:"cargo_weight,omitempty" validate:"omitempty,gte=0"`
	CargoVolume      *float64 `json:"cargo_volume,omitempty" validate:"omitempty,gte=0"`
	CargoDimensions  *string  `json:"cargo_dimensions,omitempty" validate:"omitempty,max=100"`
}

// AdminUpdateOrderRequest represents the fields a logist can change on an
// order. Nil fields are left untouched. DriverID 0 is the "unassigned"
// sentinel and clears the reference; ClearPrice removes the price (the
// admin form submits an empty price field as a clear) and wins over Price.
type AdminUpdateOrderRequest struct {
	Status           *OrderStatus `json:"status,omitempty" validate:"omitempty,oneof=new confirmed in_progress delivered cancelled"`
	Price            *float64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	ClearPrice       bool         `json:"clear_price,omitempty"`
	DriverID         *int64       `json:"driver_id,omitempty" validate:"omitempty,gte=0"`
	InternalComments *string      `json:"internal_comments,omitempty"`
	PickupDate       *time.Time   `json:"pickup_date,omitempty"`
	DeliveryDate     *time.Time   `json:"delivery_date,omitempty"`
	StatusComment    *string      `json:"status_comment,omitempty"`
}

// OrderFilter narrows admin order listings and the CSV export.
type OrderFilter struct {
	Status    *OrderStatus
	OrderType *OrderType
	From      *time.Time
	To        *time.Time
}

// TrackingView is the public projection returned by the tracking endpoint:
// no internal comments, no customer contact details beyond the name.
type TrackingView struct {
	TrackingNumber  string              `json:"tracking_number"`
	Status          OrderStatus         `json:"status"`
	StatusLabel     string              `json:"status_label"`
	OrderType       OrderType           `json:"order_type"`
	OrderTypeLabel  string              `json:"order_type_label"`
	CustomerName    string              `json:"customer_name"`
	PickupAddress   string              `json:"pickup_address"`
	DeliveryAddress string              `json:"delivery_address"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	PickupDate      *time.Time          `json:"pickup_date,omitempty"`
	DeliveryDate    *time.Time          `json:"delivery_date,omitempty"`
	History         []TrackingViewEvent `json:"history"`
}

// TrackingViewEvent is one audit entry in the public tracking view.
type TrackingViewEvent struct {
	Status      OrderStatus `json:"status"`
	StatusLabel string      `json:"status_label"`
	Comment     *string     `json:"comment,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
