package models

import "time"

// Driver is a delivery agent referenced (not owned) by orders.
type Driver struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	VehicleNumber *string   `json:"vehicle_number,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateDriverRequest struct {
	FullName      string  `json:"full_name" validate:"required,min=2,max=100"`
	Phone         string  `json:"phone" validate:"required,min=10,max=20"`
	VehicleNumber *string `json:"vehicle_number,omitempty" validate:"omitempty,max=20"`
}

type UpdateDriverRequest struct {
	FullName      *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	VehicleNumber *string `json:"vehicle_number,omitempty" validate:"omitempty,max=20"`
	IsActive      *bool   `json:"is_active,omitempty"`
}
