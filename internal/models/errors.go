package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a unique constraint would be violated,
	// e.g. signing up with an email that is already registered.
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidStatus is returned when an order update carries a status
	// value outside the known workflow set.
	ErrInvalidStatus = errors.New("unknown order status")

	// ErrDriverNotAvailable is returned when an order is assigned to a
	// driver that does not exist or has been deactivated.
	ErrDriverNotAvailable = errors.New("driver does not exist or is not active")

	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("access denied")
)

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}
