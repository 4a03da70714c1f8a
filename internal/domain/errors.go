package domain

import "errors"

// Domain errors
var (
	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidUserID = errors.New("invalid user id")

	// Class errors
	ErrClassNotFound      = errors.New("class not found")
	ErrInvalidClassID     = errors.New("invalid class id")
	ErrInvalidClassStatus = errors.New("invalid class status")
	ErrNoSeatsAvailable   = errors.New("no seats available")

	// Selection errors
	ErrSelectionNotFound  = errors.New("selected class not found")
	ErrInvalidSelectionID = errors.New("invalid selected class id")

	// Payment errors
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrChargeUnavailable = errors.New("payment gateway rejected the charge request")
	ErrAlreadyEnrolled   = errors.New("selection already paid and enrolled")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrClassNotFound) ||
		errors.Is(err, ErrSelectionNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidClassID) ||
		errors.Is(err, ErrInvalidClassStatus) ||
		errors.Is(err, ErrInvalidSelectionID) ||
		errors.Is(err, ErrInvalidPrice)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrUserExists) ||
		errors.Is(err, ErrNoSeatsAvailable) ||
		errors.Is(err, ErrAlreadyEnrolled)
}
