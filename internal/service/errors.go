package service

import (
	"errors"

	"shop-service/internal/repository"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateUsername = repository.ErrDuplicateUsername
	ErrDuplicateEmail    = repository.ErrDuplicateEmail
	ErrInvalidRole       = errors.New("invalid role")

	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product not available for order")
	ErrInvalidStatus      = errors.New("invalid product status")
	ErrInvalidStock       = errors.New("stock count must be >= 0")
	ErrInvalidPrice       = errors.New("price must be >= 0")

	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyItems        = errors.New("empty items")
	ErrQuantityInvalid   = errors.New("quantity must be > 0 and fit into int32")
	ErrLineTotalOverflow = errors.New("line total out of range")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrCartEmpty        = errors.New("cart is empty")
	ErrCartItemNotFound = errors.New("cart item not found")

	ErrValidation = errors.New("validation failed")
)

// ValidationError carries per-field messages keyed by the input field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return ErrValidation.Error() }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
