package services

import (
	"errors"
	"fmt"
)

// Business-rule violations. Each one aborts its whole operation atomically;
// anything not in this taxonomy is an infrastructure failure and propagates
// as-is.
var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrOrderNotFound         = errors.New("order not found")
	ErrAlreadyCancelled      = errors.New("order is already cancelled")
	ErrCannotCancelDelivered = errors.New("delivered order cannot be cancelled")
	ErrInvalidPercent        = errors.New("percent change must be between -90 and 500")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrInvalidTransition     = errors.New("invalid order status transition")
	ErrForbidden             = errors.New("operation not permitted for this user")
)

// InsufficientStockError reports a failed reservation with enough context for
// the caller to act on: which product, how much is left, how much was asked.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (available: %d, requested: %d)",
		e.ProductName, e.Available, e.Requested)
}

// IsBusinessError reports whether err belongs to the business-rule taxonomy,
// as opposed to a storage or transport failure.
func IsBusinessError(err error) bool {
	var insufficient *InsufficientStockError
	if errors.As(err, &insufficient) {
		return true
	}
	for _, sentinel := range []error{
		ErrEmptyCart, ErrOrderNotFound, ErrAlreadyCancelled, ErrCannotCancelDelivered,
		ErrInvalidPercent, ErrCategoryNotFound, ErrProductNotFound, ErrInvalidTransition,
		ErrForbidden,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
