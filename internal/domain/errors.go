package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found or is not
	// visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInsufficientStock is returned when a requested quantity exceeds
	// the available stock. Match with errors.Is; the concrete error is a
	// StockError carrying the offending product.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrEmptyCart is returned when checkout runs against a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrConflict marks a transient transaction conflict that is safe to retry.
	ErrConflict = errors.New("conflict")
	// ErrForbidden indicates access to another user's cart or order.
	ErrForbidden = errors.New("forbidden")
)

// StockError identifies the product that could not satisfy a stock demand.
type StockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
