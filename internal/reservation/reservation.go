// Package reservation implements atomic check-and-decrement of product
// stock. Its functions operate on a caller-supplied transaction so that
// checkout can bundle the decrements with order creation and cart clearing
// into a single unit of work.
package reservation

import (
	"context"
	"errors"

	"shop-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

// Demand is one (product, quantity) pair to reserve or release.
type Demand struct {
	ProductID string
	Quantity  int
}

// Reserve decrements stock for every demand inside tx. Each decrement is a
// conditional update guarded by `stock >= quantity`, so concurrent
// reservations for the same product serialize on the row and can never
// drive stock below zero. The first demand that cannot be satisfied stops
// the batch with a StockError; the caller's rollback discards any
// decrements already applied, so no partial reservation is ever committed.
func Reserve(ctx context.Context, tx pgx.Tx, demands []Demand) error {
	for _, d := range demands {
		if d.Quantity < 1 {
			return domain.ErrInvalidQuantity
		}
		ct, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2
`, d.ProductID, d.Quantity)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			var available int
			err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, d.ProductID).Scan(&available)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domain.ErrNotFound
				}
				return err
			}
			return &domain.StockError{ProductID: d.ProductID, Requested: d.Quantity, Available: available}
		}
	}
	return nil
}

// Release returns previously reserved stock, used when a pending or
// processing order is cancelled. It runs inside the caller's transaction.
func Release(ctx context.Context, tx pgx.Tx, demands []Demand) error {
	for _, d := range demands {
		if d.Quantity < 1 {
			return domain.ErrInvalidQuantity
		}
		ct, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock + $2, updated_at = now()
WHERE id = $1
`, d.ProductID, d.Quantity)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	}
	return nil
}
