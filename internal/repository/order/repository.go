package order

import (
	"context"

	"shop-backend/internal/domain"
)

type Repository interface {
	// CreateFromCart converts the cart into a pending order in a single
	// transaction: stock reservation, order and line insertion, and cart
	// clearing all commit together or not at all.
	CreateFromCart(ctx context.Context, userID, cartID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByPublicID(ctx context.Context, userID, publicID string) (*domain.Order, error)
	// Cancel moves a pending or processing order to cancelled and returns
	// its reserved stock to the catalog.
	Cancel(ctx context.Context, userID, publicID string) (*domain.Order, error)
}
