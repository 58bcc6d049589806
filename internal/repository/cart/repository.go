package cart

import (
	"context"

	"shop-backend/internal/domain"
)

type Repository interface {
	// GetOrCreate returns the user's cart, creating an empty one on first use.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	// GetByUser loads the cart with its lines; totals are computed from
	// current product prices at read time.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, productID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}
