package cart

import (
	"context"

	"shop-backend/internal/domain"
	cartrepo "shop-backend/internal/repository/cart"
)

// Service exposes cart operations scoped to the authenticated user. The
// cart is created lazily on first use.
type Service struct {
	repo cartRepo
}

type cartRepo interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, productID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}

func New(repo cartrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the user's cart with lines and a freshly computed total.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	if _, err := s.repo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByUser(ctx, userID)
}

// Add puts quantity of a product into the cart, merging with an existing
// line for the same product.
func (s *Service) Add(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.AddLine(ctx, cart.ID, productID, quantity)
}

// Remove deletes the product's line; removing an absent line succeeds.
func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.RemoveLine(ctx, cart.ID, productID)
}

// Clear deletes every line from the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.Clear(ctx, cart.ID)
}
