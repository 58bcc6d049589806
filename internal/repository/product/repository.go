package product

import (
	"context"

	"shop-backend/internal/domain"
)

// ListFilter narrows and orders the catalog listing. Sort accepts
// "price", "-price" or "" for newest first.
type ListFilter struct {
	Search string
	Sort   string
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}
