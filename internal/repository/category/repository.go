package category

import (
	"context"

	"shop-backend/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
}
