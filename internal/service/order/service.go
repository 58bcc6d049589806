package order

import (
	"context"
	"io"
	"log"

	"shop-backend/internal/domain"
	"shop-backend/internal/events"
	orderrepo "shop-backend/internal/repository/order"
)

// Service exposes order reads and cancellation, always scoped to the
// owning user.
type Service struct {
	repo      orderRepo
	publisher publisher
	logger    *log.Logger
}

type orderRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByPublicID(ctx context.Context, userID, publicID string) (*domain.Order, error)
	Cancel(ctx context.Context, userID, publicID string) (*domain.Order, error)
}

type publisher interface {
	Publish(key, value []byte)
}

func New(repo orderrepo.Repository, pub publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, publisher: pub, logger: logger}
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, publicID string) (*domain.Order, error) {
	return s.repo.GetByPublicID(ctx, userID, publicID)
}

// Cancel moves a pending or processing order to cancelled; the repository
// restores the reserved stock in the same transaction.
func (s *Service) Cancel(ctx context.Context, userID, publicID string) (*domain.Order, error) {
	order, err := s.repo.Cancel(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		key, value, err := events.NewOrderCancelled(*order)
		if err != nil {
			s.logger.Printf("order: marshal cancel event order=%s error=%v", order.PublicID, err)
		} else {
			s.publisher.Publish(key, value)
		}
	}
	return order, nil
}
