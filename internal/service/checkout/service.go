package checkout

import (
	"context"
	"errors"
	"io"
	"log"

	"shop-backend/internal/domain"
	"shop-backend/internal/events"
	"shop-backend/internal/metrics"
	cartrepo "shop-backend/internal/repository/cart"
	orderrepo "shop-backend/internal/repository/order"
)

const maxConflictRetries = 3

// Service orchestrates the cart-to-order transition. The repository
// performs reservation, order creation and cart clearing in one
// transaction; this layer adds bounded retries on transient conflicts and
// post-commit event publishing.
type Service struct {
	carts     cartStore
	orders    orderStore
	publisher publisher
	checkouts *metrics.Checkout
	logger    *log.Logger
}

type cartStore interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
}

type orderStore interface {
	CreateFromCart(ctx context.Context, userID, cartID string) (*domain.Order, error)
}

type publisher interface {
	Publish(key, value []byte)
}

func New(carts cartrepo.Repository, orders orderrepo.Repository, pub publisher, checkouts *metrics.Checkout, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{carts: carts, orders: orders, publisher: pub, checkouts: checkouts, logger: logger}
}

// Checkout converts the user's cart into a pending order. Typed failures
// from the reservation and order layers surface unchanged; on success the
// cart is empty and an OrderPlaced event is queued.
func (s *Service) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var order *domain.Order
	for attempt := 1; ; attempt++ {
		order, err = s.orders.CreateFromCart(ctx, userID, cart.ID)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrConflict) && attempt < maxConflictRetries {
			if s.checkouts != nil {
				s.checkouts.Conflicts.Inc()
			}
			s.logger.Printf("checkout: transient conflict user=%s attempt=%d", userID, attempt)
			continue
		}
		s.count(resultFor(err))
		return nil, err
	}

	s.count("success")
	s.publishPlaced(order)
	return order, nil
}

func (s *Service) count(result string) {
	if s.checkouts != nil {
		s.checkouts.Attempts.WithLabelValues(result).Inc()
	}
}

func (s *Service) publishPlaced(order *domain.Order) {
	if s.publisher == nil {
		return
	}
	key, value, err := events.NewOrderPlaced(*order)
	if err != nil {
		s.logger.Printf("checkout: marshal order placed event order=%s error=%v", order.PublicID, err)
		return
	}
	s.publisher.Publish(key, value)
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
