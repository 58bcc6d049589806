package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"

	"shop-backend/internal/domain"
	"shop-backend/internal/events"
)

type stubCarts struct {
	cart *domain.Cart
	err  error
}

func (s *stubCarts) GetOrCreate(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

type stubOrders struct {
	errs       []error
	order      *domain.Order
	calls      int
	lastUserID string
	lastCartID string
}

func (s *stubOrders) CreateFromCart(_ context.Context, userID, cartID string) (*domain.Order, error) {
	s.lastUserID = userID
	s.lastCartID = cartID
	var err error
	if s.calls < len(s.errs) {
		err = s.errs[s.calls]
	}
	s.calls++
	if err != nil {
		return nil, err
	}
	return s.order, nil
}

type stubPublisher struct {
	keys   []string
	values [][]byte
}

func (s *stubPublisher) Publish(key, value []byte) {
	s.keys = append(s.keys, string(key))
	s.values = append(s.values, value)
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestCheckoutSuccessPublishesOrderPlaced(t *testing.T) {
	order := &domain.Order{
		PublicID:   "6b1f6a7e-0000-0000-0000-000000000001",
		UserID:     "u1",
		Status:     domain.OrderStatusPending,
		TotalCents: 4500,
		Lines: []domain.OrderLine{
			{ProductID: "p1", Quantity: 2, PriceCents: 1500},
			{ProductID: "p2", Quantity: 1, PriceCents: 1500},
		},
	}
	orders := &stubOrders{order: order}
	pub := &stubPublisher{}
	svc := &Service{
		carts:     &stubCarts{cart: &domain.Cart{ID: "c1"}},
		orders:    orders,
		publisher: pub,
		logger:    discard(),
	}

	got, err := svc.Checkout(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != order {
		t.Fatalf("unexpected order: %+v", got)
	}
	if orders.lastUserID != "u1" || orders.lastCartID != "c1" {
		t.Fatalf("repository called with wrong identifiers: user=%s cart=%s", orders.lastUserID, orders.lastCartID)
	}

	if len(pub.keys) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.keys))
	}
	if pub.keys[0] != order.PublicID {
		t.Fatalf("event key should be the order id, got %s", pub.keys[0])
	}
	var env events.Envelope
	if err := json.Unmarshal(pub.values[0], &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.EventType != events.EventOrderPlaced {
		t.Fatalf("unexpected event type %s", env.EventType)
	}
	var payload events.OrderPlacedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.TotalCents != 4500 || len(payload.Lines) != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	orders := &stubOrders{errs: []error{domain.ErrEmptyCart}}
	pub := &stubPublisher{}
	svc := &Service{
		carts:     &stubCarts{cart: &domain.Cart{ID: "c1"}},
		orders:    orders,
		publisher: pub,
		logger:    discard(),
	}

	_, err := svc.Checkout(context.Background(), "u1")
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if orders.calls != 1 {
		t.Fatalf("empty cart must not be retried, got %d calls", orders.calls)
	}
	if len(pub.keys) != 0 {
		t.Fatalf("no event should be published on failure")
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	stockErr := &domain.StockError{ProductID: "p1", Requested: 5, Available: 2}
	orders := &stubOrders{errs: []error{stockErr}}
	pub := &stubPublisher{}
	svc := &Service{
		carts:     &stubCarts{cart: &domain.Cart{ID: "c1"}},
		orders:    orders,
		publisher: pub,
		logger:    discard(),
	}

	_, err := svc.Checkout(context.Background(), "u1")
	var got *domain.StockError
	if !errors.As(err, &got) || got.ProductID != "p1" || got.Available != 2 {
		t.Fatalf("expected stock error with details, got %v", err)
	}
	if orders.calls != 1 {
		t.Fatalf("stock failures must not be retried, got %d calls", orders.calls)
	}
	if len(pub.keys) != 0 {
		t.Fatalf("no event should be published on failure")
	}
}

func TestCheckoutRetriesTransientConflict(t *testing.T) {
	order := &domain.Order{PublicID: "o1", UserID: "u1", Status: domain.OrderStatusPending}
	orders := &stubOrders{errs: []error{domain.ErrConflict, domain.ErrConflict, nil}, order: order}
	svc := &Service{
		carts:  &stubCarts{cart: &domain.Cart{ID: "c1"}},
		orders: orders,
		logger: discard(),
	}

	got, err := svc.Checkout(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != order {
		t.Fatalf("unexpected order: %+v", got)
	}
	if orders.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", orders.calls)
	}
}

func TestCheckoutConflictRetriesExhausted(t *testing.T) {
	orders := &stubOrders{errs: []error{domain.ErrConflict, domain.ErrConflict, domain.ErrConflict}}
	svc := &Service{
		carts:  &stubCarts{cart: &domain.Cart{ID: "c1"}},
		orders: orders,
		logger: discard(),
	}

	_, err := svc.Checkout(context.Background(), "u1")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict after exhausted retries, got %v", err)
	}
	if orders.calls != maxConflictRetries {
		t.Fatalf("expected %d attempts, got %d", maxConflictRetries, orders.calls)
	}
}

func TestCheckoutCartLookupError(t *testing.T) {
	orders := &stubOrders{}
	svc := &Service{
		carts:  &stubCarts{err: errors.New("db down")},
		orders: orders,
		logger: discard(),
	}

	if _, err := svc.Checkout(context.Background(), "u1"); err == nil {
		t.Fatalf("expected cart lookup error")
	}
	if orders.calls != 0 {
		t.Fatalf("order creation must not run without a cart")
	}
}

func TestCheckoutWithoutPublisher(t *testing.T) {
	orders := &stubOrders{order: &domain.Order{PublicID: "o1"}}
	svc := &Service{
		carts:  &stubCarts{cart: &domain.Cart{ID: "c1"}},
		orders: orders,
		logger: discard(),
	}

	if _, err := svc.Checkout(context.Background(), "u1"); err != nil {
		t.Fatalf("checkout must work without a broker: %v", err)
	}
}
