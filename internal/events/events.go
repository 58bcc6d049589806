package events

import (
	"encoding/json"
	"time"

	"shop-backend/internal/domain"

	"github.com/google/uuid"
)

const (
	TopicOrders = "shop.orders"

	EventOrderPlaced    = "OrderPlaced"
	EventOrderCancelled = "OrderCancelled"
)

// Envelope wraps every published event with routing metadata.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type OrderLinePayload struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

type OrderPlacedPayload struct {
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	TotalCents int64              `json:"total_cents"`
	Lines      []OrderLinePayload `json:"lines"`
}

type OrderCancelledPayload struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// NewOrderPlaced builds the envelope for a freshly committed order.
func NewOrderPlaced(o domain.Order) ([]byte, []byte, error) {
	lines := make([]OrderLinePayload, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLinePayload{ProductID: l.ProductID, Quantity: l.Quantity, PriceCents: l.PriceCents})
	}
	return marshal(EventOrderPlaced, o.PublicID, OrderPlacedPayload{
		OrderID:    o.PublicID,
		UserID:     o.UserID,
		TotalCents: o.TotalCents,
		Lines:      lines,
	})
}

// NewOrderCancelled builds the envelope for a cancelled order.
func NewOrderCancelled(o domain.Order) ([]byte, []byte, error) {
	return marshal(EventOrderCancelled, o.PublicID, OrderCancelledPayload{OrderID: o.PublicID, UserID: o.UserID})
}

func marshal(eventType, orderID string, payload interface{}) (key, value []byte, err error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Producer:   "shop-backend",
		Payload:    raw,
	}
	value, err = json.Marshal(env)
	if err != nil {
		return nil, nil, err
	}
	return []byte(orderID), value, nil
}
