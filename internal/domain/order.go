package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusCompleted: true, OrderStatusCancelled: true},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
// Completed and cancelled are terminal.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Order is an immutable snapshot of a cart at checkout time. Only the
// status may change after creation; PublicID is the caller-facing UUID.
type Order struct {
	ID         string      `json:"-"`
	PublicID   string      `json:"id"`
	UserID     string      `json:"-"`
	TotalCents int64       `json:"totalCents"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	PlacedAt   time.Time   `json:"placedAt"`
	Lines      []OrderLine `json:"lines,omitempty"`
}

// OrderLine carries the price snapshot copied from the product at order
// creation; it is never recomputed from the catalog.
type OrderLine struct {
	ID          string `json:"id"`
	OrderID     string `json:"-"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int    `json:"quantity"`
	PriceCents  int64  `json:"priceCents"`
}
