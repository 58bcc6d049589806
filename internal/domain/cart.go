package domain

import "time"

// Cart holds a user's current selection, one cart per user. TotalCents is
// computed from the lines at read time against current catalog prices; it
// is never stored.
type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	TotalCents int64      `json:"totalCents"`
	CreatedAt  time.Time  `json:"createdAt"`
	Lines      []CartLine `json:"lines"`
}

// CartLine is one (product, quantity) entry, unique per product within a
// cart. UnitPriceCents and SubtotalCents reflect the current product price.
type CartLine struct {
	ID             string    `json:"id"`
	CartID         string    `json:"-"`
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	SubtotalCents  int64     `json:"subtotalCents"`
	AddedAt        time.Time `json:"addedAt"`
}
