package order

import (
	"context"
	"errors"
	"io"
	"log"

	"shop-backend/internal/domain"
	"shop-backend/internal/reservation"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

type pricedLine struct {
	productID   string
	productName string
	quantity    int
	priceCents  int64
}

func (r *postgresRepo) CreateFromCart(ctx context.Context, userID, cartID string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	lines, err := loadCartLines(ctx, tx, cartID)
	if err != nil {
		return nil, translateConflict(err)
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var total int64
	demands := make([]reservation.Demand, 0, len(lines))
	for _, l := range lines {
		total += l.priceCents * int64(l.quantity)
		demands = append(demands, reservation.Demand{ProductID: l.productID, Quantity: l.quantity})
	}

	if err := reservation.Reserve(ctx, tx, demands); err != nil {
		return nil, translateConflict(err)
	}

	order := domain.Order{
		PublicID:   uuid.NewString(),
		UserID:     userID,
		TotalCents: total,
		Status:     domain.OrderStatusPending,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO orders (public_id, user_id, total_cents, status)
VALUES ($1, $2, $3, $4)
RETURNING id::text, created_at, placed_at
`, order.PublicID, userID, total, order.Status).Scan(&order.ID, &order.CreatedAt, &order.PlacedAt)
	if err != nil {
		return nil, translateConflict(err)
	}

	for _, l := range lines {
		var line domain.OrderLine
		err := tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, product_id, quantity, price_cents)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`, order.ID, l.productID, l.quantity, l.priceCents).Scan(&line.ID)
		if err != nil {
			return nil, translateConflict(err)
		}
		line.OrderID = order.ID
		line.ProductID = l.productID
		line.ProductName = l.productName
		line.Quantity = l.quantity
		line.PriceCents = l.priceCents
		order.Lines = append(order.Lines, line)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return nil, translateConflict(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateConflict(err)
	}

	r.logger.Printf("order repo: created order=%s user=%s total_cents=%d lines=%d", order.PublicID, userID, total, len(order.Lines))
	return &order, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, public_id::text, user_id::text, total_cents, status, created_at, placed_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.PublicID, &o.UserID, &o.TotalCents, &o.Status, &o.CreatedAt, &o.PlacedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByPublicID(ctx context.Context, userID, publicID string) (*domain.Order, error) {
	const q = `
SELECT id::text, public_id::text, user_id::text, total_cents, status, created_at, placed_at
FROM orders
WHERE public_id = $1
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, publicID).Scan(&o.ID, &o.PublicID, &o.UserID, &o.TotalCents, &o.Status, &o.CreatedAt, &o.PlacedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrForbidden
	}

	const linesQuery = `
SELECT ol.id::text, ol.order_id::text, ol.product_id::text, p.name, ol.quantity, ol.price_cents
FROM order_lines ol
JOIN products p ON p.id = ol.product_id
WHERE ol.order_id = $1
ORDER BY ol.id ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.PriceCents); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *postgresRepo) Cancel(ctx context.Context, userID, publicID string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var o domain.Order
	err = tx.QueryRow(ctx, `
SELECT id::text, public_id::text, user_id::text, total_cents, status, created_at, placed_at
FROM orders
WHERE public_id = $1
FOR UPDATE
`, publicID).Scan(&o.ID, &o.PublicID, &o.UserID, &o.TotalCents, &o.Status, &o.CreatedAt, &o.PlacedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if !domain.CanTransition(o.Status, domain.OrderStatusCancelled) {
		return nil, domain.ErrConflict
	}

	rows, err := tx.Query(ctx, `
SELECT product_id::text, quantity
FROM order_lines
WHERE order_id = $1
`, o.ID)
	if err != nil {
		return nil, err
	}
	var demands []reservation.Demand
	for rows.Next() {
		var d reservation.Demand
		if err := rows.Scan(&d.ProductID, &d.Quantity); err != nil {
			rows.Close()
			return nil, err
		}
		demands = append(demands, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := reservation.Release(ctx, tx, demands); err != nil {
		return nil, translateConflict(err)
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, domain.OrderStatusCancelled, o.ID); err != nil {
		return nil, translateConflict(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateConflict(err)
	}

	o.Status = domain.OrderStatusCancelled
	r.logger.Printf("order repo: cancelled order=%s user=%s", o.PublicID, userID)
	return &o, nil
}

func loadCartLines(ctx context.Context, tx pgx.Tx, cartID string) ([]pricedLine, error) {
	// Prices are read here, before any mutation, inside the checkout
	// transaction; they become the order's permanent snapshot.
	rows, err := tx.Query(ctx, `
SELECT cl.product_id::text, p.name, cl.quantity, p.price_cents
FROM cart_lines cl
JOIN products p ON p.id = cl.product_id
WHERE cl.cart_id = $1
ORDER BY cl.added_at ASC, cl.id ASC
`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []pricedLine
	for rows.Next() {
		var l pricedLine
		if err := rows.Scan(&l.productID, &l.productName, &l.quantity, &l.priceCents); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// translateConflict maps serialization and deadlock failures onto
// domain.ErrConflict so callers can retry a bounded number of times.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return domain.ErrConflict
	}
	return err
}

func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
