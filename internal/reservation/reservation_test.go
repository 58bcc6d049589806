package reservation

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"shop-backend/internal/domain"
	"shop-backend/internal/migrate"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, orders, cart_lines, carts, tokens, users, products, categories CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, slug string, priceCents int64, stock int) string {
	t.Helper()
	ctx := context.Background()
	var categoryID string
	err := pool.QueryRow(ctx, `
INSERT INTO categories (name, slug) VALUES ('Fixtures', 'fixtures')
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`).Scan(&categoryID)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	var id string
	err = pool.QueryRow(ctx, `
INSERT INTO products (category_id, name, slug, price_cents, stock)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`, categoryID, slug, slug, priceCents, stock).Scan(&id)
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return id
}

func stockOf(t *testing.T, pool *pgxpool.Pool, productID string) int {
	t.Helper()
	var stock int
	if err := pool.QueryRow(context.Background(), `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return stock
}

func TestReserveDecrementsStock(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	productID := seedProduct(t, pool, "reserve-ok", 1500, 10)

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := Reserve(ctx, tx, []Demand{{ProductID: productID, Quantity: 4}}); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if got := stockOf(t, pool, productID); got != 6 {
		t.Fatalf("stock = %d, want 6", got)
	}
}

func TestReserveInsufficientStockAbortsBatch(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	okID := seedProduct(t, pool, "reserve-batch-ok", 1500, 10)
	shortID := seedProduct(t, pool, "reserve-batch-short", 1500, 2)

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	err = Reserve(ctx, tx, []Demand{
		{ProductID: okID, Quantity: 3},
		{ProductID: shortID, Quantity: 5},
	})
	var stockErr *domain.StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockError, got %v", err)
	}
	if stockErr.ProductID != shortID || stockErr.Requested != 5 || stockErr.Available != 2 {
		t.Fatalf("unexpected stock error details: %+v", stockErr)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	// Rollback discards the partial decrement of the first product.
	if got := stockOf(t, pool, okID); got != 10 {
		t.Fatalf("first product stock = %d, want 10 after rollback", got)
	}
	if got := stockOf(t, pool, shortID); got != 2 {
		t.Fatalf("second product stock = %d, want 2", got)
	}
}

func TestReserveUnknownProduct(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	err = Reserve(ctx, tx, []Demand{{ProductID: "00000000-0000-0000-0000-000000000000", Quantity: 1}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	productID := seedProduct(t, pool, "reserve-qty", 1500, 10)

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	if err := Reserve(ctx, tx, []Demand{{ProductID: productID, Quantity: 0}}); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestReleaseRestoresStock(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	productID := seedProduct(t, pool, "release-ok", 1500, 6)

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := Release(ctx, tx, []Demand{{ProductID: productID, Quantity: 4}}); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if got := stockOf(t, pool, productID); got != 10 {
		t.Fatalf("stock = %d, want 10", got)
	}
}

// Two transactions race for the last unit; the conditional update
// guarantees exactly one wins and stock never goes negative.
func TestConcurrentReserveSingleWinner(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	productID := seedProduct(t, pool, "reserve-race", 1500, 1)

	reserveOne := func() error {
		tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)
		if err := Reserve(ctx, tx, []Demand{{ProductID: productID, Quantity: 1}}); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = reserveOne()
		}(i)
	}
	wg.Wait()

	var successes, stockFailures int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrInsufficientStock):
			stockFailures++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || stockFailures != 1 {
		t.Fatalf("expected exactly one winner, got successes=%d stockFailures=%d", successes, stockFailures)
	}
	if got := stockOf(t, pool, productID); got != 0 {
		t.Fatalf("stock = %d, want 0", got)
	}
}
