package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"shop-backend/internal/domain"
	"shop-backend/internal/migrate"

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

func seedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	var categoryID string
	if err := pool.QueryRow(ctx, `
INSERT INTO categories (name, slug) VALUES ('Tea', 'tea')
RETURNING id::text
`).Scan(&categoryID); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	rows := []struct {
		name, slug string
		price      int64
		active     bool
	}{
		{"Green Tea", "green-tea", 1200, true},
		{"Black Tea", "black-tea", 900, true},
		{"Herbal Tea", "herbal-tea", 1500, true},
		{"Discontinued Tea", "discontinued-tea", 100, false},
	}
	for _, r := range rows {
		if _, err := pool.Exec(ctx, `
INSERT INTO products (category_id, name, slug, price_cents, stock, active)
VALUES ($1, $2, $3, $4, 10, $5)
`, categoryID, r.name, r.slug, r.price, r.active); err != nil {
			t.Fatalf("seed product %s: %v", r.slug, err)
		}
	}
}

func TestListFiltersInactiveAndSearches(t *testing.T) {
	pool := testPool(t)
	seedCatalog(t, pool)
	repo := NewPostgres(pool, nil)
	ctx := context.Background()

	all, err := repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("inactive products must be hidden, got %d", len(all))
	}

	matched, err := repo.List(ctx, ListFilter{Search: "green"})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if len(matched) != 1 || matched[0].Slug != "green-tea" {
		t.Fatalf("case-insensitive search failed: %+v", matched)
	}
}

func TestListSortsByPrice(t *testing.T) {
	pool := testPool(t)
	seedCatalog(t, pool)
	repo := NewPostgres(pool, nil)
	ctx := context.Background()

	asc, err := repo.List(ctx, ListFilter{Sort: "price"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if asc[0].Slug != "black-tea" || asc[len(asc)-1].Slug != "herbal-tea" {
		t.Fatalf("ascending price order wrong: %v", slugs(asc))
	}

	desc, err := repo.List(ctx, ListFilter{Sort: "-price"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if desc[0].Slug != "herbal-tea" {
		t.Fatalf("descending price order wrong: %v", slugs(desc))
	}
}

func slugs(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Slug
	}
	return out
}

func TestGetBySlug(t *testing.T) {
	pool := testPool(t)
	seedCatalog(t, pool)
	repo := NewPostgres(pool, nil)
	ctx := context.Background()

	p, err := repo.GetBySlug(ctx, "green-tea")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if p.Name != "Green Tea" || p.PriceCents != 1200 {
		t.Fatalf("unexpected product: %+v", p)
	}

	if _, err := repo.GetBySlug(ctx, "discontinued-tea"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("inactive product must look absent, got %v", err)
	}
	if _, err := repo.GetBySlug(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByIDMalformed(t *testing.T) {
	pool := testPool(t)
	seedCatalog(t, pool)
	repo := NewPostgres(pool, nil)

	if _, err := repo.GetByID(context.Background(), "not-a-uuid"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("malformed id must map to ErrNotFound, got %v", err)
	}
}
