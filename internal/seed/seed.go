package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name       string
	PriceCents int64
	Stock      int
	Category   string
}

// Apply inserts sample categories and products for manual testing. It is
// idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := []string{"Electronics", "Books", "Clothing", "Home & Kitchen", "Toys & Games"}
	categoryIDs := make(map[string]string, len(categories))
	for _, name := range categories {
		id, err := ensureCategory(ctx, pool, name)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", name, err)
		}
		categoryIDs[name] = id
	}

	products := []productSeed{
		{Name: "Wireless Headphones", PriceCents: 5999, Stock: 20, Category: "Electronics"},
		{Name: "Smartphone", PriceCents: 39999, Stock: 25, Category: "Electronics"},
		{Name: "Laptop", PriceCents: 99999, Stock: 8, Category: "Electronics"},
		{Name: "Digital Camera", PriceCents: 54999, Stock: 12, Category: "Electronics"},
		{Name: "Python Programming Book", PriceCents: 2999, Stock: 15, Category: "Books"},
		{Name: "E-reader", PriceCents: 12999, Stock: 20, Category: "Books"},
		{Name: "Cookbook", PriceCents: 2499, Stock: 18, Category: "Books"},
		{Name: "Men's T-Shirt", PriceCents: 1999, Stock: 30, Category: "Clothing"},
		{Name: "Jeans", PriceCents: 4999, Stock: 22, Category: "Clothing"},
		{Name: "Jacket", PriceCents: 7999, Stock: 15, Category: "Clothing"},
		{Name: "Sneakers", PriceCents: 6999, Stock: 20, Category: "Clothing"},
		{Name: "Blender 3000", PriceCents: 8999, Stock: 10, Category: "Home & Kitchen"},
		{Name: "Coffee Maker", PriceCents: 9999, Stock: 10, Category: "Home & Kitchen"},
		{Name: "Vacuum Cleaner", PriceCents: 14999, Stock: 8, Category: "Home & Kitchen"},
		{Name: "Desk Chair", PriceCents: 11999, Stock: 14, Category: "Home & Kitchen"},
		{Name: "Action Figure", PriceCents: 2499, Stock: 30, Category: "Toys & Games"},
		{Name: "Board Game", PriceCents: 3999, Stock: 25, Category: "Toys & Games"},
		{Name: "Toy Train", PriceCents: 4999, Stock: 20, Category: "Toys & Games"},
		{Name: "Puzzle Set", PriceCents: 1999, Stock: 28, Category: "Toys & Games"},
		{Name: "Yoga Mat", PriceCents: 2999, Stock: 20, Category: "Toys & Games"},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, categoryIDs[p.Category], p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	const q = `
INSERT INTO categories (name, slug)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET slug = EXCLUDED.slug
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, name, slugify(name)).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, p productSeed) error {
	const q = `
INSERT INTO products (category_id, name, slug, description, price_cents, stock, active)
VALUES ($1, $2, $3, $4, $5, $6, true)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    category_id = EXCLUDED.category_id,
    updated_at = now()
`
	_, err := pool.Exec(ctx, q, categoryID, p.Name, slugify(p.Name), "This is a "+p.Name+".", p.PriceCents, p.Stock)
	return err
}

func slugify(name string) string {
	s := strings.ToLower(name)
	replacer := strings.NewReplacer(" & ", "-", " ", "-", "'", "")
	return replacer.Replace(s)
}
