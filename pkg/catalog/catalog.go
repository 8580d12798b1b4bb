// Package catalog reads the tracked-product list from PostgreSQL. The
// table is treated as read-only during a check run.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"stock-hunter/pkg/models"
)

type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL, waits for the database to become reachable,
// and runs the schema migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: ping failed after retries: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id             SERIAL PRIMARY KEY,
			name           TEXT NOT NULL,
			url            TEXT UNIQUE NOT NULL,
			product_id     TEXT NOT NULL DEFAULT '',
			store_type     VARCHAR(32) NOT NULL,
			affiliate_link TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_products_store_type ON products(store_type);
	`)
	return err
}

// Products returns every tracked product. Rows with a store type outside
// the known set are kept — the runner decides how to handle them.
func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, url, product_id, store_type, affiliate_link
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var storeType string
		if err := rows.Scan(&p.Name, &p.URL, &p.ProductID, &storeType, &p.AffiliateLink); err != nil {
			return nil, fmt.Errorf("catalog: scan row: %w", err)
		}
		p.StoreType = models.StoreType(storeType)
		products = append(products, p)
	}

	log.Printf("[catalog] Loaded %d products", len(products))
	return products, rows.Err()
}

// Add upserts a product by URL so the tracked list can be maintained
// without touching the database by hand.
func (s *Store) Add(ctx context.Context, p models.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, url, product_id, store_type, affiliate_link)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (url) DO UPDATE SET
			name = excluded.name,
			product_id = excluded.product_id,
			store_type = excluded.store_type,
			affiliate_link = excluded.affiliate_link
	`, p.Name, p.URL, p.ProductID, string(p.StoreType), p.AffiliateLink)
	if err != nil {
		return fmt.Errorf("catalog: add %s: %w", p.URL, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
