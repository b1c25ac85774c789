package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/chargematch/backend/internal/domain"
)

// CatalogStore is the sqlite-backed product catalog
type CatalogStore struct {
	conn *sql.DB
}

// Open opens (creating if needed) the catalog database at path
func Open(path string) (*CatalogStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	store := &CatalogStore{conn: conn}
	if err := store.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database
func (s *CatalogStore) Close() error {
	return s.conn.Close()
}

func (s *CatalogStore) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  voltage INTEGER,
  amperage INTEGER,
  phase TEXT,
  sku TEXT NOT NULL DEFAULT '',
  price REAL,
  image_url TEXT NOT NULL DEFAULT '',
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`
	_, err := s.conn.Exec(schema)
	return err
}

// UpsertProducts inserts or replaces products in one transaction
func (s *CatalogStore) UpsertProducts(ctx context.Context, products []domain.ProductRecord) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO products (
  id, slug, name, description, category, voltage, amperage, phase, sku, price, image_url, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
  slug=excluded.slug,
  name=excluded.name,
  description=excluded.description,
  category=excluded.category,
  voltage=excluded.voltage,
  amperage=excluded.amperage,
  phase=excluded.phase,
  sku=excluded.sku,
  price=excluded.price,
  image_url=excluded.image_url,
  updated_at=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Slug, p.Name, p.Description, p.Category,
			nullInt(p.Voltage), nullInt(p.Amperage), nullPhase(p.Phase),
			p.SKU, nullFloat(p.Price), p.ImageURL,
		); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// ListProducts returns products ordered by slug then id. An empty category
// lists the whole catalog; categories compare case-insensitively.
func (s *CatalogStore) ListProducts(ctx context.Context, category string) ([]domain.ProductRecord, error) {
	query := `
SELECT id, slug, name, description, category, voltage, amperage, phase, sku, price, image_url
FROM products`
	var args []any
	if category != "" {
		query += ` WHERE category = ? COLLATE NOCASE`
		args = append(args, category)
	}
	query += ` ORDER BY slug, id`

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ProductRecord{}
	for rows.Next() {
		var (
			p        domain.ProductRecord
			voltage  sql.NullInt64
			amperage sql.NullInt64
			phase    sql.NullString
			price    sql.NullFloat64
		)
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.Name, &p.Description, &p.Category,
			&voltage, &amperage, &phase, &p.SKU, &price, &p.ImageURL,
		); err != nil {
			return nil, err
		}
		if voltage.Valid {
			p.Voltage = domain.IntPtr(int(voltage.Int64))
		}
		if amperage.Valid {
			p.Amperage = domain.IntPtr(int(amperage.Int64))
		}
		if phase.Valid {
			if parsed, ok := domain.ParsePhase(phase.String); ok {
				p.Phase = domain.PhasePtr(parsed)
			}
		}
		if price.Valid {
			v := price.Float64
			p.Price = &v
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// CountProducts returns the number of stored products
func (s *CatalogStore) CountProducts(ctx context.Context) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullPhase(p *domain.Phase) any {
	if p == nil {
		return nil
	}
	return string(*p)
}
