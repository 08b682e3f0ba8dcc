package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	ErrNotFound = errors.New("not found")
	// ErrForeignRef is returned when a write names a billboard, category, color
	// or size that does not belong to the row's store.
	ErrForeignRef = errors.New("reference outside store")
)

// OpenDB connects with the given driver ("sqlite" or "postgres") and makes sure the schema exists.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite" && !strings.Contains(dsn, "foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// one connection keeps :memory: databases and the foreign_keys pragma stable
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email));

-- Stores are owned by an identity; user_id is the token subject, not a local FK.
CREATE TABLE IF NOT EXISTS stores(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  user_id TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stores_user ON stores(user_id);

CREATE TABLE IF NOT EXISTS billboards(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE RESTRICT,
  label TEXT NOT NULL,
  image_url TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_billboards_store ON billboards(store_id);

CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE RESTRICT,
  billboard_id TEXT NOT NULL REFERENCES billboards(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_categories_store ON categories(store_id);
CREATE INDEX IF NOT EXISTS idx_categories_billboard ON categories(billboard_id);

CREATE TABLE IF NOT EXISTS colors(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  value TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_colors_store ON colors(store_id);

CREATE TABLE IF NOT EXISTS sizes(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  value TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sizes_store ON sizes(store_id);

CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE RESTRICT,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  color_id TEXT NOT NULL REFERENCES colors(id) ON DELETE RESTRICT,
  size_id TEXT NOT NULL REFERENCES sizes(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price > 0),
  is_featured BOOLEAN NOT NULL DEFAULT FALSE,
  is_archived BOOLEAN NOT NULL DEFAULT FALSE,
  images_json TEXT NOT NULL DEFAULT '[]',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_store    ON products(store_id);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_color    ON products(color_id);
CREATE INDEX IF NOT EXISTS idx_products_size     ON products(size_id);
`
	if db.DriverName() == "sqlite" {
		schema = "PRAGMA foreign_keys = ON;\n" + schema
	}
	_, err := db.Exec(schema)
	return err
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// one maps sql.ErrNoRows to ErrNotFound.
func one(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ref names a row a write depends on. table is always a package constant.
type ref struct {
	table string
	id    string
}

// inStoreClause returns "EXISTS (...) AND EXISTS (...)" with its args, one
// EXISTS per ref, each scoped to storeID.
func inStoreClause(storeID string, refs ...ref) (string, []any) {
	parts := make([]string, 0, len(refs))
	args := make([]any, 0, 2*len(refs))
	for _, r := range refs {
		parts = append(parts, `EXISTS (SELECT 1 FROM `+r.table+` WHERE id = ? AND store_id = ?)`)
		args = append(args, r.id, storeID)
	}
	return strings.Join(parts, " AND "), args
}

// refsInStore reports whether every ref belongs to storeID.
func refsInStore(ctx context.Context, db *sqlx.DB, storeID string, refs ...ref) (bool, error) {
	clause, args := inStoreClause(storeID, refs...)
	var ok bool
	err := db.GetContext(ctx, &ok, db.Rebind(`SELECT CASE WHEN `+clause+` THEN TRUE ELSE FALSE END`), args...)
	return ok, err
}

// guarded turns the affected count of a write whose WHERE carries an
// inStoreClause into ErrForeignRef when the refs are the reason nothing matched.
func guarded(ctx context.Context, db *sqlx.DB, storeID string, n int64, err error, refs ...ref) (int64, error) {
	if err != nil || n > 0 {
		return n, err
	}
	ok, err := refsInStore(ctx, db, storeID, refs...)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrForeignRef
	}
	return 0, nil
}

func affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
