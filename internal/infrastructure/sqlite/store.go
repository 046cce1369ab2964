// Package sqlite implementa el kardex sobre SQLite para cajas sin servidor de base de datos.
//
// Decimales y fechas se guardan como TEXT: NUMERIC de SQLite los convertiría a punto flotante.
// Todas las operaciones pasan por una única conexión; Run toma el mutex de escritura.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jhoicas/kardex-pos/internal/application/inventory"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store kardex y catálogo sobre un archivo SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New abre (o crea) la base en dbPath. Use ":memory:" para una base efímera.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return s, nil
}

// Close cierra la conexión.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS inventory_movements (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		unique_key    TEXT NOT NULL UNIQUE,
		product_key   TEXT NOT NULL,
		product_code  TEXT NOT NULL DEFAULT '',
		product_desc  TEXT NOT NULL DEFAULT '',
		date          TEXT NOT NULL,
		type          TEXT NOT NULL CHECK (type IN ('IN', 'OUT', 'ADJUST')),
		qty           TEXT NOT NULL,
		unit_cost     TEXT NOT NULL,
		source        TEXT NOT NULL CHECK (source IN ('purchase_doc', 'sale_doc', 'manual')),
		doc_ref       TEXT NOT NULL,
		ts            INTEGER NOT NULL,
		provider_name TEXT NOT NULL DEFAULT '',
		provider_nit  TEXT NOT NULL DEFAULT '',
		lot_date      TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_inventory_movements_product_ts ON inventory_movements(product_key, ts);
	CREATE INDEX IF NOT EXISTS idx_inventory_movements_doc_source ON inventory_movements(doc_ref, source);
	CREATE INDEX IF NOT EXISTS idx_inventory_movements_source_ts ON inventory_movements(source, ts);

	CREATE TABLE IF NOT EXISTS inventory_stock (
		product_key  TEXT PRIMARY KEY,
		product_code TEXT NOT NULL DEFAULT '',
		product_desc TEXT NOT NULL DEFAULT '',
		on_hand      TEXT NOT NULL,
		avg_cost     TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS catalog_products (
		code            TEXT PRIMARY KEY,
		description     TEXT NOT NULL,
		normalized_desc TEXT NOT NULL,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_catalog_products_normalized_desc ON catalog_products(normalized_desc);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Run ejecuta fn dentro de una transacción; un solo escritor a la vez.
func (s *Store) Run(ctx context.Context, fn inventory.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(ctx, fn, true)
}

// View ejecuta fn en una transacción que siempre se revierte.
func (s *Store) View(ctx context.Context, fn inventory.TxFunc) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inTx(ctx, fn, false)
}

func (s *Store) inTx(ctx context.Context, fn inventory.TxFunc, commit bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&MovementRepo{q: tx}, &StockRepo{q: tx}); err != nil {
		return err
	}
	if !commit {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Products catálogo persistido en la misma base.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{q: s.db}
}

// querier lo cumplen *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
