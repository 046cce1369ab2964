package postgres

import (
	"context"
	"fmt"
)

// schemaDDL crea las tablas del kardex si no existen. Cantidades y costos en NUMERIC(20,6).
const schemaDDL = `
CREATE TABLE IF NOT EXISTS inventory_movements (
	id            BIGSERIAL PRIMARY KEY,
	unique_key    TEXT NOT NULL UNIQUE,
	product_key   TEXT NOT NULL,
	product_code  TEXT NOT NULL DEFAULT '',
	product_desc  TEXT NOT NULL DEFAULT '',
	date          TEXT NOT NULL,
	type          TEXT NOT NULL CHECK (type IN ('IN', 'OUT', 'ADJUST')),
	qty           NUMERIC(20,6) NOT NULL CHECK (qty > 0),
	unit_cost     NUMERIC(20,6) NOT NULL DEFAULT 0,
	source        TEXT NOT NULL CHECK (source IN ('purchase_doc', 'sale_doc', 'manual')),
	doc_ref       TEXT NOT NULL,
	ts            BIGINT NOT NULL,
	provider_name TEXT NOT NULL DEFAULT '',
	provider_nit  TEXT NOT NULL DEFAULT '',
	lot_date      TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_inventory_movements_product_ts ON inventory_movements (product_key, ts);
CREATE INDEX IF NOT EXISTS idx_inventory_movements_doc_source ON inventory_movements (doc_ref, source);
CREATE INDEX IF NOT EXISTS idx_inventory_movements_source_ts ON inventory_movements (source, ts DESC);

CREATE TABLE IF NOT EXISTS inventory_stock (
	product_key  TEXT PRIMARY KEY,
	product_code TEXT NOT NULL DEFAULT '',
	product_desc TEXT NOT NULL DEFAULT '',
	on_hand      NUMERIC(20,6) NOT NULL,
	avg_cost     NUMERIC(20,6) NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS catalog_products (
	code            TEXT PRIMARY KEY,
	description     TEXT NOT NULL,
	normalized_desc TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_catalog_products_normalized_desc ON catalog_products (normalized_desc);
`

// EnsureSchema aplica el DDL idempotente.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
