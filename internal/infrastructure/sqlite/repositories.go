package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

var (
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.StockRepository    = (*StockRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
)

const timeLayout = time.RFC3339Nano

const movementColumns = `id, unique_key, product_key, product_code, product_desc, date, type, qty, unit_cost,
	source, doc_ref, ts, provider_name, provider_nit, lot_date, created_at`

// MovementRepo kardex sobre SQLite.
type MovementRepo struct {
	q querier
}

func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO inventory_movements (unique_key, product_key, product_code, product_desc, date, type, qty, unit_cost,
			source, doc_ref, ts, provider_name, provider_nit, lot_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(unique_key) DO NOTHING`,
		m.UniqueKey, m.ProductKey, m.ProductCode, m.ProductDesc, m.Date, string(m.Type), m.Qty, m.UnitCost,
		string(m.Source), m.DocRef, m.Timestamp, m.ProviderName, m.ProviderNit, m.LotDate,
		m.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append movement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	if n == 0 {
		return domain.ErrDuplicate
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("append movement id: %w", err)
	}
	return nil
}

func (r *MovementRepo) ListByDocRef(ctx context.Context, docRef string) ([]entity.Movement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE doc_ref = ? ORDER BY ts`, docRef)
}

func (r *MovementRepo) ListByProductKey(ctx context.Context, productKey string) ([]entity.Movement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE product_key = ? ORDER BY ts`, productKey)
}

func (r *MovementRepo) ListAll(ctx context.Context) ([]entity.Movement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM inventory_movements ORDER BY ts`)
}

func (r *MovementRepo) LatestBySource(ctx context.Context, source entity.MovementSource) (*entity.Movement, error) {
	list, err := r.list(ctx,
		`SELECT `+movementColumns+` FROM inventory_movements WHERE source = ? ORDER BY ts DESC LIMIT 1`, string(source))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func (r *MovementRepo) MaxTimestamp(ctx context.Context) (int64, error) {
	var ts int64
	if err := r.q.QueryRowContext(ctx, `SELECT COALESCE(MAX(ts), 0) FROM inventory_movements`).Scan(&ts); err != nil {
		return 0, fmt.Errorf("max timestamp: %w", err)
	}
	return ts, nil
}

func (r *MovementRepo) DeleteByDocRef(ctx context.Context, docRef string, source entity.MovementSource) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM inventory_movements WHERE doc_ref = ? AND source = ?`, docRef, string(source))
	if err != nil {
		return 0, fmt.Errorf("delete movements: %w", err)
	}
	return res.RowsAffected()
}

func (r *MovementRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM inventory_movements`); err != nil {
		return fmt.Errorf("delete all movements: %w", err)
	}
	return nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]entity.Movement, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	var list []entity.Movement
	for rows.Next() {
		var (
			m            entity.Movement
			typ, source  string
			createdAtRaw string
		)
		if err := rows.Scan(&m.ID, &m.UniqueKey, &m.ProductKey, &m.ProductCode, &m.ProductDesc, &m.Date, &typ,
			&m.Qty, &m.UnitCost, &source, &m.DocRef, &m.Timestamp, &m.ProviderName, &m.ProviderNit,
			&m.LotDate, &createdAtRaw); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		m.Source = entity.MovementSource(source)
		m.CreatedAt, _ = time.Parse(timeLayout, createdAtRaw)
		list = append(list, m)
	}
	return list, rows.Err()
}

// StockRepo proyección de stock sobre SQLite.
type StockRepo struct {
	q querier
}

func (r *StockRepo) Get(ctx context.Context, productKey string) (*entity.StockSnapshot, error) {
	var (
		s         entity.StockSnapshot
		updatedAt string
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT product_key, product_code, product_desc, on_hand, avg_cost, updated_at
		FROM inventory_stock WHERE product_key = ?`, productKey).
		Scan(&s.ProductKey, &s.ProductCode, &s.ProductDesc, &s.OnHand, &s.AvgCost, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	s.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &s, nil
}

func (r *StockRepo) Put(ctx context.Context, s *entity.StockSnapshot) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO inventory_stock (product_key, product_code, product_desc, on_hand, avg_cost, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(product_key) DO UPDATE SET product_code = excluded.product_code,
			product_desc = excluded.product_desc, on_hand = excluded.on_hand,
			avg_cost = excluded.avg_cost, updated_at = excluded.updated_at`,
		s.ProductKey, s.ProductCode, s.ProductDesc, s.OnHand, s.AvgCost, s.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("put stock: %w", err)
	}
	return nil
}

func (r *StockRepo) Delete(ctx context.Context, productKey string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM inventory_stock WHERE product_key = ?`, productKey); err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

func (r *StockRepo) List(ctx context.Context) ([]entity.StockSnapshot, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT product_key, product_code, product_desc, on_hand, avg_cost, updated_at
		FROM inventory_stock ORDER BY product_key`)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []entity.StockSnapshot
	for rows.Next() {
		var (
			s         entity.StockSnapshot
			updatedAt string
		)
		if err := rows.Scan(&s.ProductKey, &s.ProductCode, &s.ProductDesc, &s.OnHand, &s.AvgCost, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		s.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *StockRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM inventory_stock`); err != nil {
		return fmt.Errorf("delete all stock: %w", err)
	}
	return nil
}

// ProductRepo catálogo sobre SQLite.
type ProductRepo struct {
	q querier
}

func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO catalog_products (code, description, normalized_desc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET description = excluded.description,
			normalized_desc = excluded.normalized_desc, updated_at = excluded.updated_at`,
		p.Code, p.Description, p.NormalizedDesc, p.CreatedAt.UTC().Format(timeLayout), p.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.one(ctx, `SELECT code, description, normalized_desc, created_at, updated_at
		FROM catalog_products WHERE code = ?`, code)
}

func (r *ProductRepo) FindByNormalizedDescription(ctx context.Context, normalized string) (*entity.Product, error) {
	return r.one(ctx, `SELECT code, description, normalized_desc, created_at, updated_at
		FROM catalog_products WHERE normalized_desc = ? ORDER BY code LIMIT 1`, normalized)
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT code, description, normalized_desc, created_at, updated_at
		FROM catalog_products ORDER BY code LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) one(ctx context.Context, query, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		p                    entity.Product
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.Code, &p.Description, &p.NormalizedDesc, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	p.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &p, nil
}
