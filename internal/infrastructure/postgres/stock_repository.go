package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la fila de stock del producto; nil si no existe.
func (r *StockRepo) Get(ctx context.Context, productKey string) (*entity.StockSnapshot, error) {
	query := `
		SELECT product_key, product_code, product_desc, on_hand, avg_cost, updated_at
		FROM inventory_stock WHERE product_key = $1`
	var s entity.StockSnapshot
	err := r.q.QueryRow(ctx, query, productKey).Scan(
		&s.ProductKey, &s.ProductCode, &s.ProductDesc, &s.OnHand, &s.AvgCost, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Put inserta o reemplaza la fila de stock del producto.
func (r *StockRepo) Put(ctx context.Context, s *entity.StockSnapshot) error {
	query := `
		INSERT INTO inventory_stock (product_key, product_code, product_desc, on_hand, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_key)
		DO UPDATE SET product_code = EXCLUDED.product_code, product_desc = EXCLUDED.product_desc,
			on_hand = EXCLUDED.on_hand, avg_cost = EXCLUDED.avg_cost, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, s.ProductKey, s.ProductCode, s.ProductDesc, s.OnHand, s.AvgCost, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put stock: %w", err)
	}
	return nil
}

// Delete elimina la fila del producto (sin error si no existe).
func (r *StockRepo) Delete(ctx context.Context, productKey string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_stock WHERE product_key = $1`, productKey); err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

// List devuelve todas las filas ordenadas por clave de producto.
func (r *StockRepo) List(ctx context.Context) ([]entity.StockSnapshot, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_key, product_code, product_desc, on_hand, avg_cost, updated_at
		FROM inventory_stock ORDER BY product_key`)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []entity.StockSnapshot
	for rows.Next() {
		var s entity.StockSnapshot
		if err := rows.Scan(&s.ProductKey, &s.ProductCode, &s.ProductDesc, &s.OnHand, &s.AvgCost, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeleteAll vacía la proyección.
func (r *StockRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_stock`); err != nil {
		return fmt.Errorf("delete all stock: %w", err)
	}
	return nil
}
