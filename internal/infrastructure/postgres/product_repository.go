package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del catálogo sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Upsert crea el producto o actualiza su descripción; conserva created_at.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO catalog_products (code, description, normalized_desc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code)
		DO UPDATE SET description = EXCLUDED.description, normalized_desc = EXCLUDED.normalized_desc,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at`
	if err := r.q.QueryRow(ctx, query, p.Code, p.Description, p.NormalizedDesc, p.CreatedAt, p.UpdatedAt).
		Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.one(ctx, `
		SELECT code, description, normalized_desc, created_at, updated_at
		FROM catalog_products WHERE code = $1`, code)
}

// FindByNormalizedDescription devuelve la primera coincidencia exacta (por código) o nil.
func (r *ProductRepo) FindByNormalizedDescription(ctx context.Context, normalized string) (*entity.Product, error) {
	return r.one(ctx, `
		SELECT code, description, normalized_desc, created_at, updated_at
		FROM catalog_products WHERE normalized_desc = $1 ORDER BY code LIMIT 1`, normalized)
}

// List lista productos por código con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT code, description, normalized_desc, created_at, updated_at
		FROM catalog_products ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.Code, &p.Description, &p.NormalizedDesc, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) one(ctx context.Context, query string, arg string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, arg).Scan(&p.Code, &p.Description, &p.NormalizedDesc, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}
