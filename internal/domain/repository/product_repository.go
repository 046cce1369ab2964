package repository

import (
	"context"

	"github.com/jhoicas/kardex-pos/internal/domain/entity"
)

// ProductRepository define el puerto del catálogo de productos (DIP).
type ProductRepository interface {
	Upsert(ctx context.Context, product *entity.Product) error
	// GetByCode devuelve nil si el código no existe.
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// FindByNormalizedDescription busca por descripción ya normalizada; nil si no hay coincidencia.
	FindByNormalizedDescription(ctx context.Context, normalized string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
