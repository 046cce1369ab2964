package repository

import (
	"context"

	"github.com/jhoicas/kardex-pos/internal/domain/entity"
)

// StockRepository define el puerto clave-valor para la proyección de stock por producto.
// Nunca calcula valores por sí mismo.
type StockRepository interface {
	// Get devuelve nil si el producto no tiene fila.
	Get(ctx context.Context, productKey string) (*entity.StockSnapshot, error)
	Put(ctx context.Context, snapshot *entity.StockSnapshot) error
	Delete(ctx context.Context, productKey string) error
	List(ctx context.Context) ([]entity.StockSnapshot, error)
	DeleteAll(ctx context.Context) error
}
