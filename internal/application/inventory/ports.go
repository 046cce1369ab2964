package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

// TxFunc trabajo atómico sobre el kardex y la proyección de stock atados a la misma transacción.
type TxFunc func(movRepo repository.MovementRepository, stockRepo repository.StockRepository) error

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: o se confirma todo (kardex + proyección) o nada.
type TxRunner interface {
	// Run abre una transacción de escritura; los escritores se serializan (modelo de escritor único).
	Run(ctx context.Context, fn TxFunc) error
	// View abre una transacción de solo lectura con una instantánea consistente.
	View(ctx context.Context, fn TxFunc) error
}

// Catalog colaborador externo: catálogo de productos.
type Catalog interface {
	FindByCode(ctx context.Context, code string) (*entity.Product, error)
	FindByDescription(ctx context.Context, description string) (*entity.Product, error)
}

// StockReportGenerator genera el informe de valorización (PDF) a partir de la proyección de stock.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, rows []entity.StockSnapshot, cutoff time.Time) ([]byte, error)
}
