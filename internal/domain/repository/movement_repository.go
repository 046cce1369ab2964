package repository

import (
	"context"

	"github.com/jhoicas/kardex-pos/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del kardex (libro de movimientos, solo anexar).
// No expone actualización: las correcciones son movimientos compensatorios o reversiones completas.
type MovementRepository interface {
	// Append inserta el movimiento; devuelve domain.ErrDuplicate sin efectos si UniqueKey ya existe.
	Append(ctx context.Context, m *entity.Movement) error
	ListByDocRef(ctx context.Context, docRef string) ([]entity.Movement, error)
	// ListByProductKey devuelve los movimientos del producto ordenados por Timestamp ascendente.
	ListByProductKey(ctx context.Context, productKey string) ([]entity.Movement, error)
	ListAll(ctx context.Context) ([]entity.Movement, error)
	// LatestBySource devuelve el movimiento más reciente (por Timestamp) de la procedencia, o nil.
	LatestBySource(ctx context.Context, source entity.MovementSource) (*entity.Movement, error)
	MaxTimestamp(ctx context.Context) (int64, error)
	// DeleteByDocRef borra el grupo completo (docRef + source); solo lo usa el motor de reversión.
	DeleteByDocRef(ctx context.Context, docRef string, source entity.MovementSource) (int64, error)
	DeleteAll(ctx context.Context) error
}
