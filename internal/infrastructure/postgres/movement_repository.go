package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, unique_key, product_key, product_code, product_desc, date, type, qty, unit_cost,
	source, doc_ref, ts, provider_name, provider_nit, lot_date, created_at`

// MovementRepo implementación del kardex sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el movimiento. ON CONFLICT evita abortar la tx cuando la clave única ya existe.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (unique_key, product_key, product_code, product_desc, date, type, qty, unit_cost,
			source, doc_ref, ts, provider_name, provider_nit, lot_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (unique_key) DO NOTHING
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		m.UniqueKey, m.ProductKey, m.ProductCode, m.ProductDesc, m.Date, string(m.Type), m.Qty, m.UnitCost,
		string(m.Source), m.DocRef, m.Timestamp, m.ProviderName, m.ProviderNit, m.LotDate,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrDuplicate
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// ListByDocRef lista todos los movimientos de un documento (cualquier procedencia).
func (r *MovementRepo) ListByDocRef(ctx context.Context, docRef string) ([]entity.Movement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE doc_ref = $1 ORDER BY ts`, docRef)
}

// ListByProductKey lista el historial del producto en orden de escritura.
func (r *MovementRepo) ListByProductKey(ctx context.Context, productKey string) ([]entity.Movement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE product_key = $1 ORDER BY ts`, productKey)
}

// ListAll devuelve el kardex completo.
func (r *MovementRepo) ListAll(ctx context.Context) ([]entity.Movement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM inventory_movements ORDER BY ts`)
}

// LatestBySource devuelve el último movimiento escrito con la procedencia dada.
func (r *MovementRepo) LatestBySource(ctx context.Context, source entity.MovementSource) (*entity.Movement, error) {
	list, err := r.list(ctx,
		`SELECT `+movementColumns+` FROM inventory_movements WHERE source = $1 ORDER BY ts DESC LIMIT 1`, string(source))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// MaxTimestamp devuelve el mayor marcador de orden persistido (0 si el kardex está vacío).
func (r *MovementRepo) MaxTimestamp(ctx context.Context) (int64, error) {
	var ts int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(ts), 0) FROM inventory_movements`).Scan(&ts); err != nil {
		return 0, fmt.Errorf("max timestamp: %w", err)
	}
	return ts, nil
}

// DeleteByDocRef elimina el grupo (docRef, source) y devuelve cuántas filas borró.
func (r *MovementRepo) DeleteByDocRef(ctx context.Context, docRef string, source entity.MovementSource) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM inventory_movements WHERE doc_ref = $1 AND source = $2`, docRef, string(source))
	if err != nil {
		return 0, fmt.Errorf("delete movements: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// DeleteAll vacía el kardex.
func (r *MovementRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_movements`); err != nil {
		return fmt.Errorf("delete all movements: %w", err)
	}
	return nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []entity.Movement
	for rows.Next() {
		var m entity.Movement
		var typ, source string
		if err := rows.Scan(&m.ID, &m.UniqueKey, &m.ProductKey, &m.ProductCode, &m.ProductDesc, &m.Date, &typ,
			&m.Qty, &m.UnitCost, &source, &m.DocRef, &m.Timestamp, &m.ProviderName, &m.ProviderNit,
			&m.LotDate, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		m.Source = entity.MovementSource(source)
		list = append(list, m)
	}
	return list, rows.Err()
}
