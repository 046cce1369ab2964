package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-pos/internal/application/dto"
	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-pos/internal/domain/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

// Options configuración del motor de inventario.
type Options struct {
	// AllowNegativeStock permite que una venta deje existencias negativas (comportamiento histórico).
	// Los ajustes manuales de salida nunca lo permiten.
	AllowNegativeStock bool
	// Now reloj inyectable; nil = time.Now.
	Now func() time.Time
}

// KardexUseCase orquesta el kardex: importación de compras, ventas, reversiones y ajustes manuales.
// No guarda estado de sesión: cada operación recibe toda la información como argumentos.
type KardexUseCase struct {
	txRunner TxRunner
	catalog  Catalog
	validate *validator.Validate
	allowNeg bool
	now      func() time.Time
	log      zerolog.Logger
}

// NewKardexUseCase construye el caso de uso.
func NewKardexUseCase(txRunner TxRunner, catalog Catalog, opts Options, log zerolog.Logger) *KardexUseCase {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &KardexUseCase{
		txRunner: txRunner,
		catalog:  catalog,
		validate: newValidator(),
		allowNeg: opts.AllowNegativeStock,
		now:      now,
		log:      log.With().Str("component", "kardex").Logger(),
	}
}

// GetAllStock devuelve la proyección de stock completa, ordenada por código.
func (uc *KardexUseCase) GetAllStock(ctx context.Context) ([]entity.StockSnapshot, error) {
	var list []entity.StockSnapshot
	err := uc.txRunner.View(ctx, func(_ repository.MovementRepository, stockRepo repository.StockRepository) error {
		var err error
		list, err = stockRepo.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListMovements consulta el kardex por docRef, por producto o completo.
func (uc *KardexUseCase) ListMovements(ctx context.Context, filter dto.MovementFilter) ([]entity.Movement, error) {
	var list []entity.Movement
	err := uc.txRunner.View(ctx, func(movRepo repository.MovementRepository, _ repository.StockRepository) error {
		var err error
		switch {
		case filter.DocRef != "":
			list, err = movRepo.ListByDocRef(ctx, filter.DocRef)
		case filter.ProductKey != "":
			list, err = movRepo.ListByProductKey(ctx, filter.ProductKey)
		default:
			list, err = movRepo.ListAll(ctx)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ClearInventory borra kardex y proyección. Solo para un reinicio completo.
func (uc *KardexUseCase) ClearInventory(ctx context.Context) (dto.ClearResult, error) {
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockRepository) error {
		if err := movRepo.DeleteAll(ctx); err != nil {
			return err
		}
		return stockRepo.DeleteAll(ctx)
	})
	if err != nil {
		return dto.ClearResult{}, err
	}
	uc.log.Warn().Msg("inventario reiniciado")
	return dto.ClearResult{Outcome: dto.Outcome{OK: true}}, nil
}

// applyToStock pliega un movimiento recién anexado sobre la fila de stock del producto.
func applyToStock(ctx context.Context, stockRepo repository.StockRepository, m *entity.Movement, now time.Time) (*entity.StockSnapshot, error) {
	snap, err := stockRepo.Get(ctx, m.ProductKey)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		snap = &entity.StockSnapshot{ProductKey: m.ProductKey, OnHand: decimal.Zero, AvgCost: decimal.Zero}
	}
	pos := domaininv.Fold(domaininv.Position{OnHand: snap.OnHand, AvgCost: snap.AvgCost}, *m)
	snap.OnHand = pos.OnHand
	snap.AvgCost = pos.AvgCost
	snap.ProductCode = m.ProductCode
	if m.ProductDesc != "" {
		snap.ProductDesc = m.ProductDesc
	}
	snap.UpdatedAt = now
	if err := stockRepo.Put(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// failure convierte un error de negocio en un Outcome; los errores de almacenamiento no son de negocio.
func failure(err error) (dto.Outcome, bool) {
	if code := domain.Code(err); code != "INTERNAL" {
		return dto.Outcome{OK: false, Code: code, Message: err.Error()}, true
	}
	return dto.Outcome{}, false
}

func docRefOrSentinel(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return entity.NoReferenceDocRef
	}
	return ref
}

func (uc *KardexUseCase) dateOrToday(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return uc.now().Format("2006-01-02")
	}
	return date
}

// describe resuelve la descripción canónica: catálogo por código, si no la de la línea, si no el código.
func (uc *KardexUseCase) describe(ctx context.Context, code, lineDesc string) (string, error) {
	p, err := uc.catalog.FindByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if p != nil && strings.TrimSpace(p.Description) != "" {
		return strings.TrimSpace(p.Description), nil
	}
	if d := strings.TrimSpace(lineDesc); d != "" {
		return d, nil
	}
	return code, nil
}

func label(desc, code string) string {
	if desc == "" || desc == code {
		return code
	}
	return desc + " (" + code + ")"
}
