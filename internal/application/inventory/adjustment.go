package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-pos/internal/application/dto"
	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-pos/internal/domain/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

// defaultAdjustmentReason motivo usado cuando el operador no indica uno.
const defaultAdjustmentReason = "ajuste"

// ApplyManualAdjustment registra un movimiento manual de entrada o salida (conteo físico, corrección).
// A diferencia de las ventas no hay validación previa separada, así que una salida nunca puede
// dejar existencias negativas. No tiene reversión: se compensa con un ajuste en sentido contrario.
func (uc *KardexUseCase) ApplyManualAdjustment(ctx context.Context, in dto.ManualAdjustmentRequest) (dto.AdjustmentResult, error) {
	in.Qty = domaininv.Round(in.Qty)
	if in.UnitCost != nil {
		cost := domaininv.Round(*in.UnitCost)
		in.UnitCost = &cost
	}
	dir, err := uc.validateAdjustment(in)
	if err != nil {
		out, _ := failure(err)
		return dto.AdjustmentResult{Outcome: out}, nil
	}

	code := entity.NormalizeCode(in.Code)
	key := entity.ProductKey(code)
	date := uc.dateOrToday(in.Date)
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = defaultAdjustmentReason
	}
	docRef := fmt.Sprintf("MANUAL:%s:%s", date, reason)
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		if desc, err = uc.describe(ctx, code, ""); err != nil {
			return dto.AdjustmentResult{}, fmt.Errorf("buscar producto por código: %w", err)
		}
	}

	var snap *entity.StockSnapshot
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockRepository) error {
		current, err := stockRepo.Get(ctx, key)
		if err != nil {
			return err
		}
		onHand, avg := decimal.Zero, decimal.Zero
		if current != nil {
			onHand, avg = current.OnHand, current.AvgCost
			if desc == code && current.ProductDesc != "" {
				desc = current.ProductDesc
			}
		}
		if dir == entity.MovementTypeOUT && onHand.LessThan(in.Qty) {
			return fmt.Errorf("%w para %s: disponible %s, solicitado %s",
				domain.ErrInsufficientStock, label(desc, code), onHand.String(), in.Qty.String())
		}
		unitCost := decimal.Zero
		if dir == entity.MovementTypeIN {
			unitCost = avg
			if in.UnitCost != nil {
				unitCost = *in.UnitCost
			}
		}

		clock, err := newWriteClock(ctx, movRepo, uc.now)
		if err != nil {
			return err
		}
		ts := clock.next()
		now := uc.now()
		m := &entity.Movement{
			UniqueKey:   fmt.Sprintf("%s|%s|%s|%d", docRef, dir, key, ts),
			ProductKey:  key,
			ProductCode: code,
			ProductDesc: desc,
			Date:        date,
			Type:        dir,
			Qty:         in.Qty,
			UnitCost:    unitCost,
			Source:      entity.SourceManual,
			DocRef:      docRef,
			Timestamp:   ts,
			CreatedAt:   now,
		}
		if err := movRepo.Append(ctx, m); err != nil {
			return err
		}
		snap, err = applyToStock(ctx, stockRepo, m, now)
		return err
	})
	if err != nil {
		if out, ok := failure(err); ok {
			uc.log.Warn().Str("doc_ref", docRef).Str("code", out.Code).Msg(out.Message)
			return dto.AdjustmentResult{Outcome: out, DocRef: docRef}, nil
		}
		return dto.AdjustmentResult{}, err
	}

	uc.log.Info().Str("doc_ref", docRef).Str("product_key", key).Str("direction", string(dir)).Str("qty", in.Qty.String()).Msg("ajuste manual registrado")
	return dto.AdjustmentResult{
		Outcome: dto.Outcome{OK: true},
		DocRef:  docRef,
		OnHand:  snap.OnHand,
		AvgCost: snap.AvgCost,
	}, nil
}

func (uc *KardexUseCase) validateAdjustment(in dto.ManualAdjustmentRequest) (entity.MovementType, error) {
	if err := uc.checkStruct(in); err != nil {
		return "", err
	}
	if entity.NormalizeCode(in.Code) == "" {
		return "", fmt.Errorf("%w: el ajuste manual requiere código de producto", domain.ErrMissingCode)
	}
	dir := entity.MovementType(strings.ToUpper(strings.TrimSpace(in.Direction)))
	if dir != entity.MovementTypeIN && dir != entity.MovementTypeOUT {
		return "", fmt.Errorf("%w: dirección %q, se espera IN u OUT", domain.ErrInvalidInput, in.Direction)
	}
	if !in.Qty.IsPositive() {
		return "", fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	return dir, nil
}
