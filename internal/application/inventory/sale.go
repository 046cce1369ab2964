package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-pos/internal/application/dto"
	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-pos/internal/domain/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

type saleLine struct {
	index int
	code  string
	desc  string
	qty   decimal.Decimal
}

// ApplySalesFromDocument convierte un documento de venta en salidas (OUT) del kardex.
// Solo descuenta existencias; el costo promedio no cambia. Una línea sin código se omite:
// la capa de documentos ya debió resolverlo contra el catálogo.
func (uc *KardexUseCase) ApplySalesFromDocument(ctx context.Context, doc entity.SaleDocument) (dto.SaleApplyResult, error) {
	if err := uc.validateSale(doc); err != nil {
		out, _ := failure(err)
		return dto.SaleApplyResult{Outcome: out}, nil
	}

	docRef := strings.TrimSpace(doc.Identification.DocumentRef)
	date := uc.dateOrToday(doc.Identification.Date)

	res := dto.SaleApplyResult{DocRef: docRef}
	pending := make([]saleLine, 0, len(doc.Lines))
	for i, line := range doc.Lines {
		code := entity.NormalizeCode(line.Code)
		qty := domaininv.Round(line.Quantity)
		if code == "" || !qty.IsPositive() {
			res.Skipped++
			continue
		}
		desc, err := uc.describe(ctx, code, line.Description)
		if err != nil {
			return dto.SaleApplyResult{}, fmt.Errorf("buscar producto por código: %w", err)
		}
		pending = append(pending, saleLine{index: i, code: code, desc: desc, qty: qty})
	}

	var applied, skipped int
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockRepository) error {
		applied, skipped = 0, 0
		if !uc.allowNeg {
			fresh, err := unappliedSaleLines(ctx, movRepo, docRef, pending)
			if err != nil {
				return err
			}
			if err := checkSaleDemand(ctx, stockRepo, fresh); err != nil {
				return err
			}
		}
		clock, err := newWriteClock(ctx, movRepo, uc.now)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, sl := range pending {
			key := entity.ProductKey(sl.code)
			m := &entity.Movement{
				UniqueKey:   saleUniqueKey(docRef, key, sl.index),
				ProductKey:  key,
				ProductCode: sl.code,
				ProductDesc: sl.desc,
				Date:        date,
				Type:        entity.MovementTypeOUT,
				Qty:         sl.qty,
				UnitCost:    decimal.Zero,
				Source:      entity.SourceSaleDoc,
				DocRef:      docRef,
				Timestamp:   clock.next(),
				CreatedAt:   now,
			}
			if err := movRepo.Append(ctx, m); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					skipped++
					continue
				}
				return err
			}
			if _, err := applyToStock(ctx, stockRepo, m, now); err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	if err != nil {
		if out, ok := failure(err); ok {
			uc.log.Warn().Str("doc_ref", docRef).Str("code", out.Code).Msg(out.Message)
			return dto.SaleApplyResult{Outcome: out, DocRef: docRef}, nil
		}
		return dto.SaleApplyResult{}, err
	}

	res.Applied = applied
	res.Skipped += skipped
	res.OK = true
	uc.log.Info().Str("doc_ref", docRef).Int("applied", res.Applied).Int("skipped", res.Skipped).Msg("ventas aplicadas")
	return res, nil
}

func saleUniqueKey(docRef, key string, index int) string {
	return fmt.Sprintf("%s|%s|%s|%d", docRef, entity.MovementTypeOUT, key, index)
}

// unappliedSaleLines descarta las líneas ya presentes en el kardex: un reenvío del documento
// solo cuenta omitidas y no debe pesar en la verificación de existencias.
func unappliedSaleLines(ctx context.Context, movRepo repository.MovementRepository, docRef string, lines []saleLine) ([]saleLine, error) {
	existing, err := movRepo.ListByDocRef(ctx, docRef)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return lines, nil
	}
	applied := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		applied[m.UniqueKey] = struct{}{}
	}
	fresh := make([]saleLine, 0, len(lines))
	for _, sl := range lines {
		if _, ok := applied[saleUniqueKey(docRef, entity.ProductKey(sl.code), sl.index)]; ok {
			continue
		}
		fresh = append(fresh, sl)
	}
	return fresh, nil
}

// checkSaleDemand rechaza la venta completa si alguna línea dejaría existencias negativas.
func checkSaleDemand(ctx context.Context, stockRepo repository.StockRepository, lines []saleLine) error {
	demand := make(map[string]decimal.Decimal)
	for _, sl := range lines {
		key := entity.ProductKey(sl.code)
		demand[key] = demand[key].Add(sl.qty)
		onHand, err := onHandOf(ctx, stockRepo, key)
		if err != nil {
			return err
		}
		if demand[key].GreaterThan(onHand) {
			return fmt.Errorf("%w para %s: disponible %s, requerido %s",
				domain.ErrInsufficientStock, label(sl.desc, sl.code), onHand.String(), demand[key].String())
		}
	}
	return nil
}

func onHandOf(ctx context.Context, stockRepo repository.StockRepository, key string) (decimal.Decimal, error) {
	snap, err := stockRepo.Get(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	if snap == nil {
		return decimal.Zero, nil
	}
	return snap.OnHand, nil
}

// ValidateStockForSale verificación previa (sin escrituras) que la capa de documentos invoca
// antes de confirmar una venta. Reporta la primera línea sin código o cuya demanda acumulada
// supera las existencias.
func (uc *KardexUseCase) ValidateStockForSale(ctx context.Context, lines []entity.SaleLine) (dto.StockValidationResult, error) {
	var res dto.StockValidationResult
	err := uc.txRunner.View(ctx, func(_ repository.MovementRepository, stockRepo repository.StockRepository) error {
		demand := make(map[string]decimal.Decimal)
		for i, line := range lines {
			code := entity.NormalizeCode(line.Code)
			if code == "" {
				idx := i
				res.LineIndex = &idx
				return fmt.Errorf("%w: línea %d (%s)", domain.ErrMissingCode, i+1, line.Description)
			}
			qty := domaininv.Round(line.Quantity)
			if !qty.IsPositive() {
				continue
			}
			key := entity.ProductKey(code)
			demand[key] = demand[key].Add(qty)
			onHand, err := onHandOf(ctx, stockRepo, key)
			if err != nil {
				return err
			}
			if demand[key].GreaterThan(onHand) {
				idx := i
				res.LineIndex = &idx
				return fmt.Errorf("%w para %s: disponible %s, requerido %s",
					domain.ErrInsufficientStock, label(line.Description, code), onHand.String(), demand[key].String())
			}
		}
		return nil
	})
	if err != nil {
		if out, ok := failure(err); ok {
			res.Outcome = out
			return res, nil
		}
		return dto.StockValidationResult{}, err
	}
	res.OK = true
	return res, nil
}
