package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/kardex-pos/internal/application/dto"
	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-pos/internal/domain/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
	"github.com/jhoicas/kardex-pos/pkg/dian"
)

// purchaseLine línea de compra ya resuelta contra el catálogo, lista para anexar.
type purchaseLine struct {
	index  int
	code   string
	desc   string
	line   entity.PurchaseLine
	byDesc bool
}

// ApplyPurchasesFromDocument convierte un documento de compra en entradas (IN) del kardex.
// La conciliación es por línea y de mejor esfuerzo: líneas sin código resoluble o con cantidad <= 0
// se cuentan y se omiten sin abortar el documento. Reimportar el mismo documento es idempotente.
func (uc *KardexUseCase) ApplyPurchasesFromDocument(ctx context.Context, doc entity.PurchaseDocument) (dto.PurchaseImportResult, error) {
	if err := uc.validatePurchase(doc); err != nil {
		out, _ := failure(err)
		return dto.PurchaseImportResult{Outcome: out}, nil
	}

	docRef := docRefOrSentinel(doc.Identification.DocumentRef)
	date := uc.dateOrToday(doc.Identification.Date)
	providerNit := strings.TrimSpace(doc.Issuer.TaxID)
	if providerNit != "" {
		normalized, err := dian.NormalizeNIT(providerNit)
		if err != nil {
			uc.log.Warn().Err(err).Str("doc_ref", docRef).Str("nit", providerNit).Msg("NIT del proveedor inválido; se conserva tal cual")
		} else {
			providerNit = normalized
		}
	}

	res := dto.PurchaseImportResult{DocRef: docRef}
	pending := make([]purchaseLine, 0, len(doc.Lines))
	for i, line := range doc.Lines {
		// se redondea antes de validar: lo que no sobrevive a la precisión interna no es una entrada
		line.Quantity = domaininv.Round(line.Quantity)
		line.UnitCost = domaininv.Round(line.UnitCost)
		if !line.Quantity.IsPositive() {
			res.Skipped++
			continue
		}
		code := entity.NormalizeCode(line.Code)
		pl := purchaseLine{index: i, line: line}
		if code == "" {
			p, err := uc.catalog.FindByDescription(ctx, line.Description)
			if err != nil {
				return dto.PurchaseImportResult{}, fmt.Errorf("buscar producto por descripción: %w", err)
			}
			if p == nil {
				res.MissingCodes++
				res.MissingLines = append(res.MissingLines, strings.TrimSpace(line.Description))
				continue
			}
			code = entity.NormalizeCode(p.Code)
			pl.byDesc = true
			res.ResolvedByDescription++
		}
		desc, err := uc.describe(ctx, code, line.Description)
		if err != nil {
			return dto.PurchaseImportResult{}, fmt.Errorf("buscar producto por código: %w", err)
		}
		pl.code = code
		pl.desc = desc
		pending = append(pending, pl)
	}

	var imported, skipped int
	touched := make(map[string]struct{})
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockRepository) error {
		imported, skipped = 0, 0
		clear(touched)
		clock, err := newWriteClock(ctx, movRepo, uc.now)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, pl := range pending {
			key := entity.ProductKey(pl.code)
			m := &entity.Movement{
				UniqueKey:    fmt.Sprintf("%s|%s|%s|%d", docRef, entity.MovementTypeIN, key, pl.index),
				ProductKey:   key,
				ProductCode:  pl.code,
				ProductDesc:  pl.desc,
				Date:         date,
				Type:         entity.MovementTypeIN,
				Qty:          pl.line.Quantity,
				UnitCost:     pl.line.UnitCost,
				Source:       entity.SourcePurchaseDoc,
				DocRef:       docRef,
				Timestamp:    clock.next(),
				ProviderName: strings.TrimSpace(doc.Issuer.Name),
				ProviderNit:  providerNit,
				LotDate:      pl.line.LotDate,
				CreatedAt:    now,
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
			imported++
			touched[key] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return dto.PurchaseImportResult{}, err
	}

	res.Imported = imported
	res.Skipped += skipped
	res.UpdatedStockRows = len(touched)
	res.OK = true
	uc.log.Info().
		Str("doc_ref", docRef).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Int("missing_codes", res.MissingCodes).
		Int("resolved_by_description", res.ResolvedByDescription).
		Int("updated_stock_rows", res.UpdatedStockRows).
		Msg("compras importadas")
	return res, nil
}
