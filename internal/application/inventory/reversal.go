package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-pos/internal/application/dto"
	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-pos/internal/domain/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

// RevertSalesFromDocument revierte las salidas registradas para el documento de venta.
func (uc *KardexUseCase) RevertSalesFromDocument(ctx context.Context, doc entity.SaleDocument) (dto.ReversalResult, error) {
	return uc.RevertSalesByDocRef(ctx, docRefOrSentinel(doc.Identification.DocumentRef))
}

// RevertSalesByDocRef revierte las salidas (sale_doc) agrupadas bajo docRef.
func (uc *KardexUseCase) RevertSalesByDocRef(ctx context.Context, docRef string) (dto.ReversalResult, error) {
	var res dto.ReversalResult
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockRepository) error {
		var err error
		res, err = uc.revertGroup(ctx, movRepo, stockRepo, docRef, entity.SourceSaleDoc)
		return err
	})
	return uc.reversalOutcome(res, docRef, entity.SourceSaleDoc, err)
}

// RevertLastPurchaseImport revierte la importación de compras más reciente completa
// (todas las líneas que comparten el docRef del último movimiento purchase_doc).
func (uc *KardexUseCase) RevertLastPurchaseImport(ctx context.Context) (dto.ReversalResult, error) {
	var res dto.ReversalResult
	var docRef string
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockRepository) error {
		last, err := movRepo.LatestBySource(ctx, entity.SourcePurchaseDoc)
		if err != nil {
			return err
		}
		if last == nil {
			return fmt.Errorf("%w: no hay importaciones de compras registradas", domain.ErrNothingToReverse)
		}
		docRef = last.DocRef
		res, err = uc.revertGroup(ctx, movRepo, stockRepo, docRef, entity.SourcePurchaseDoc)
		return err
	})
	return uc.reversalOutcome(res, docRef, entity.SourcePurchaseDoc, err)
}

func (uc *KardexUseCase) reversalOutcome(res dto.ReversalResult, docRef string, source entity.MovementSource, err error) (dto.ReversalResult, error) {
	if err != nil {
		if out, ok := failure(err); ok {
			uc.log.Warn().Str("doc_ref", docRef).Str("source", string(source)).Str("code", out.Code).Msg(out.Message)
			return dto.ReversalResult{Outcome: out, DocRef: docRef}, nil
		}
		return dto.ReversalResult{}, err
	}
	uc.log.Info().
		Str("doc_ref", res.DocRef).
		Str("source", string(source)).
		Int("removed", res.Removed).
		Int("affected_products", res.AffectedProducts).
		Msg("reversión aplicada")
	return res, nil
}

// revertGroup borra el grupo (docRef, source) y recalcula por replay cada producto afectado.
// La verificación de seguridad recorre todos los productos antes de cualquier borrado: si algún
// producto tiene un movimiento (de cualquier procedencia) posterior al grupo, se aborta sin cambios.
func (uc *KardexUseCase) revertGroup(
	ctx context.Context,
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	docRef string,
	source entity.MovementSource,
) (dto.ReversalResult, error) {
	byDoc, err := movRepo.ListByDocRef(ctx, docRef)
	if err != nil {
		return dto.ReversalResult{}, err
	}
	var maxTS int64
	var keys []string
	seen := make(map[string]struct{})
	found := 0
	for _, m := range byDoc {
		if m.Source != source {
			continue
		}
		found++
		if m.Timestamp > maxTS {
			maxTS = m.Timestamp
		}
		if _, ok := seen[m.ProductKey]; !ok {
			seen[m.ProductKey] = struct{}{}
			keys = append(keys, m.ProductKey)
		}
	}
	if found == 0 {
		return dto.ReversalResult{}, fmt.Errorf("%w: documento %s", domain.ErrNothingToReverse, docRef)
	}

	for _, key := range keys {
		movs, err := movRepo.ListByProductKey(ctx, key)
		if err != nil {
			return dto.ReversalResult{}, err
		}
		for _, m := range movs {
			if m.Timestamp > maxTS {
				return dto.ReversalResult{}, fmt.Errorf("%w: %s tiene movimientos posteriores al documento %s (%s %s)",
					domain.ErrUnsafeReversal, label(m.ProductDesc, m.ProductCode), docRef, m.Source, m.DocRef)
			}
		}
	}

	removed, err := movRepo.DeleteByDocRef(ctx, docRef, source)
	if err != nil {
		return dto.ReversalResult{}, err
	}

	now := uc.now()
	for _, key := range keys {
		remaining, err := movRepo.ListByProductKey(ctx, key)
		if err != nil {
			return dto.ReversalResult{}, err
		}
		if len(remaining) == 0 {
			if err := stockRepo.Delete(ctx, key); err != nil {
				return dto.ReversalResult{}, err
			}
			continue
		}
		pos := domaininv.Replay(remaining)
		snap, err := stockRepo.Get(ctx, key)
		if err != nil {
			return dto.ReversalResult{}, err
		}
		if snap == nil {
			last := remaining[len(remaining)-1]
			snap = &entity.StockSnapshot{ProductKey: key, ProductCode: last.ProductCode, ProductDesc: last.ProductDesc}
		}
		snap.OnHand = pos.OnHand
		snap.AvgCost = pos.AvgCost
		snap.UpdatedAt = now
		if err := stockRepo.Put(ctx, snap); err != nil {
			return dto.ReversalResult{}, err
		}
	}

	return dto.ReversalResult{
		Outcome:          dto.Outcome{OK: true},
		DocRef:           docRef,
		Removed:          int(removed),
		AffectedProducts: len(keys),
	}, nil
}
