package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-pos/internal/application/dto"
	"github.com/jhoicas/kardex-pos/internal/application/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-pos/internal/domain/inventory"
	"github.com/jhoicas/kardex-pos/internal/domain/repository"
	"github.com/jhoicas/kardex-pos/internal/infrastructure/memory"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type kardexFixture struct {
	ctx   context.Context
	store *memory.Store
	uc    *inventory.KardexUseCase
}

func newFixture(t *testing.T, allowNegative bool) *kardexFixture {
	t.Helper()
	store := memory.New()
	uc := inventory.NewKardexUseCase(
		store,
		inventory.NewRepositoryCatalog(store.Products()),
		inventory.Options{AllowNegativeStock: allowNegative, Now: func() time.Time { return fixedNow }},
		zerolog.Nop(),
	)
	return &kardexFixture{ctx: context.Background(), store: store, uc: uc}
}

func (f *kardexFixture) addProduct(t *testing.T, code, desc string) {
	t.Helper()
	require.NoError(t, f.store.Products().Upsert(f.ctx, &entity.Product{
		Code:           entity.NormalizeCode(code),
		Description:    desc,
		NormalizedDesc: domaininv.NormalizeDescription(desc),
	}))
}

func (f *kardexFixture) stock(t *testing.T, code string) *entity.StockSnapshot {
	t.Helper()
	var snap *entity.StockSnapshot
	require.NoError(t, f.store.View(f.ctx, func(_ repository.MovementRepository, stockRepo repository.StockRepository) error {
		var err error
		snap, err = stockRepo.Get(f.ctx, entity.ProductKey(code))
		return err
	}))
	return snap
}

func (f *kardexFixture) movements(t *testing.T) []entity.Movement {
	t.Helper()
	list, err := f.uc.ListMovements(f.ctx, dto.MovementFilter{})
	require.NoError(t, err)
	return list
}

func (f *kardexFixture) purchase(t *testing.T, docRef string, lines ...entity.PurchaseLine) dto.PurchaseImportResult {
	t.Helper()
	res, err := f.uc.ApplyPurchasesFromDocument(f.ctx, entity.PurchaseDocument{
		Identification: entity.DocumentIdentification{Date: "2025-03-01", DocumentRef: docRef},
		Issuer:         entity.DocumentIssuer{Name: "Distribuidora Andina", TaxID: "900.123.456"},
		Lines:          lines,
	})
	require.NoError(t, err)
	return res
}

func (f *kardexFixture) sale(t *testing.T, docRef string, lines ...entity.SaleLine) dto.SaleApplyResult {
	t.Helper()
	res, err := f.uc.ApplySalesFromDocument(f.ctx, entity.SaleDocument{
		Identification: entity.DocumentIdentification{Date: "2025-03-05", DocumentRef: docRef},
		Lines:          lines,
	})
	require.NoError(t, err)
	return res
}

func pl(code, desc, qty, cost string) entity.PurchaseLine {
	return entity.PurchaseLine{Code: code, Description: desc, Quantity: d(qty), UnitCost: d(cost)}
}

func sl(code, qty string) entity.SaleLine {
	return entity.SaleLine{Code: code, Quantity: d(qty)}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptrDec(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// assertProjectionMatchesReplay comprueba que cada fila de stock es exactamente el replay de su historial.
func assertProjectionMatchesReplay(t *testing.T, f *kardexFixture) {
	t.Helper()
	require.NoError(t, f.store.View(f.ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockRepository) error {
		rows, err := stockRepo.List(f.ctx)
		require.NoError(t, err)
		for _, row := range rows {
			movs, err := movRepo.ListByProductKey(f.ctx, row.ProductKey)
			require.NoError(t, err)
			require.NotEmpty(t, movs, "fila de stock sin movimientos: %s", row.ProductKey)
			pos := domaininv.Replay(movs)
			assert.True(t, pos.OnHand.Equal(row.OnHand), "%s on hand %s != %s", row.ProductKey, row.OnHand, pos.OnHand)
			assert.True(t, pos.AvgCost.Equal(row.AvgCost), "%s avg %s != %s", row.ProductKey, row.AvgCost, pos.AvgCost)
		}
		all, err := movRepo.ListAll(f.ctx)
		require.NoError(t, err)
		keys := make(map[string]struct{})
		for _, m := range all {
			keys[m.ProductKey] = struct{}{}
		}
		assert.Len(t, rows, len(keys), "un producto con historial debe tener fila y viceversa")
		return nil
	}))
}

func TestApplyPurchases_WeightedAverage(t *testing.T) {
	f := newFixture(t, true)

	res := f.purchase(t, "FC-100", pl("a-1", "Arroz 500g", "10", "100"), pl("B-2", "Frijol", "4", "50"))
	assert.True(t, res.OK)
	assert.Equal(t, "FC-100", res.DocRef)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.UpdatedStockRows)

	res = f.purchase(t, "FC-101", pl("A-1", "Arroz 500g", "10", "200"))
	assert.Equal(t, 1, res.Imported)

	snap := f.stock(t, "A-1")
	require.NotNil(t, snap)
	assert.Equal(t, "20", snap.OnHand.String())
	assert.Equal(t, "150", snap.AvgCost.String())
	assert.Equal(t, "A-1", snap.ProductCode)

	movs := f.movements(t)
	require.Len(t, movs, 3)
	assert.Equal(t, "900123456-8", movs[0].ProviderNit)
	assert.Equal(t, "2025-03-01", movs[0].Date)
	assert.Less(t, movs[0].Timestamp, movs[1].Timestamp)
	assert.Less(t, movs[1].Timestamp, movs[2].Timestamp)
	assertProjectionMatchesReplay(t, f)
}

func TestApplyPurchases_ReimportIsIdempotent(t *testing.T) {
	f := newFixture(t, true)
	lines := []entity.PurchaseLine{pl("A-1", "", "3", "10"), pl("A-1", "", "2", "20")}

	first := f.purchase(t, "FC-7", lines...)
	assert.Equal(t, 2, first.Imported)
	before := f.stock(t, "A-1")

	second := f.purchase(t, "FC-7", lines...)
	assert.True(t, second.OK)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 0, second.UpdatedStockRows)

	after := f.stock(t, "A-1")
	assert.True(t, before.OnHand.Equal(after.OnHand))
	assert.True(t, before.AvgCost.Equal(after.AvgCost))
	assert.Len(t, f.movements(t), 2)
}

func TestApplyPurchases_LineReconciliation(t *testing.T) {
	f := newFixture(t, true)
	f.addProduct(t, "ACE-1", "Aceite  de Girasol 1L")

	res := f.purchase(t, "",
		pl("", "ACEITE DE GIRASOL 1L", "6", "12000"),
		pl("", "Producto desconocido", "1", "5"),
		pl("Z-9", "Cero", "0", "5"),
		pl("Z-8", "Negativo", "-2", "5"),
		pl("ace-1", "otra descripción", "2", "12000"),
	)
	assert.True(t, res.OK)
	assert.Equal(t, entity.NoReferenceDocRef, res.DocRef)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 1, res.MissingCodes)
	assert.Equal(t, 1, res.ResolvedByDescription)
	assert.Equal(t, 1, res.UpdatedStockRows)
	assert.Equal(t, []string{"Producto desconocido"}, res.MissingLines)
	assert.Equal(t, 5, res.Imported+res.Skipped+res.MissingCodes)

	snap := f.stock(t, "ACE-1")
	require.NotNil(t, snap)
	assert.Equal(t, "8", snap.OnHand.String())
	assert.Equal(t, "Aceite  de Girasol 1L", snap.ProductDesc)
	assert.Nil(t, f.stock(t, "Z-9"))
}

func TestApplyPurchases_Validation(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.uc.ApplyPurchasesFromDocument(f.ctx, entity.PurchaseDocument{})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "VALIDATION", res.Code)

	res, err = f.uc.ApplyPurchasesFromDocument(f.ctx, entity.PurchaseDocument{
		Identification: entity.DocumentIdentification{Date: "01/03/2025"},
		Lines:          []entity.PurchaseLine{pl("A", "", "1", "1")},
	})
	require.NoError(t, err)
	assert.Equal(t, "VALIDATION", res.Code)

	res, err = f.uc.ApplyPurchasesFromDocument(f.ctx, entity.PurchaseDocument{
		Lines: []entity.PurchaseLine{pl("A", "", "1", "-1")},
	})
	require.NoError(t, err)
	assert.Equal(t, "VALIDATION", res.Code)

	res, err = f.uc.ApplyPurchasesFromDocument(f.ctx, entity.PurchaseDocument{
		Lines: []entity.PurchaseLine{pl("A", "", "1", "2"), pl("B", "", "1", "-0.5")},
	})
	require.NoError(t, err)
	assert.Equal(t, "VALIDATION", res.Code)
	assert.Contains(t, res.Message, "unitCost")
	assert.Empty(t, f.movements(t))
}

func TestApplyPurchases_InvalidNITIsKept(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.uc.ApplyPurchasesFromDocument(f.ctx, entity.PurchaseDocument{
		Identification: entity.DocumentIdentification{DocumentRef: "FC-1"},
		Issuer:         entity.DocumentIssuer{TaxID: "900123456-1"},
		Lines:          []entity.PurchaseLine{pl("A", "", "1", "1")},
	})
	require.NoError(t, err)
	movs := f.movements(t)
	require.Len(t, movs, 1)
	assert.Equal(t, "900123456-1", movs[0].ProviderNit)
}

func TestApplySales_ReducesStockKeepsAverage(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "FC-1", pl("A-1", "Arroz", "10", "150"))

	res := f.sale(t, "FV-1", sl("a-1", "4"), sl("", "1"), sl("A-1", "0"))
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 2, res.Skipped)

	snap := f.stock(t, "A-1")
	assert.Equal(t, "6", snap.OnHand.String())
	assert.Equal(t, "150", snap.AvgCost.String())

	again := f.sale(t, "FV-1", sl("A-1", "4"))
	assert.Equal(t, 0, again.Applied)
	assert.Equal(t, 1, again.Skipped)
	assert.Equal(t, "6", f.stock(t, "A-1").OnHand.String())
}

func TestApplySales_NegativeStockAllowedByDefault(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "FC-1", pl("A-1", "", "2", "10"))

	res := f.sale(t, "FV-2", sl("A-1", "5"), sl("NEW", "1"))
	assert.True(t, res.OK)
	assert.Equal(t, "-3", f.stock(t, "A-1").OnHand.String())
	assert.Equal(t, "10", f.stock(t, "A-1").AvgCost.String())
	assert.Equal(t, "-1", f.stock(t, "NEW").OnHand.String())
	assertProjectionMatchesReplay(t, f)
}

func TestApplySales_NegativeStockRejectedAtomically(t *testing.T) {
	f := newFixture(t, false)
	f.purchase(t, "FC-1", pl("A-1", "", "5", "10"), pl("B-1", "", "1", "10"))

	res := f.sale(t, "FV-3", sl("A-1", "2"), sl("B-1", "1"), sl("A-1", "4"))
	assert.False(t, res.OK)
	assert.Equal(t, "INSUFFICIENT_STOCK", res.Code)
	assert.Equal(t, "FV-3", res.DocRef)

	assert.Equal(t, "5", f.stock(t, "A-1").OnHand.String())
	assert.Equal(t, "1", f.stock(t, "B-1").OnHand.String())
	assert.Len(t, f.movements(t), 2)
}

func TestApplySales_ResendWithStrictStockIsIdempotent(t *testing.T) {
	f := newFixture(t, false)
	f.purchase(t, "FC-1", pl("A", "", "5", "2"))

	first := f.sale(t, "FV-1", sl("A", "5"))
	require.True(t, first.OK)
	assert.Equal(t, 1, first.Applied)

	// las líneas ya aplicadas no cuentan como demanda nueva
	again := f.sale(t, "FV-1", sl("A", "5"))
	assert.True(t, again.OK, again.Message)
	assert.Equal(t, 0, again.Applied)
	assert.Equal(t, 1, again.Skipped)
	assert.Equal(t, "0", f.stock(t, "A").OnHand.String())
	assert.Len(t, f.movements(t), 2)
}

func TestApplySales_RequiresDocumentRef(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "FC-1", pl("A", "", "5", "2"))

	for _, ref := range []string{"", "   "} {
		res := f.sale(t, ref, sl("A", "1"))
		assert.False(t, res.OK)
		assert.Equal(t, "VALIDATION", res.Code)
	}
	assert.Len(t, f.movements(t), 1)
	assert.Equal(t, "5", f.stock(t, "A").OnHand.String())

	// dos ventas distintas con referencia propia se aplican ambas
	f.sale(t, "FV-1", sl("A", "1"))
	f.sale(t, "FV-2", sl("A", "1"))
	assert.Equal(t, "3", f.stock(t, "A").OnHand.String())
}

func TestSubPrecisionQuantitiesAreSkipped(t *testing.T) {
	f := newFixture(t, true)

	res := f.purchase(t, "FC-1", pl("A", "", "0.0000001", "10"))
	assert.True(t, res.OK)
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Nil(t, f.stock(t, "A"))

	f.purchase(t, "FC-2", pl("A", "", "2.0000004", "10.0000006"))
	snap := f.stock(t, "A")
	require.NotNil(t, snap)
	assert.Equal(t, "2", snap.OnHand.String())
	assert.Equal(t, "10.000001", snap.AvgCost.String())

	sale := f.sale(t, "FV-1", sl("A", "0.0000004"))
	assert.Equal(t, 0, sale.Applied)
	assert.Equal(t, 1, sale.Skipped)

	adj, err := f.uc.ApplyManualAdjustment(f.ctx, dto.ManualAdjustmentRequest{Code: "A", Direction: "IN", Qty: d("0.0000001")})
	require.NoError(t, err)
	assert.False(t, adj.OK)
	assert.Equal(t, "VALIDATION", adj.Code)

	for _, m := range f.movements(t) {
		assert.True(t, m.Qty.IsPositive(), "movimiento %s con cantidad %s", m.UniqueKey, m.Qty)
	}
	assertProjectionMatchesReplay(t, f)
}

func TestValidateStockForSale(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "FC-1", pl("A-1", "", "5", "10"))

	res, err := f.uc.ValidateStockForSale(f.ctx, []entity.SaleLine{sl("A-1", "3"), sl("A-1", "2")})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Nil(t, res.LineIndex)

	res, err = f.uc.ValidateStockForSale(f.ctx, []entity.SaleLine{sl("A-1", "3"), sl("A-1", "3")})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "INSUFFICIENT_STOCK", res.Code)
	require.NotNil(t, res.LineIndex)
	assert.Equal(t, 1, *res.LineIndex)

	res, err = f.uc.ValidateStockForSale(f.ctx, []entity.SaleLine{sl("A-1", "1"), {Description: "sin código", Quantity: d("1")}})
	require.NoError(t, err)
	assert.Equal(t, "MISSING_CODE", res.Code)
	assert.Equal(t, 1, *res.LineIndex)

	res, err = f.uc.ValidateStockForSale(f.ctx, []entity.SaleLine{sl("NADA", "1")})
	require.NoError(t, err)
	assert.Equal(t, "INSUFFICIENT_STOCK", res.Code)
	assert.Equal(t, 0, *res.LineIndex)

	assert.Len(t, f.movements(t), 1, "la validación no escribe")
}

func TestRevertSales_RestoresPriorState(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "FC-1", pl("A-1", "", "10", "100"), pl("B-1", "", "3", "7"))
	f.purchase(t, "FC-2", pl("A-1", "", "5", "130"))
	beforeA, beforeB := f.stock(t, "A-1"), f.stock(t, "B-1")

	f.sale(t, "FV-9", sl("A-1", "4"), sl("B-1", "3"), sl("A-1", "1"))
	assert.Equal(t, "0", f.stock(t, "B-1").OnHand.String())

	res, err := f.uc.RevertSalesFromDocument(f.ctx, entity.SaleDocument{
		Identification: entity.DocumentIdentification{DocumentRef: "FV-9"},
	})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 3, res.Removed)
	assert.Equal(t, 2, res.AffectedProducts)

	afterA, afterB := f.stock(t, "A-1"), f.stock(t, "B-1")
	assert.True(t, beforeA.OnHand.Equal(afterA.OnHand))
	assert.True(t, beforeA.AvgCost.Equal(afterA.AvgCost))
	assert.True(t, beforeB.OnHand.Equal(afterB.OnHand))
	assert.True(t, beforeB.AvgCost.Equal(afterB.AvgCost))
	assertProjectionMatchesReplay(t, f)

	res, err = f.uc.RevertSalesByDocRef(f.ctx, "FV-9")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "NOTHING_TO_REVERSE", res.Code)
}

func TestRevertSales_UnsafeWhenLaterMovementExists(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "FC-1", pl("A-1", "", "10", "100"), pl("B-1", "", "10", "100"))
	f.sale(t, "FV-1", sl("A-1", "2"), sl("B-1", "2"))
	f.purchase(t, "FC-2", pl("B-1", "", "1", "400"))

	before := f.movements(t)
	res, err := f.uc.RevertSalesByDocRef(f.ctx, "FV-1")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "UNSAFE_REVERSAL", res.Code)

	assert.Equal(t, len(before), len(f.movements(t)), "nada se borra si algún producto no es seguro")
	assert.Equal(t, "8", f.stock(t, "A-1").OnHand.String())
}

func TestRevertSales_UnsafeAfterLaterManualEntry(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "FC-1", pl("A-1", "", "10", "100"))
	f.sale(t, "FV-1", sl("A-1", "2"))

	adj, err := f.uc.ApplyManualAdjustment(f.ctx, dto.ManualAdjustmentRequest{Code: "A-1", Direction: "IN", Qty: d("1")})
	require.NoError(t, err)
	require.True(t, adj.OK)

	before := f.movements(t)
	res, err := f.uc.RevertSalesByDocRef(f.ctx, "FV-1")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "UNSAFE_REVERSAL", res.Code)
	assert.Len(t, f.movements(t), len(before))
	assert.Equal(t, "9", f.stock(t, "A-1").OnHand.String())
}

func TestRevertSales_OnlySaleSourceIsRemoved(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "DOC-1", pl("A-1", "", "10", "100"))
	f.sale(t, "DOC-1", sl("A-1", "3"))

	res, err := f.uc.RevertSalesByDocRef(f.ctx, "DOC-1")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, "10", f.stock(t, "A-1").OnHand.String())
	assert.Len(t, f.movements(t), 1)
}

func TestRevertLastPurchaseImport(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.uc.RevertLastPurchaseImport(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "NOTHING_TO_REVERSE", res.Code)

	f.purchase(t, "FC-1", pl("A-1", "", "10", "100"))
	afterFirst := f.stock(t, "A-1")
	f.purchase(t, "FC-2", pl("A-1", "", "10", "300"), pl("C-1", "", "1", "1"))
	assert.Equal(t, "200", f.stock(t, "A-1").AvgCost.String())

	res, err = f.uc.RevertLastPurchaseImport(f.ctx)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "FC-2", res.DocRef)
	assert.Equal(t, 2, res.Removed)
	assert.Equal(t, 2, res.AffectedProducts)

	a := f.stock(t, "A-1")
	assert.True(t, afterFirst.OnHand.Equal(a.OnHand))
	assert.True(t, afterFirst.AvgCost.Equal(a.AvgCost))
	assert.Nil(t, f.stock(t, "C-1"), "producto sin historial pierde su fila")
	assertProjectionMatchesReplay(t, f)

	f.sale(t, "FV-1", sl("A-1", "1"))
	res, err = f.uc.RevertLastPurchaseImport(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "UNSAFE_REVERSAL", res.Code)
}

func TestManualAdjustment(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "FC-1", pl("A-1", "Arroz", "10", "100"))

	res, err := f.uc.ApplyManualAdjustment(f.ctx, dto.ManualAdjustmentRequest{Code: "a-1", Direction: "out", Qty: d("11")})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "INSUFFICIENT_STOCK", res.Code)
	assert.Len(t, f.movements(t), 1)

	res, err = f.uc.ApplyManualAdjustment(f.ctx, dto.ManualAdjustmentRequest{Code: "A-1", Direction: "OUT", Qty: d("4")})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "MANUAL:2025-03-10:ajuste", res.DocRef)
	assert.Equal(t, "6", res.OnHand.String())

	res, err = f.uc.ApplyManualAdjustment(f.ctx, dto.ManualAdjustmentRequest{Code: "A-1", Direction: "IN", Qty: d("4"), Reason: "conteo", Date: "2025-03-09"})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "MANUAL:2025-03-09:conteo", res.DocRef)
	assert.Equal(t, "10", res.OnHand.String())
	assert.Equal(t, "100", res.AvgCost.String(), "sin costo se usa el promedio vigente")

	cost := d("200")
	res, err = f.uc.ApplyManualAdjustment(f.ctx, dto.ManualAdjustmentRequest{Code: "A-1", Direction: "IN", Qty: d("10"), UnitCost: &cost, Reason: "conteo", Date: "2025-03-09"})
	require.NoError(t, err)
	assert.True(t, res.OK, "dos ajustes con el mismo docRef no colisionan")
	assert.Equal(t, "150", res.AvgCost.String())

	movs := f.movements(t)
	require.Len(t, movs, 4)
	assert.Equal(t, entity.SourceManual, movs[1].Source)
	assert.Equal(t, "Arroz", movs[1].ProductDesc)
	assertProjectionMatchesReplay(t, f)
}

func TestManualAdjustment_Rejects(t *testing.T) {
	f := newFixture(t, true)
	cases := []struct {
		name string
		req  dto.ManualAdjustmentRequest
		code string
	}{
		{"sin código", dto.ManualAdjustmentRequest{Direction: "IN", Qty: d("1")}, "MISSING_CODE"},
		{"dirección", dto.ManualAdjustmentRequest{Code: "A", Direction: "ADJUST", Qty: d("1")}, "VALIDATION"},
		{"cantidad cero", dto.ManualAdjustmentRequest{Code: "A", Direction: "IN", Qty: d("0")}, "VALIDATION"},
		{"fecha", dto.ManualAdjustmentRequest{Code: "A", Direction: "IN", Qty: d("1"), Date: "ayer"}, "VALIDATION"},
		{"costo negativo", dto.ManualAdjustmentRequest{Code: "A", Direction: "IN", Qty: d("1"), UnitCost: ptrDec("-0.5")}, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.uc.ApplyManualAdjustment(f.ctx, tc.req)
			require.NoError(t, err)
			assert.False(t, res.OK)
			assert.Equal(t, tc.code, res.Code)
		})
	}
	assert.Empty(t, f.movements(t))
}

func TestClearInventory(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "FC-1", pl("A-1", "", "10", "100"))

	res, err := f.uc.ClearInventory(f.ctx)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Empty(t, f.movements(t))

	stock, err := f.uc.GetAllStock(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, stock)

	again := f.purchase(t, "FC-1", pl("A-1", "", "10", "100"))
	assert.Equal(t, 1, again.Imported, "tras el reinicio el documento puede importarse de nuevo")
}

func TestListMovementsFilters(t *testing.T) {
	f := newFixture(t, true)
	f.purchase(t, "FC-1", pl("A-1", "", "1", "1"), pl("B-1", "", "1", "1"))
	f.sale(t, "FV-1", sl("A-1", "1"))

	byDoc, err := f.uc.ListMovements(f.ctx, dto.MovementFilter{DocRef: "FC-1"})
	require.NoError(t, err)
	assert.Len(t, byDoc, 2)

	byProduct, err := f.uc.ListMovements(f.ctx, dto.MovementFilter{ProductKey: entity.ProductKey("A-1")})
	require.NoError(t, err)
	require.Len(t, byProduct, 2)
	assert.Equal(t, entity.MovementTypeIN, byProduct[0].Type)
	assert.Equal(t, entity.MovementTypeOUT, byProduct[1].Type)
}
