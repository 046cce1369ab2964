package inventory

import (
	"context"
	"fmt"
)

// StockReport genera el informe de valorización con la proyección vigente.
func (uc *KardexUseCase) StockReport(ctx context.Context, gen StockReportGenerator) ([]byte, error) {
	rows, err := uc.GetAllStock(ctx)
	if err != nil {
		return nil, err
	}
	out, err := gen.GenerateStockReport(ctx, rows, uc.now())
	if err != nil {
		return nil, fmt.Errorf("informe de stock: %w", err)
	}
	return out, nil
}
