package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-pos/internal/domain/entity"
)

// Outcome resultado explícito de una operación del kardex: los fallos de negocio
// (stock insuficiente, reversión insegura, nada que revertir) viajan aquí, no como error.
type Outcome struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// PurchaseImportResult auditoría de una importación de compras.
// Cada línea cae en exactamente uno de Imported, Skipped o MissingCodes.
type PurchaseImportResult struct {
	Outcome
	DocRef                string   `json:"docRef,omitempty"`
	Imported              int      `json:"imported"`
	Skipped               int      `json:"skipped"`
	MissingCodes          int      `json:"missingCodes"`
	ResolvedByDescription int      `json:"resolvedByDescription"`
	UpdatedStockRows      int      `json:"updatedStockRows"`
	MissingLines          []string `json:"missingLines,omitempty"` // descripciones sin código resoluble
}

// SaleApplyResult resultado de aplicar un documento de venta.
type SaleApplyResult struct {
	Outcome
	DocRef  string `json:"docRef,omitempty"`
	Applied int    `json:"applied"`
	Skipped int    `json:"skipped"`
}

// StockValidationResult resultado de la validación previa de stock para una venta.
type StockValidationResult struct {
	Outcome
	LineIndex *int `json:"lineIndex,omitempty"` // primera línea con problema
}

// ReversalResult resultado de revertir un documento de venta o la última importación de compras.
type ReversalResult struct {
	Outcome
	DocRef           string `json:"docRef,omitempty"`
	Removed          int    `json:"removed"`
	AffectedProducts int    `json:"affectedProducts"`
}

// ManualAdjustmentRequest body para POST /api/inventory/adjustments.
type ManualAdjustmentRequest struct {
	Code        string           `json:"code" validate:"max=60"`
	Description string           `json:"description" validate:"max=500"`
	Direction   string           `json:"direction"` // IN | OUT
	Qty         decimal.Decimal  `json:"qty"`
	UnitCost    *decimal.Decimal `json:"unitCost,omitempty" validate:"omitempty,gte=0"`
	Reason      string           `json:"reason,omitempty" validate:"max=120"`
	Date        string           `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AdjustmentResult resultado de un ajuste manual con la posición resultante.
type AdjustmentResult struct {
	Outcome
	DocRef  string          `json:"docRef,omitempty"`
	OnHand  decimal.Decimal `json:"onHand"`
	AvgCost decimal.Decimal `json:"avgCost"`
}

// ClearResult resultado del reinicio completo del inventario.
type ClearResult struct {
	Outcome
}

// StockResponse fila de la proyección de stock expuesta a la UI.
type StockResponse struct {
	ProductKey  string          `json:"productKey"`
	ProductCode string          `json:"productCode"`
	ProductDesc string          `json:"productDesc"`
	OnHand      decimal.Decimal `json:"onHand"`
	AvgCost     decimal.Decimal `json:"avgCost"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// MovementResponse movimiento del kardex expuesto a la UI.
type MovementResponse struct {
	ID           int64           `json:"id"`
	UniqueKey    string          `json:"uniqueKey"`
	ProductKey   string          `json:"productKey"`
	ProductCode  string          `json:"productCode"`
	ProductDesc  string          `json:"productDesc"`
	Date         string          `json:"date"`
	Type         string          `json:"type"`
	Qty          decimal.Decimal `json:"qty"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	Source       string          `json:"source"`
	DocRef       string          `json:"docRef"`
	Timestamp    int64           `json:"timestamp"`
	ProviderName string          `json:"providerName,omitempty"`
	ProviderNit  string          `json:"providerNit,omitempty"`
	LotDate      string          `json:"lotDate,omitempty"`
}

// MovementFilter filtros de consulta del kardex; vacío = todos.
type MovementFilter struct {
	DocRef     string `query:"doc_ref"`
	ProductKey string `query:"product_key"`
}

// ToStockResponse convierte la proyección a su representación HTTP.
func ToStockResponse(s entity.StockSnapshot) StockResponse {
	return StockResponse{
		ProductKey:  s.ProductKey,
		ProductCode: s.ProductCode,
		ProductDesc: s.ProductDesc,
		OnHand:      s.OnHand,
		AvgCost:     s.AvgCost,
		TotalValue:  s.TotalValue().Round(2),
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToMovementResponse convierte un movimiento a su representación HTTP.
func ToMovementResponse(m entity.Movement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		UniqueKey:    m.UniqueKey,
		ProductKey:   m.ProductKey,
		ProductCode:  m.ProductCode,
		ProductDesc:  m.ProductDesc,
		Date:         m.Date,
		Type:         string(m.Type),
		Qty:          m.Qty,
		UnitCost:     m.UnitCost,
		Source:       string(m.Source),
		DocRef:       m.DocRef,
		Timestamp:    m.Timestamp,
		ProviderName: m.ProviderName,
		ProviderNit:  m.ProviderNit,
		LotDate:      m.LotDate,
	}
}
