package entity

import "github.com/shopspring/decimal"

// DocumentIdentification cabecera común de documentos de compra y venta.
type DocumentIdentification struct {
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	DocumentRef string `json:"documentRef" validate:"max=120"`
}

// DocumentIssuer proveedor emisor de un documento de compra.
type DocumentIssuer struct {
	Name  string `json:"name" validate:"max=250"`
	TaxID string `json:"taxId" validate:"max=30"`
}

// PurchaseLine línea de un documento de compra; Code es opcional.
type PurchaseLine struct {
	Code        string          `json:"code" validate:"max=60"`
	Description string          `json:"description" validate:"max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost" validate:"gte=0"`
	LotDate     string          `json:"lotDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// PurchaseDocument documento de compra entregado por el colaborador de importación.
type PurchaseDocument struct {
	Identification DocumentIdentification `json:"identification"`
	Issuer         DocumentIssuer         `json:"issuer"`
	Lines          []PurchaseLine         `json:"lines" validate:"dive"`
}

// SaleLine línea de un documento de venta.
type SaleLine struct {
	Code        string          `json:"code" validate:"max=60"`
	Description string          `json:"description" validate:"max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// SaleDocument documento de venta entregado por el generador de documentos.
type SaleDocument struct {
	Identification DocumentIdentification `json:"identification"`
	Lines          []SaleLine             `json:"lines" validate:"dive"`
}
