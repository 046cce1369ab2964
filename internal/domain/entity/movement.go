package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType dirección de un movimiento de inventario.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeIN     MovementType = "IN"     // entrada
	MovementTypeOUT    MovementType = "OUT"    // salida
	MovementTypeADJUST MovementType = "ADJUST" // fija el stock directamente (reservado)
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUST:
		return true
	}
	return false
}

// MovementSource procedencia del movimiento; la reversión selecciona por (docRef, source).
type MovementSource string

// Procedencias posibles.
const (
	SourcePurchaseDoc MovementSource = "purchase_doc"
	SourceSaleDoc     MovementSource = "sale_doc"
	SourceManual      MovementSource = "manual"
)

// Valid indica si la procedencia pertenece al conjunto cerrado.
func (s MovementSource) Valid() bool {
	switch s {
	case SourcePurchaseDoc, SourceSaleDoc, SourceManual:
		return true
	}
	return false
}

// NoReferenceDocRef agrupa documentos que llegan sin número de referencia.
const NoReferenceDocRef = "SIN-REFERENCIA"

// productKeyPrefix prefijo de la identidad canónica de producto.
const productKeyPrefix = "COD:"

// NormalizeCode limpia un código de producto: sin espacios en los extremos y en mayúsculas.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ProductKey identidad canónica de un producto en el kardex ("COD:" + código normalizado).
func ProductKey(code string) string {
	return productKeyPrefix + NormalizeCode(code)
}

// Movement representa un evento inmutable del kardex (entrada, salida o ajuste).
// Qty siempre es magnitud positiva; el signo lo da Type.
type Movement struct {
	ID           int64
	UniqueKey    string
	ProductKey   string
	ProductCode  string
	ProductDesc  string
	Date         string // fecha del documento (YYYY-MM-DD), no la del reloj
	Type         MovementType
	Qty          decimal.Decimal
	UnitCost     decimal.Decimal // solo significativo en IN
	Source       MovementSource
	DocRef       string
	Timestamp    int64 // marcador monotónico de orden de escritura
	ProviderName string
	ProviderNit  string
	LotDate      string
	CreatedAt    time.Time
}
