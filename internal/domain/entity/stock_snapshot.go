package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSnapshot proyección materializada del kardex por producto.
// Es un caché del replay de sus movimientos, nunca una fuente independiente.
type StockSnapshot struct {
	ProductKey  string
	ProductCode string
	ProductDesc string
	OnHand      decimal.Decimal
	AvgCost     decimal.Decimal
	UpdatedAt   time.Time
}

// TotalValue valor del inventario a costo promedio.
func (s StockSnapshot) TotalValue() decimal.Decimal {
	return s.OnHand.Mul(s.AvgCost)
}
