package inventory

import "github.com/shopspring/decimal"

// Precision decimales internos con que se redondean cantidades y costos del kardex.
const Precision int32 = 6

// Round redondea al número de decimales internos para evitar deriva acumulada.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el stock resultante es <= 0 el costo se reinicia en 0.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := Round(stockActual.Add(cantEntrada))
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := Round(stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada)))
	return Round(num.Div(sum))
}
