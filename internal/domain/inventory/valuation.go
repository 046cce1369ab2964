package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-pos/internal/domain/entity"
)

// Position estado valorizado de un producto: existencias y costo promedio.
type Position struct {
	OnHand  decimal.Decimal
	AvgCost decimal.Decimal
}

// Fold aplica un movimiento sobre la posición actual (pliegue incremental).
//   - IN: suma cantidad y recalcula el promedio ponderado.
//   - OUT: resta cantidad; vender nunca cambia el costo promedio restante.
//   - ADJUST: fija las existencias en Qty sin tocar el promedio.
func Fold(p Position, m entity.Movement) Position {
	onHand := Round(p.OnHand)
	avg := Round(p.AvgCost)
	qty := Round(m.Qty)

	switch m.Type {
	case entity.MovementTypeIN:
		return Position{
			OnHand:  Round(onHand.Add(qty)),
			AvgCost: CostCalculator(onHand, avg, qty, Round(m.UnitCost)),
		}
	case entity.MovementTypeOUT:
		return Position{OnHand: Round(onHand.Sub(qty)), AvgCost: avg}
	case entity.MovementTypeADJUST:
		return Position{OnHand: qty, AvgCost: avg}
	}
	return Position{OnHand: onHand, AvgCost: avg}
}

// Replay recalcula la posición desde cero plegando los movimientos en orden de Timestamp.
// Es el recálculo autoritativo usado tras cualquier borrado.
func Replay(movements []entity.Movement) Position {
	sorted := make([]entity.Movement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	p := Position{OnHand: decimal.Zero, AvgCost: decimal.Zero}
	for _, m := range sorted {
		p = Fold(p, m)
	}
	return p
}
