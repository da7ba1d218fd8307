package engine

import "github.com/shopspring/decimal"

// TipoMovimiento classifies an append-only cash ledger entry.
type TipoMovimiento string

const (
	TipoVenta   TipoMovimiento = "venta"
	TipoIngreso TipoMovimiento = "ingreso"
	TipoEgreso  TipoMovimiento = "egreso"
	TipoRetiro  TipoMovimiento = "retiro"
	TipoSueldo  TipoMovimiento = "sueldo"
	TipoAjuste  TipoMovimiento = "ajuste"
)

// TiposMovimiento lists every known movement type, in display order.
var TiposMovimiento = []TipoMovimiento{
	TipoVenta, TipoIngreso, TipoEgreso, TipoRetiro, TipoSueldo, TipoAjuste,
}

// Movimiento is the slice of a ledger entry the aggregator needs. Amounts are
// positive for every type except ajuste, which carries its own sign.
type Movimiento struct {
	Tipo  TipoMovimiento
	Monto decimal.Decimal
}

// Agregar reduces a movement list into per-type sums. Every known type is
// present in the result (zero when absent) so downstream formulas never read
// a missing key; unknown types are ignored. The reduction is pure: feeding
// the same list twice yields identical totals.
func Agregar(movs []Movimiento) map[TipoMovimiento]decimal.Decimal {
	totales := make(map[TipoMovimiento]decimal.Decimal, len(TiposMovimiento))
	for _, t := range TiposMovimiento {
		totales[t] = decimal.Zero
	}
	for _, m := range movs {
		if _, conocido := totales[m.Tipo]; !conocido {
			continue
		}
		totales[m.Tipo] = totales[m.Tipo].Add(m.Monto)
	}
	return totales
}

// IngresoNeto is the cash that entered the drawer: sales plus manual income.
func IngresoNeto(totales map[TipoMovimiento]decimal.Decimal) decimal.Decimal {
	return totales[TipoVenta].Add(totales[TipoIngreso])
}

// EgresoNeto is the cash that left the drawer: expenses, withdrawals and
// payroll advances.
func EgresoNeto(totales map[TipoMovimiento]decimal.Decimal) decimal.Decimal {
	return totales[TipoEgreso].Add(totales[TipoRetiro]).Add(totales[TipoSueldo])
}

// Teorico is the balance the drawer should physically contain before
// counting: opening float + net inflow − net outflow + signed adjustments.
func Teorico(apertura decimal.Decimal, movs []Movimiento) decimal.Decimal {
	totales := Agregar(movs)
	return apertura.
		Add(IngresoNeto(totales)).
		Sub(EgresoNeto(totales)).
		Add(totales[TipoAjuste])
}
