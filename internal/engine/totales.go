package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineaCarrito is a product line with its price snapshot taken at add-time.
type LineaCarrito struct {
	ProductoID     uuid.UUID
	Nombre         string
	PrecioUnitario decimal.Decimal
	Cantidad       int
}

// Ajustes are the operator-entered checkout adjustments. Negative inputs are
// normalized to zero before use — they are silent clamps, never errors, and
// never a charge reversal.
type Ajustes struct {
	DescuentoMonto      decimal.Decimal
	DescuentoPorcentaje decimal.Decimal
	CuponCodigo         string
	CuponMonto          decimal.Decimal
	Recargo             decimal.Decimal
}

// Totales is the result of composing an order. DescuentoPorcentaje here is
// the resulting amount, not the input percentage.
type Totales struct {
	Subtotal            decimal.Decimal
	DescuentoMonto      decimal.Decimal
	DescuentoPorcentaje decimal.Decimal
	Cupon               decimal.Decimal
	Recargo             decimal.Decimal
	Total               decimal.Decimal
}

var cien = decimal.NewFromInt(100)

// ComponerTotal turns cart lines, committed promotion entries and the
// checkout adjustments into the final payable amount:
//
//	subtotal  = Σ línea.precio×cantidad + Σ promo.precio×cantidad
//	total     = max(0, subtotal + recargo − descuento − subtotal×pct/100 − cupón)
//
// The fixed discount and the percentage discount are both applied, additively.
// That mirrors the behavior of the system this replaces and is preserved on
// purpose; see DESIGN.md before "fixing" it. The zero floor is intentional:
// an order can never invoice negative.
func ComponerTotal(lineas []LineaCarrito, promos []PromocionCarrito, aj Ajustes) Totales {
	subtotal := decimal.Zero
	for _, l := range lineas {
		subtotal = subtotal.Add(l.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad))))
	}
	for _, p := range promos {
		subtotal = subtotal.Add(p.PrecioUnitario.Mul(decimal.NewFromInt(int64(p.Cantidad))))
	}

	descuento := clampCero(aj.DescuentoMonto)
	porcentaje := clampCero(aj.DescuentoPorcentaje)
	cupon := clampCero(aj.CuponMonto)
	recargo := clampCero(aj.Recargo)

	descuentoPct := subtotal.Mul(porcentaje).Div(cien)

	total := subtotal.Add(recargo).Sub(descuento).Sub(descuentoPct).Sub(cupon)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totales{
		Subtotal:            subtotal,
		DescuentoMonto:      descuento,
		DescuentoPorcentaje: descuentoPct,
		Cupon:               cupon,
		Recargo:             recargo,
		Total:               total,
	}
}

func clampCero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
