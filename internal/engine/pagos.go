package engine

import "github.com/shopspring/decimal"

// Pago is one line of a payment split. Metodo is the payment method name
// ("efectivo", "debito", "credito", "transferencia"); a line without a method
// or with a non-positive amount is discarded before validation.
type Pago struct {
	Metodo string
	Monto  decimal.Decimal
}

// toleranciaPago absorbs floating-point rounding from upstream clients.
// It is not a business tolerance.
var toleranciaPago = decimal.NewFromFloat(0.02)

// Vuelto computes the change due. An unset or non-positive tendered amount
// defaults to the total (exact payment, zero change); the result is never
// negative.
func Vuelto(pagaCon, total decimal.Decimal) decimal.Decimal {
	if pagaCon.LessThanOrEqual(decimal.Zero) {
		pagaCon = total
	}
	vuelto := pagaCon.Sub(total)
	if vuelto.IsNegative() {
		return decimal.Zero
	}
	return vuelto
}

// DepurarPagos drops lines with a missing method or a non-positive amount.
func DepurarPagos(pagos []Pago) []Pago {
	limpios := make([]Pago, 0, len(pagos))
	for _, p := range pagos {
		if p.Metodo == "" || p.Monto.LessThanOrEqual(decimal.Zero) {
			continue
		}
		limpios = append(limpios, p)
	}
	return limpios
}

// SumaPagos returns the sum of the given payment lines.
func SumaPagos(pagos []Pago) decimal.Decimal {
	suma := decimal.Zero
	for _, p := range pagos {
		suma = suma.Add(p.Monto)
	}
	return suma
}

// ValidarPagos checks a payment split against the payable total. When the
// sale is not charged now (cobrado=false) the lines are ignored entirely and
// the sale is recorded as pending. When charged, the cleaned lines must be
// non-empty and sum to the total within the rounding tolerance.
func ValidarPagos(pagos []Pago, total decimal.Decimal, cobrado bool) error {
	if !cobrado {
		return nil
	}
	limpios := DepurarPagos(pagos)
	if len(limpios) == 0 {
		return &ErrorPago{Motivo: MotivoSinPagos}
	}
	if SumaPagos(limpios).Sub(total).Abs().GreaterThan(toleranciaPago) {
		return &ErrorPago{Motivo: MotivoMontoNoCoincide, Detalle: "la suma de pagos no coincide con el total"}
	}
	return nil
}

// Saldo returns the outstanding balance of a sale, never negative. Used at
// checkout and when amending the payment lines of an already-recorded sale.
func Saldo(total, pagado decimal.Decimal) decimal.Decimal {
	saldo := total.Sub(pagado)
	if saldo.IsNegative() {
		return decimal.Zero
	}
	return saldo
}
