package dto

import "github.com/shopspring/decimal"

// ─── Turno ───────────────────────────────────────────────────────────────────

type AbrirTurnoRequest struct {
	PuntoDeVenta int             `json:"punto_de_venta" validate:"required,min=1"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial"  validate:"min=0"`
	Etiqueta     string          `json:"etiqueta"       validate:"required,oneof=manana tarde noche"`
}

type TurnoResponse struct {
	ID           string          `json:"id"`
	PuntoDeVenta int             `json:"punto_de_venta"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial"`
	Etiqueta     string          `json:"etiqueta"`
	Estado       string          `json:"estado"`
	OpenedAt     string          `json:"opened_at"`
	ClosedAt     *string         `json:"closed_at"`
}

type CerrarTurnoResponse struct {
	ID     string `json:"id"`
	Estado string `json:"estado"`
	// Advertencia is set when the turno closed with its caja still open
	Advertencia *string `json:"advertencia"`
}

// ─── Caja ────────────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	TurnoID       string          `json:"turno_id"       validate:"required,uuid"`
	MontoApertura decimal.Decimal `json:"monto_apertura" validate:"min=0"`
}

type CajaResponse struct {
	ID            string          `json:"id"`
	TurnoID       string          `json:"turno_id"`
	PuntoDeVenta  int             `json:"punto_de_venta"`
	MontoApertura decimal.Decimal `json:"monto_apertura"`
	Estado        string          `json:"estado"`
	OpenedAt      string          `json:"opened_at"`
}

type RetiroRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Monto        decimal.Decimal `json:"monto"`
	Motivo       string          `json:"motivo" validate:"required,min=3"`
}

type CerrarCajaRequest struct {
	SesionCajaID string `json:"sesion_caja_id" validate:"required,uuid"`
	// MontoContado omitted means "trust the theoretical balance": the drawer
	// closes with variance zero.
	MontoContado *decimal.Decimal `json:"monto_contado"`
}

type ArqueoResponse struct {
	SesionCajaID  string                     `json:"sesion_caja_id"`
	MontoApertura decimal.Decimal            `json:"monto_apertura"`
	Teorico       decimal.Decimal            `json:"teorico"`
	Contado       decimal.Decimal            `json:"contado"`
	Desvio        decimal.Decimal            `json:"desvio"`
	DesvioPct     decimal.Decimal            `json:"desvio_pct"`
	Clasificacion string                     `json:"clasificacion"` // normal | advertencia | critico
	Totales       map[string]decimal.Decimal `json:"totales_por_tipo"`
	Estado        string                     `json:"estado"`
}

// BalanceResponse is the live theoretical balance view, recomputed from the
// movement list on every call — polling it is idempotent.
type BalanceResponse struct {
	SesionCajaID  string                     `json:"sesion_caja_id"`
	MontoApertura decimal.Decimal            `json:"monto_apertura"`
	Totales       map[string]decimal.Decimal `json:"totales_por_tipo"`
	IngresoNeto   decimal.Decimal            `json:"ingreso_neto"`
	EgresoNeto    decimal.Decimal            `json:"egreso_neto"`
	Teorico       decimal.Decimal            `json:"teorico"`
}
