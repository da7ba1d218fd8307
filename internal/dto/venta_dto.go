package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// AjustesRequest mirrors the checkout adjustment panel. Negative values are
// accepted and clamped to zero by the engine, never rejected.
type AjustesRequest struct {
	DescuentoMonto      decimal.Decimal `json:"descuento_monto"`
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje"`
	CuponCodigo         *string         `json:"cupon_codigo"`
	CuponMonto          decimal.Decimal `json:"cupon_monto"`
	Recargo             decimal.Decimal `json:"recargo"`
}

type PagoRequest struct {
	Metodo string          `json:"metodo" validate:"omitempty,oneof=efectivo debito credito transferencia"`
	Monto  decimal.Decimal `json:"monto"`
}

type RegistrarVentaRequest struct {
	SesionCajaID string             `json:"sesion_caja_id" validate:"required,uuid"`
	Items        []ItemVentaRequest `json:"items"          validate:"dive"`
	// Promos are draft selections validated server-side at commit time; each
	// one that passes becomes a frozen entry on the stored sale.
	Promos  []SeleccionDTO  `json:"promos"  validate:"dive"`
	Ajustes AjustesRequest  `json:"ajustes"`
	PagaCon decimal.Decimal `json:"paga_con"`
	Cobrado bool            `json:"cobrado"`
	Pagos   []PagoRequest   `json:"pagos" validate:"dive"`
}

type PagoPosteriorRequest struct {
	Pagos []PagoRequest `json:"pagos" validate:"required,min=1,dive"`
}

type VentaFilter struct {
	EstadoCobro string `form:"estado_cobro"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       int             `json:"cantidad"`
}

type VentaResponse struct {
	ID                  string                `json:"id"`
	TurnoID             string                `json:"turno_id"`
	SesionCajaID        string                `json:"sesion_caja_id"`
	Items               []ItemVentaResponse   `json:"items"`
	Promos              []PromocionCarritoDTO `json:"promos"`
	Subtotal            decimal.Decimal       `json:"subtotal"`
	DescuentoMonto      decimal.Decimal       `json:"descuento_monto"`
	DescuentoPorcentaje decimal.Decimal       `json:"descuento_porcentaje"`
	CuponMonto          decimal.Decimal       `json:"cupon_monto"`
	Recargo             decimal.Decimal       `json:"recargo"`
	Total               decimal.Decimal       `json:"total"`
	Vuelto              decimal.Decimal       `json:"vuelto"`
	Saldo               decimal.Decimal       `json:"saldo"`
	EstadoCobro         string                `json:"estado_cobro"`
	Pagos               []PagoRequest         `json:"pagos"`
	CreatedAt           string                `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
