package dto

import "github.com/shopspring/decimal"

// ─── Selection DTOs ──────────────────────────────────────────────────────────
// The selection travels complete in every request: the API is stateless, so a
// stale client can always re-submit and get re-validated against current data.

type ItemSeleccionDTO struct {
	ConfigID    string  `json:"config_id"    validate:"required,uuid"`
	CategoriaID string  `json:"categoria_id" validate:"required,uuid"`
	ProductoID  *string `json:"producto_id"  validate:"omitempty,uuid"`
	Cantidad    int     `json:"cantidad"`
}

type SeleccionDTO struct {
	PlantillaID   string             `json:"plantilla_id" validate:"required,uuid"`
	CantidadOrden int                `json:"cantidad_orden"`
	Items         []ItemSeleccionDTO `json:"items"`
}

// ElegiblesRequest scopes the template listing to the shift asking for it.
type ElegiblesRequest struct {
	EtiquetaTurno string `json:"etiqueta_turno" validate:"required,oneof=manana tarde noche"`
}

type IniciarSeleccionRequest struct {
	PlantillaID string `json:"plantilla_id" validate:"required,uuid"`
}

// ItemSeleccionRequest mutates one selection in a single round trip.
// Op: "agregar" | "cantidad" | "producto" | "quitar"
type ItemSeleccionRequest struct {
	Seleccion  SeleccionDTO `json:"seleccion"  validate:"required"`
	Op         string       `json:"op"         validate:"required,oneof=agregar cantidad producto quitar"`
	ConfigID   string       `json:"config_id"  validate:"omitempty,uuid"`
	Indice     int          `json:"indice"`
	Cantidad   int          `json:"cantidad"`
	ProductoID string       `json:"producto_id" validate:"omitempty,uuid"`
}

type ValidarSeleccionRequest struct {
	Seleccion SeleccionDTO `json:"seleccion" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ConfigCategoriaResponse struct {
	ConfigID            string  `json:"config_id"`
	CategoriaID         string  `json:"categoria_id"`
	AplicaTodaCategoria bool    `json:"aplica_toda_categoria"`
	ProductoFijoID      *string `json:"producto_fijo_id"`
	CantidadMinima      int     `json:"cantidad_minima"`
	CantidadMaxima      int     `json:"cantidad_maxima"`
}

type PlantillaResponse struct {
	ID             string                    `json:"id"`
	Nombre         string                    `json:"nombre"`
	PrecioFinal    decimal.Decimal           `json:"precio_final"`
	DiasSemana     string                    `json:"dias_semana"`
	TurnoPermitido string                    `json:"turno_permitido"`
	VigenciaDesde  string                    `json:"vigencia_desde"`
	VigenciaHasta  *string                   `json:"vigencia_hasta"`
	MaxPorOrden    int                       `json:"max_por_orden"`
	Configs        []ConfigCategoriaResponse `json:"configs"`
}

type DetallePromocionDTO struct {
	ConfigID   string `json:"config_id"`
	ProductoID string `json:"producto_id"`
	Cantidad   int    `json:"cantidad"`
}

// PromocionCarritoDTO is the committed, immutable cart entry. Once issued it
// is only ever removed, never edited.
type PromocionCarritoDTO struct {
	PlantillaID    string                `json:"plantilla_id"`
	Nombre         string                `json:"nombre"`
	Cantidad       int                   `json:"cantidad"`
	PrecioUnitario decimal.Decimal       `json:"precio_unitario"`
	Detalle        []DetallePromocionDTO `json:"detalle"`
}
