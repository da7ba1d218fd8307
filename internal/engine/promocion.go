package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TurnoTodos is the shift tag that makes a template valid on every shift.
const TurnoTodos = "todos"

// ConfigCategoria is one category slot of a promotion template: the operator
// must pick products of that category whose quantities add up to a value in
// [CantidadMinima, CantidadMaxima]. CantidadMaxima 0 means no upper bound.
type ConfigCategoria struct {
	ID                  uuid.UUID
	CategoriaID         uuid.UUID
	AplicaTodaCategoria bool
	ProductoFijoID      *uuid.UUID
	CantidadMinima      int
	CantidadMaxima      int
}

// PlantillaPromocion is the immutable promotion definition from the catalog.
type PlantillaPromocion struct {
	ID             uuid.UUID
	Nombre         string
	PrecioFinal    decimal.Decimal
	Configs        []ConfigCategoria
	VigenciaDesde  time.Time
	VigenciaHasta  *time.Time
	DiasSemana     []time.Weekday
	TurnoPermitido string // "todos" | "manana" | "tarde" | "noche"
	MaxPorOrden    int    // 0 = sin tope
}

// EsElegible reports whether the template can be offered right now: today's
// weekday is allowed, the shift tag matches (or the template accepts every
// shift) and the date falls inside the validity window.
func (p *PlantillaPromocion) EsElegible(ahora time.Time, etiquetaTurno string) bool {
	if ahora.Before(p.VigenciaDesde) {
		return false
	}
	if p.VigenciaHasta != nil && ahora.After(*p.VigenciaHasta) {
		return false
	}
	if p.TurnoPermitido != TurnoTodos && p.TurnoPermitido != etiquetaTurno {
		return false
	}
	for _, d := range p.DiasSemana {
		if d == ahora.Weekday() {
			return true
		}
	}
	return false
}

func (p *PlantillaPromocion) config(configID uuid.UUID) *ConfigCategoria {
	for i := range p.Configs {
		if p.Configs[i].ID == configID {
			return &p.Configs[i]
		}
	}
	return nil
}

// ItemSeleccion is one product pick inside a selection, tied to the config
// slot it counts against.
type ItemSeleccion struct {
	ConfigID    uuid.UUID
	CategoriaID uuid.UUID
	ProductoID  *uuid.UUID
	Cantidad    int
}

// SeleccionPromocion is the operator's working draft for one promotion.
// It only becomes a cart entry after Validar succeeds.
type SeleccionPromocion struct {
	PlantillaID   uuid.UUID
	CantidadOrden int
	Items         []ItemSeleccion
}

func (s *SeleccionPromocion) cantidadPorConfig(configID uuid.UUID) int {
	total := 0
	for _, it := range s.Items {
		if it.ConfigID == configID {
			total += it.Cantidad
		}
	}
	return total
}

// DetallePromocion is one frozen product line of a committed promotion.
type DetallePromocion struct {
	ConfigID   uuid.UUID
	ProductoID uuid.UUID
	Cantidad   int
}

// PromocionCarrito is the committed, immutable promotion cart entry. It is
// created only from a selection that passed Validar and is never edited
// afterwards, only removed.
type PromocionCarrito struct {
	PlantillaID    uuid.UUID
	Nombre         string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Detalle        []DetallePromocion
}

// IniciarSeleccion pre-populates a selection with one item per config slot:
// the fixed product when the config names one, otherwise the first catalog
// product of the category, with quantity max(CantidadMinima, 1).
func IniciarSeleccion(ctx context.Context, plantilla *PlantillaPromocion, cat Catalogo) (*SeleccionPromocion, error) {
	sel := &SeleccionPromocion{
		PlantillaID:   plantilla.ID,
		CantidadOrden: 1,
	}
	for _, cfg := range plantilla.Configs {
		item, err := itemPorDefecto(ctx, &cfg, cat)
		if err != nil {
			return nil, err
		}
		item.Cantidad = cfg.CantidadMinima
		if item.Cantidad < 1 {
			item.Cantidad = 1
		}
		sel.Items = append(sel.Items, *item)
	}
	return sel, nil
}

// AgregarItem appends one more pick (quantity 1, default product) for the
// given config slot. When the slot's aggregate already reached a non-zero
// CantidadMaxima the selection stays untouched and a tope_excedido error is
// returned.
func AgregarItem(ctx context.Context, sel *SeleccionPromocion, plantilla *PlantillaPromocion, configID uuid.UUID, cat Catalogo) error {
	cfg := plantilla.config(configID)
	if cfg == nil {
		return &ErrorValidacion{Motivo: MotivoCantidadInvalida, ConfigID: configID, Detalle: "configuración desconocida"}
	}
	if cfg.CantidadMaxima > 0 && sel.cantidadPorConfig(configID) >= cfg.CantidadMaxima {
		return &ErrorValidacion{Motivo: MotivoTopeExcedido, ConfigID: configID, Detalle: "la categoría ya alcanzó su cantidad máxima"}
	}
	item, err := itemPorDefecto(ctx, cfg, cat)
	if err != nil {
		return err
	}
	item.Cantidad = 1
	sel.Items = append(sel.Items, *item)
	return nil
}

// ActualizarCantidad changes one item's quantity. An update that would push
// the slot's aggregate above a non-zero CantidadMaxima fails with
// tope_excedido and leaves the selection unchanged.
func ActualizarCantidad(sel *SeleccionPromocion, plantilla *PlantillaPromocion, indice, cantidad int) error {
	if indice < 0 || indice >= len(sel.Items) {
		return &ErrorValidacion{Motivo: MotivoCantidadInvalida, Detalle: "índice fuera de rango"}
	}
	item := &sel.Items[indice]
	cfg := plantilla.config(item.ConfigID)
	if cfg != nil && cfg.CantidadMaxima > 0 {
		resto := sel.cantidadPorConfig(item.ConfigID) - item.Cantidad
		if resto+cantidad > cfg.CantidadMaxima {
			return &ErrorValidacion{Motivo: MotivoTopeExcedido, ConfigID: item.ConfigID, Detalle: "la cantidad supera el máximo de la categoría"}
		}
	}
	item.Cantidad = cantidad
	return nil
}

// ActualizarProducto swaps the product of one item.
func ActualizarProducto(sel *SeleccionPromocion, indice int, productoID uuid.UUID) error {
	if indice < 0 || indice >= len(sel.Items) {
		return &ErrorValidacion{Motivo: MotivoCantidadInvalida, Detalle: "índice fuera de rango"}
	}
	sel.Items[indice].ProductoID = &productoID
	return nil
}

// QuitarItem removes one item from the selection.
func QuitarItem(sel *SeleccionPromocion, indice int) error {
	if indice < 0 || indice >= len(sel.Items) {
		return &ErrorValidacion{Motivo: MotivoCantidadInvalida, Detalle: "índice fuera de rango"}
	}
	sel.Items = append(sel.Items[:indice], sel.Items[indice+1:]...)
	return nil
}

// Validar checks the whole selection against its template and, on success,
// freezes it into an immutable cart entry priced at the template's final
// price. The selection itself is not consumed.
func Validar(ctx context.Context, sel *SeleccionPromocion, plantilla *PlantillaPromocion, cat Catalogo) (*PromocionCarrito, error) {
	if plantilla.MaxPorOrden > 0 && sel.CantidadOrden > plantilla.MaxPorOrden {
		return nil, &ErrorValidacion{Motivo: MotivoTopeExcedido, Detalle: "supera el máximo por orden"}
	}

	for _, it := range sel.Items {
		if it.ProductoID == nil {
			return nil, &ErrorValidacion{Motivo: MotivoProductoFaltante, ConfigID: it.ConfigID}
		}
		if it.Cantidad <= 0 {
			return nil, &ErrorValidacion{Motivo: MotivoCantidadInvalida, ConfigID: it.ConfigID}
		}
		p, err := cat.Producto(ctx, *it.ProductoID)
		if err != nil {
			return nil, &ErrorColaborador{Op: "catalogo.Producto", Err: err}
		}
		if !p.EnCategoria(it.CategoriaID) {
			return nil, &ErrorValidacion{Motivo: MotivoProductoFaltante, ConfigID: it.ConfigID, Detalle: "el producto no pertenece a la categoría"}
		}
	}

	for _, cfg := range plantilla.Configs {
		total := sel.cantidadPorConfig(cfg.ID)
		if total < cfg.CantidadMinima {
			return nil, &ErrorValidacion{Motivo: MotivoBajoMinimo, ConfigID: cfg.ID}
		}
		if cfg.CantidadMaxima > 0 && total > cfg.CantidadMaxima {
			return nil, &ErrorValidacion{Motivo: MotivoSobreMaximo, ConfigID: cfg.ID}
		}
	}

	cantidad := sel.CantidadOrden
	if cantidad < 1 {
		cantidad = 1
	}
	entrada := &PromocionCarrito{
		PlantillaID:    plantilla.ID,
		Nombre:         plantilla.Nombre,
		Cantidad:       cantidad,
		PrecioUnitario: plantilla.PrecioFinal,
	}
	for _, it := range sel.Items {
		entrada.Detalle = append(entrada.Detalle, DetallePromocion{
			ConfigID:   it.ConfigID,
			ProductoID: *it.ProductoID,
			Cantidad:   it.Cantidad,
		})
	}
	return entrada, nil
}

// RevalidarEntrada re-checks a committed entry against its template. Frozen
// entries never violate the bounds that created them, but stale entries from
// a previous session are re-checked here before checkout.
func RevalidarEntrada(ctx context.Context, entrada *PromocionCarrito, plantilla *PlantillaPromocion, cat Catalogo) error {
	sel := &SeleccionPromocion{PlantillaID: entrada.PlantillaID, CantidadOrden: entrada.Cantidad}
	for _, d := range entrada.Detalle {
		cfg := plantilla.config(d.ConfigID)
		if cfg == nil {
			return &ErrorValidacion{Motivo: MotivoCantidadInvalida, ConfigID: d.ConfigID, Detalle: "configuración desconocida"}
		}
		pid := d.ProductoID
		sel.Items = append(sel.Items, ItemSeleccion{
			ConfigID:    d.ConfigID,
			CategoriaID: cfg.CategoriaID,
			ProductoID:  &pid,
			Cantidad:    d.Cantidad,
		})
	}
	_, err := Validar(ctx, sel, plantilla, cat)
	return err
}

func itemPorDefecto(ctx context.Context, cfg *ConfigCategoria, cat Catalogo) (*ItemSeleccion, error) {
	item := &ItemSeleccion{ConfigID: cfg.ID, CategoriaID: cfg.CategoriaID}
	if !cfg.AplicaTodaCategoria && cfg.ProductoFijoID != nil {
		pid := *cfg.ProductoFijoID
		item.ProductoID = &pid
		return item, nil
	}
	productos, err := cat.ProductosPorCategoria(ctx, cfg.CategoriaID)
	if err != nil {
		return nil, &ErrorColaborador{Op: "catalogo.ProductosPorCategoria", Err: err}
	}
	if len(productos) > 0 {
		pid := productos[0].ID
		item.ProductoID = &pid
	}
	return item, nil
}
