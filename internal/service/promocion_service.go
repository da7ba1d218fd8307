package service

import (
	"context"
	"fmt"
	"time"

	"andespos/internal/dto"
	"andespos/internal/engine"
	"andespos/internal/model"
	"andespos/internal/repository"

	"github.com/google/uuid"
)

// PromocionService wraps the promotion rule engine for the HTTP layer. Every
// operation is stateless: the draft selection travels complete in the request
// and comes back mutated (or unchanged, on a rejected operation).
type PromocionService interface {
	Elegibles(ctx context.Context, etiquetaTurno string, ahora time.Time) ([]dto.PlantillaResponse, error)
	IniciarSeleccion(ctx context.Context, req dto.IniciarSeleccionRequest) (*dto.SeleccionDTO, error)
	OperarItem(ctx context.Context, req dto.ItemSeleccionRequest) (*dto.SeleccionDTO, error)
	Validar(ctx context.Context, req dto.ValidarSeleccionRequest) (*dto.PromocionCarritoDTO, error)
}

type promocionService struct {
	promos   repository.PromocionRepository
	catalogo engine.Catalogo
}

func NewPromocionService(promos repository.PromocionRepository, catalogo engine.Catalogo) PromocionService {
	return &promocionService{promos: promos, catalogo: catalogo}
}

// Elegibles returns the templates that can be offered right now for the given
// shift tag.
func (s *promocionService) Elegibles(ctx context.Context, etiquetaTurno string, ahora time.Time) ([]dto.PlantillaResponse, error) {
	plantillas, err := s.promos.ListActivas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlantillaResponse, 0, len(plantillas))
	for i := range plantillas {
		if plantillas[i].AEngine().EsElegible(ahora, etiquetaTurno) {
			out = append(out, plantillaADTO(&plantillas[i]))
		}
	}
	return out, nil
}

func (s *promocionService) IniciarSeleccion(ctx context.Context, req dto.IniciarSeleccionRequest) (*dto.SeleccionDTO, error) {
	plantilla, err := s.plantilla(ctx, req.PlantillaID)
	if err != nil {
		return nil, err
	}
	sel, err := engine.IniciarSeleccion(ctx, plantilla, s.catalogo)
	if err != nil {
		return nil, err
	}
	resp := seleccionADTO(sel)
	return &resp, nil
}

func (s *promocionService) OperarItem(ctx context.Context, req dto.ItemSeleccionRequest) (*dto.SeleccionDTO, error) {
	sel, err := SeleccionAEngine(req.Seleccion)
	if err != nil {
		return nil, err
	}
	plantilla, err := s.plantilla(ctx, req.Seleccion.PlantillaID)
	if err != nil {
		return nil, err
	}

	switch req.Op {
	case "agregar":
		configID, err := uuid.Parse(req.ConfigID)
		if err != nil {
			return nil, fmt.Errorf("config_id inválido: %w", err)
		}
		if err := engine.AgregarItem(ctx, sel, plantilla, configID, s.catalogo); err != nil {
			return nil, err
		}
	case "cantidad":
		if err := engine.ActualizarCantidad(sel, plantilla, req.Indice, req.Cantidad); err != nil {
			return nil, err
		}
	case "producto":
		productoID, err := uuid.Parse(req.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if err := engine.ActualizarProducto(sel, req.Indice, productoID); err != nil {
			return nil, err
		}
	case "quitar":
		if err := engine.QuitarItem(sel, req.Indice); err != nil {
			return nil, err
		}
	}

	resp := seleccionADTO(sel)
	return &resp, nil
}

func (s *promocionService) Validar(ctx context.Context, req dto.ValidarSeleccionRequest) (*dto.PromocionCarritoDTO, error) {
	sel, err := SeleccionAEngine(req.Seleccion)
	if err != nil {
		return nil, err
	}
	plantilla, err := s.plantilla(ctx, req.Seleccion.PlantillaID)
	if err != nil {
		return nil, err
	}
	entrada, err := engine.Validar(ctx, sel, plantilla, s.catalogo)
	if err != nil {
		return nil, err
	}
	resp := entradaADTO(entrada)
	return &resp, nil
}

func (s *promocionService) plantilla(ctx context.Context, id string) (*engine.PlantillaPromocion, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("plantilla_id inválido: %w", err)
	}
	return s.catalogo.Plantilla(ctx, pid)
}

// ── Conversiones DTO ↔ engine ────────────────────────────────────────────────

// SeleccionAEngine parses the wire selection into the engine's type. Exported
// because VentaService validates draft selections at commit time.
func SeleccionAEngine(d dto.SeleccionDTO) (*engine.SeleccionPromocion, error) {
	plantillaID, err := uuid.Parse(d.PlantillaID)
	if err != nil {
		return nil, fmt.Errorf("plantilla_id inválido: %w", err)
	}
	sel := &engine.SeleccionPromocion{PlantillaID: plantillaID, CantidadOrden: d.CantidadOrden}
	for _, it := range d.Items {
		configID, err := uuid.Parse(it.ConfigID)
		if err != nil {
			return nil, fmt.Errorf("config_id inválido: %w", err)
		}
		categoriaID, err := uuid.Parse(it.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		item := engine.ItemSeleccion{ConfigID: configID, CategoriaID: categoriaID, Cantidad: it.Cantidad}
		if it.ProductoID != nil {
			pid, err := uuid.Parse(*it.ProductoID)
			if err != nil {
				return nil, fmt.Errorf("producto_id inválido: %w", err)
			}
			item.ProductoID = &pid
		}
		sel.Items = append(sel.Items, item)
	}
	return sel, nil
}

func seleccionADTO(sel *engine.SeleccionPromocion) dto.SeleccionDTO {
	out := dto.SeleccionDTO{
		PlantillaID:   sel.PlantillaID.String(),
		CantidadOrden: sel.CantidadOrden,
	}
	for _, it := range sel.Items {
		item := dto.ItemSeleccionDTO{
			ConfigID:    it.ConfigID.String(),
			CategoriaID: it.CategoriaID.String(),
			Cantidad:    it.Cantidad,
		}
		if it.ProductoID != nil {
			pid := it.ProductoID.String()
			item.ProductoID = &pid
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func entradaADTO(e *engine.PromocionCarrito) dto.PromocionCarritoDTO {
	out := dto.PromocionCarritoDTO{
		PlantillaID:    e.PlantillaID.String(),
		Nombre:         e.Nombre,
		Cantidad:       e.Cantidad,
		PrecioUnitario: e.PrecioUnitario,
	}
	for _, d := range e.Detalle {
		out.Detalle = append(out.Detalle, dto.DetallePromocionDTO{
			ConfigID:   d.ConfigID.String(),
			ProductoID: d.ProductoID.String(),
			Cantidad:   d.Cantidad,
		})
	}
	return out
}

func plantillaADTO(p *model.PlantillaPromocion) dto.PlantillaResponse {
	out := dto.PlantillaResponse{
		ID:             p.ID.String(),
		Nombre:         p.Nombre,
		PrecioFinal:    p.PrecioFinal,
		DiasSemana:     p.DiasSemana,
		TurnoPermitido: p.TurnoPermitido,
		VigenciaDesde:  p.VigenciaDesde.Format("2006-01-02"),
		MaxPorOrden:    p.MaxPorOrden,
	}
	if p.VigenciaHasta != nil {
		hasta := p.VigenciaHasta.Format("2006-01-02")
		out.VigenciaHasta = &hasta
	}
	for _, cfg := range p.Configs {
		c := dto.ConfigCategoriaResponse{
			ConfigID:            cfg.ID.String(),
			CategoriaID:         cfg.CategoriaID.String(),
			AplicaTodaCategoria: cfg.AplicaTodaCategoria,
			CantidadMinima:      cfg.CantidadMinima,
			CantidadMaxima:      cfg.CantidadMaxima,
		}
		if cfg.ProductoFijoID != nil {
			pid := cfg.ProductoFijoID.String()
			c.ProductoFijoID = &pid
		}
		out.Configs = append(out.Configs, c)
	}
	return out
}
