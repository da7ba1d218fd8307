package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"andespos/internal/dto"
	"andespos/internal/engine"
	"andespos/internal/model"
	"andespos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaService orchestrates checkout: it re-validates the draft promotions
// against current catalog data, composes the totals, reconciles the payment
// split and persists the sale together with its drawer movement in one
// transaction.
type VentaService interface {
	RegistrarVenta(ctx context.Context, operadorID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	RegistrarPagoPosterior(ctx context.Context, operadorID uuid.UUID, ventaID uuid.UUID, req dto.PagoPosteriorRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, operadorID uuid.UUID, ventaID uuid.UUID) (*dto.VentaResponse, error)
	GetVenta(ctx context.Context, ventaID uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	ventas   repository.VentaRepository
	turnos   repository.TurnoRepository
	turnoSvc TurnoService
	catalogo engine.Catalogo
}

func NewVentaService(ventas repository.VentaRepository, turnos repository.TurnoRepository, turnoSvc TurnoService, catalogo engine.Catalogo) VentaService {
	return &ventaService{ventas: ventas, turnos: turnos, turnoSvc: turnoSvc, catalogo: catalogo}
}

// runTx executes fn inside a transaction when a DB handle is present. Unit
// tests run the services against in-memory repositories with a nil handle;
// there fn runs directly and atomicity is the fake's problem.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenta ───────────────────────────────────────────────────────────

func (s *ventaService) RegistrarVenta(ctx context.Context, operadorID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	sesion, err := s.turnoSvc.SesionAbierta(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	turno, err := s.turnos.FindTurnoByID(ctx, sesion.TurnoID)
	if err != nil {
		return nil, &engine.ErrorColaborador{Op: "ledger.FindTurno", Err: err}
	}

	lineas, items, err := s.armarLineas(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	entradas, promos, err := s.armarPromos(ctx, req.Promos, turno.Etiqueta)
	if err != nil {
		return nil, err
	}

	totales := engine.ComponerTotal(lineas, entradas, engine.Ajustes{
		DescuentoMonto:      req.Ajustes.DescuentoMonto,
		DescuentoPorcentaje: req.Ajustes.DescuentoPorcentaje,
		CuponMonto:          req.Ajustes.CuponMonto,
		Recargo:             req.Ajustes.Recargo,
	})

	pagos := engine.DepurarPagos(pagosAEngine(req.Pagos))
	if err := engine.ValidarPagos(pagos, totales.Total, req.Cobrado); err != nil {
		return nil, err
	}

	venta := &model.Venta{
		TurnoID:             turno.ID,
		SesionCajaID:        sesion.ID,
		OperadorID:          operadorID,
		Subtotal:            totales.Subtotal,
		DescuentoMonto:      totales.DescuentoMonto,
		DescuentoPorcentaje: totales.DescuentoPorcentaje,
		CuponCodigo:         req.Ajustes.CuponCodigo,
		CuponMonto:          totales.Cupon,
		Recargo:             totales.Recargo,
		Total:               totales.Total,
		Vuelto:              engine.Vuelto(req.PagaCon, totales.Total),
		Items:               items,
		Promos:              promos,
		Pagos:               pagosAModel(pagos),
	}
	if req.Cobrado {
		venta.EstadoCobro = model.CobroCobrada
		venta.Saldo = decimal.Zero
	} else {
		venta.EstadoCobro = model.CobroPendiente
		venta.Saldo = totales.Total
	}

	// The sale and its drawer movement commit or roll back together: a sale
	// without its movimiento would break the theoretical balance for good.
	err = runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		if err := s.ventas.CreateTx(tx, venta); err != nil {
			return err
		}
		if req.Cobrado {
			return s.turnos.CreateMovimientoTx(tx, movimientoVenta(venta, operadorID))
		}
		return nil
	})
	if err != nil {
		return nil, &engine.ErrorColaborador{Op: "ledger.RegistrarVenta", Err: err}
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("sesion_caja_id", sesion.ID.String()).
		Str("total", venta.Total.StringFixed(2)).
		Str("estado_cobro", venta.EstadoCobro).
		Msg("venta registrada")

	return ventaADTO(venta), nil
}

// armarLineas resolves each requested item against the catalog and freezes
// the price snapshot. Unknown or inactive products reject the whole sale.
func (s *ventaService) armarLineas(ctx context.Context, items []dto.ItemVentaRequest) ([]engine.LineaCarrito, []model.VentaItem, error) {
	lineas := make([]engine.LineaCarrito, 0, len(items))
	persistidos := make([]model.VentaItem, 0, len(items))
	for _, it := range items {
		productoID, err := uuid.Parse(it.ProductoID)
		if err != nil {
			return nil, nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if it.Cantidad <= 0 {
			return nil, nil, &engine.ErrorValidacion{Motivo: engine.MotivoCantidadInvalida, Detalle: "la cantidad debe ser mayor a cero"}
		}
		prod, err := s.catalogo.Producto(ctx, productoID)
		if err != nil {
			if errors.Is(err, engine.ErrNoEncontrado) {
				return nil, nil, &engine.ErrorValidacion{Motivo: engine.MotivoProductoFaltante, Detalle: "producto " + it.ProductoID + " no disponible"}
			}
			return nil, nil, &engine.ErrorColaborador{Op: "catalogo.Producto", Err: err}
		}
		lineas = append(lineas, engine.LineaCarrito{
			ProductoID:     prod.ID,
			Nombre:         prod.Nombre,
			PrecioUnitario: prod.Precio,
			Cantidad:       it.Cantidad,
		})
		persistidos = append(persistidos, model.VentaItem{
			ProductoID:     prod.ID,
			Nombre:         prod.Nombre,
			PrecioUnitario: prod.Precio,
			Cantidad:       it.Cantidad,
		})
	}
	return lineas, persistidos, nil
}

// armarPromos re-runs the full promotion validation server-side at commit
// time: template eligibility for the shift, then the structural rules. Client
// drafts are never trusted.
func (s *ventaService) armarPromos(ctx context.Context, drafts []dto.SeleccionDTO, etiquetaTurno string) ([]engine.PromocionCarrito, []model.VentaPromocion, error) {
	entradas := make([]engine.PromocionCarrito, 0, len(drafts))
	persistidas := make([]model.VentaPromocion, 0, len(drafts))
	ahora := time.Now()

	for _, draft := range drafts {
		sel, err := SeleccionAEngine(draft)
		if err != nil {
			return nil, nil, err
		}
		plantilla, err := s.catalogo.Plantilla(ctx, sel.PlantillaID)
		if err != nil {
			if errors.Is(err, engine.ErrNoEncontrado) {
				return nil, nil, &engine.ErrorValidacion{Motivo: engine.MotivoProductoFaltante, Detalle: "plantilla " + draft.PlantillaID + " no disponible"}
			}
			return nil, nil, &engine.ErrorColaborador{Op: "catalogo.Plantilla", Err: err}
		}
		if !plantilla.EsElegible(ahora, etiquetaTurno) {
			return nil, nil, &engine.ErrorValidacion{Motivo: engine.MotivoNoElegible, Detalle: "la promoción " + plantilla.Nombre + " no está vigente para este turno"}
		}
		entrada, err := engine.Validar(ctx, sel, plantilla, s.catalogo)
		if err != nil {
			return nil, nil, err
		}
		entradas = append(entradas, *entrada)
		persistidas = append(persistidas, promoAModel(entrada))
	}
	return entradas, persistidas, nil
}

// ── RegistrarPagoPosterior ───────────────────────────────────────────────────
// Pays down a pending/partial sale. Overpayment is rejected; the exact-match
// tolerance applies only to the final payment that settles the balance.

func (s *ventaService) RegistrarPagoPosterior(ctx context.Context, operadorID uuid.UUID, ventaID uuid.UUID, req dto.PagoPosteriorRequest) (*dto.VentaResponse, error) {
	venta, err := s.ventas.FindByID(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	if venta.EstadoCobro == model.CobroCobrada || venta.EstadoCobro == model.CobroAnulada {
		return nil, &engine.ErrorPago{Motivo: engine.MotivoMontoNoCoincide, Detalle: "la venta no admite más pagos"}
	}

	pagos := engine.DepurarPagos(pagosAEngine(req.Pagos))
	if len(pagos) == 0 {
		return nil, &engine.ErrorPago{Motivo: engine.MotivoSinPagos, Detalle: "se requiere al menos un pago válido"}
	}
	monto := engine.SumaPagos(pagos)
	if monto.GreaterThan(venta.Saldo.Add(decimal.NewFromFloat(0.02))) {
		return nil, &engine.ErrorPago{Motivo: engine.MotivoMontoNoCoincide, Detalle: "el pago supera el saldo pendiente"}
	}

	saldo := engine.Saldo(venta.Saldo, monto)
	estado := model.CobroParcial
	if saldo.IsZero() {
		estado = model.CobroCobrada
	}

	nuevos := pagosAModel(pagos)
	err = runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		if err := s.ventas.AddPagosTx(tx, venta.ID, nuevos); err != nil {
			return err
		}
		if err := s.ventas.UpdateCobroTx(tx, venta.ID, estado, saldo); err != nil {
			return err
		}
		mov := movimientoVenta(venta, operadorID)
		mov.Monto = monto
		return s.turnos.CreateMovimientoTx(tx, mov)
	})
	if err != nil {
		return nil, &engine.ErrorColaborador{Op: "ledger.PagoPosterior", Err: err}
	}

	venta.Pagos = append(venta.Pagos, nuevos...)
	venta.Saldo = saldo
	venta.EstadoCobro = estado
	return ventaADTO(venta), nil
}

// ── AnularVenta ──────────────────────────────────────────────────────────────
// Movements are append-only, so a void never deletes the original venta
// movement: it appends a compensating ajuste for the amount already collected.

func (s *ventaService) AnularVenta(ctx context.Context, operadorID uuid.UUID, ventaID uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.ventas.FindByID(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	if venta.EstadoCobro == model.CobroAnulada {
		return nil, &engine.ErrorTurno{Motivo: engine.MotivoYaCerrado, Detalle: "la venta ya fue anulada"}
	}

	cobrado := venta.Total.Sub(venta.Saldo)
	err = runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		if err := s.ventas.UpdateCobroTx(tx, venta.ID, model.CobroAnulada, decimal.Zero); err != nil {
			return err
		}
		if cobrado.IsZero() {
			return nil
		}
		return s.turnos.CreateMovimientoTx(tx, &model.MovimientoCaja{
			TurnoID:      venta.TurnoID,
			SesionCajaID: venta.SesionCajaID,
			Tipo:         string(engine.TipoAjuste),
			Monto:        cobrado.Neg(),
			Descripcion:  "anulación de venta " + venta.ID.String(),
			OperadorID:   operadorID,
			ReferenciaID: &venta.ID,
		})
	})
	if err != nil {
		return nil, &engine.ErrorColaborador{Op: "ledger.AnularVenta", Err: err}
	}

	log.Warn().Str("venta_id", venta.ID.String()).Str("revertido", cobrado.StringFixed(2)).Msg("venta anulada")

	venta.EstadoCobro = model.CobroAnulada
	venta.Saldo = decimal.Zero
	return ventaADTO(venta), nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *ventaService) GetVenta(ctx context.Context, ventaID uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.ventas.FindByID(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	return ventaADTO(venta), nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	ventas, total, err := s.ventas.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaADTO(&ventas[i]))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Conversions ──────────────────────────────────────────────────────────────

func movimientoVenta(v *model.Venta, operadorID uuid.UUID) *model.MovimientoCaja {
	return &model.MovimientoCaja{
		TurnoID:      v.TurnoID,
		SesionCajaID: v.SesionCajaID,
		Tipo:         string(engine.TipoVenta),
		Monto:        v.Total,
		Descripcion:  "venta " + v.ID.String(),
		OperadorID:   operadorID,
		ReferenciaID: &v.ID,
	}
}

func pagosAEngine(reqs []dto.PagoRequest) []engine.Pago {
	pagos := make([]engine.Pago, 0, len(reqs))
	for _, p := range reqs {
		pagos = append(pagos, engine.Pago{Metodo: p.Metodo, Monto: p.Monto})
	}
	return pagos
}

func pagosAModel(pagos []engine.Pago) []model.VentaPago {
	out := make([]model.VentaPago, 0, len(pagos))
	for _, p := range pagos {
		out = append(out, model.VentaPago{Metodo: p.Metodo, Monto: p.Monto})
	}
	return out
}

func promoAModel(e *engine.PromocionCarrito) model.VentaPromocion {
	detalle := make([]model.VentaPromocionDetalle, 0, len(e.Detalle))
	for _, d := range e.Detalle {
		detalle = append(detalle, model.VentaPromocionDetalle{
			ConfigID:   d.ConfigID,
			ProductoID: d.ProductoID,
			Cantidad:   d.Cantidad,
		})
	}
	return model.VentaPromocion{
		PlantillaID:    e.PlantillaID,
		Nombre:         e.Nombre,
		Cantidad:       e.Cantidad,
		PrecioUnitario: e.PrecioUnitario,
		Detalle:        detalle,
	}
}

func ventaADTO(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, dto.ItemVentaResponse{
			ProductoID:     it.ProductoID.String(),
			Nombre:         it.Nombre,
			PrecioUnitario: it.PrecioUnitario,
			Cantidad:       it.Cantidad,
		})
	}
	promos := make([]dto.PromocionCarritoDTO, 0, len(v.Promos))
	for _, p := range v.Promos {
		detalle := make([]dto.DetallePromocionDTO, 0, len(p.Detalle))
		for _, d := range p.Detalle {
			detalle = append(detalle, dto.DetallePromocionDTO{
				ConfigID:   d.ConfigID.String(),
				ProductoID: d.ProductoID.String(),
				Cantidad:   d.Cantidad,
			})
		}
		promos = append(promos, dto.PromocionCarritoDTO{
			PlantillaID:    p.PlantillaID.String(),
			Nombre:         p.Nombre,
			Cantidad:       p.Cantidad,
			PrecioUnitario: p.PrecioUnitario,
			Detalle:        detalle,
		})
	}
	pagos := make([]dto.PagoRequest, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		pagos = append(pagos, dto.PagoRequest{Metodo: p.Metodo, Monto: p.Monto})
	}
	return &dto.VentaResponse{
		ID:                  v.ID.String(),
		TurnoID:             v.TurnoID.String(),
		SesionCajaID:        v.SesionCajaID.String(),
		Items:               items,
		Promos:              promos,
		Subtotal:            v.Subtotal,
		DescuentoMonto:      v.DescuentoMonto,
		DescuentoPorcentaje: v.DescuentoPorcentaje,
		CuponMonto:          v.CuponMonto,
		Recargo:             v.Recargo,
		Total:               v.Total,
		Vuelto:              v.Vuelto,
		Saldo:               v.Saldo,
		EstadoCobro:         v.EstadoCobro,
		Pagos:               pagos,
		CreatedAt:           v.CreatedAt.Format(time.RFC3339),
	}
}
