package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"andespos/internal/dto"
	"andespos/internal/engine"
	"andespos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory venta repository ───────────────────────────────────────────────

type memVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newMemVentaRepo() *memVentaRepo {
	return &memVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *memVentaRepo) DB() *gorm.DB { return nil }

func (r *memVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	cp := *v
	r.ventas[v.ID] = &cp
	return nil
}

func (r *memVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *memVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if filter.EstadoCobro == "" || v.EstadoCobro == filter.EstadoCobro {
			out = append(out, *v)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memVentaRepo) AddPagosTx(_ *gorm.DB, ventaID uuid.UUID, pagos []model.VentaPago) error {
	v, ok := r.ventas[ventaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Pagos = append(v.Pagos, pagos...)
	return nil
}

func (r *memVentaRepo) UpdateCobroTx(_ *gorm.DB, ventaID uuid.UUID, estado string, saldo decimal.Decimal) error {
	v, ok := r.ventas[ventaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.EstadoCobro = estado
	v.Saldo = saldo
	return nil
}

// ── Catalog stub ─────────────────────────────────────────────────────────────

type catalogoStub struct {
	productos  map[uuid.UUID]engine.ProductoCatalogo
	plantillas map[uuid.UUID]*engine.PlantillaPromocion
}

func (c *catalogoStub) Producto(_ context.Context, id uuid.UUID) (*engine.ProductoCatalogo, error) {
	p, ok := c.productos[id]
	if !ok {
		return nil, engine.ErrNoEncontrado
	}
	return &p, nil
}

func (c *catalogoStub) ProductosPorCategoria(_ context.Context, categoriaID uuid.UUID) ([]engine.ProductoCatalogo, error) {
	var out []engine.ProductoCatalogo
	for _, p := range c.productos {
		if p.EnCategoria(categoriaID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *catalogoStub) Plantilla(_ context.Context, id uuid.UUID) (*engine.PlantillaPromocion, error) {
	p, ok := c.plantillas[id]
	if !ok {
		return nil, engine.ErrNoEncontrado
	}
	return p, nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type ventaFixture struct {
	turnoRepo *memTurnoRepo
	ventaRepo *memVentaRepo
	catalogo  *catalogoStub
	turnoSvc  TurnoService
	ventaSvc  VentaService
	operador  uuid.UUID
	caja      *dto.CajaResponse

	cafe   uuid.UUID
	tostado uuid.UUID
}

func newVentaFixture(t *testing.T) *ventaFixture {
	t.Helper()
	f := &ventaFixture{
		turnoRepo: newMemTurnoRepo(),
		ventaRepo: newMemVentaRepo(),
		operador:  uuid.New(),
		cafe:      uuid.New(),
		tostado:   uuid.New(),
	}
	f.catalogo = &catalogoStub{
		productos: map[uuid.UUID]engine.ProductoCatalogo{
			f.cafe:    {ID: f.cafe, Nombre: "Café", Precio: decimal.NewFromInt(200)},
			f.tostado: {ID: f.tostado, Nombre: "Tostado", Precio: decimal.NewFromInt(400)},
		},
		plantillas: map[uuid.UUID]*engine.PlantillaPromocion{},
	}
	f.turnoSvc = NewTurnoService(f.turnoRepo, nil)
	f.ventaSvc = NewVentaService(f.ventaRepo, f.turnoRepo, f.turnoSvc, f.catalogo)

	_, caja := abrirTurnoYCaja(t, f.turnoSvc, decimal.NewFromInt(1000))
	f.caja = caja
	return f
}

func (f *ventaFixture) registrar(t *testing.T, req dto.RegistrarVentaRequest) *dto.VentaResponse {
	t.Helper()
	req.SesionCajaID = f.caja.ID
	resp, err := f.ventaSvc.RegistrarVenta(context.Background(), f.operador, req)
	require.NoError(t, err)
	return resp
}

// ── RegistrarVenta ───────────────────────────────────────────────────────────

func TestRegistrarVentaCobrada(t *testing.T) {
	f := newVentaFixture(t)

	resp := f.registrar(t, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{
			{ProductoID: f.cafe.String(), Cantidad: 2},  // 400
			{ProductoID: f.tostado.String(), Cantidad: 1}, // 400
		},
		Cobrado: true,
		PagaCon: decimal.NewFromInt(1000),
		Pagos:   []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(800)}},
	})

	assert.True(t, resp.Total.Equal(decimal.NewFromInt(800)))
	assert.True(t, resp.Vuelto.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, model.CobroCobrada, resp.EstadoCobro)
	assert.True(t, resp.Saldo.IsZero())

	// Exactly one venta movement for the full total
	require.Len(t, f.turnoRepo.movimientos, 1)
	mov := f.turnoRepo.movimientos[0]
	assert.Equal(t, string(engine.TipoVenta), mov.Tipo)
	assert.True(t, mov.Monto.Equal(decimal.NewFromInt(800)))
	require.NotNil(t, mov.ReferenciaID)
	assert.Equal(t, resp.ID, mov.ReferenciaID.String())
}

func TestRegistrarVentaConAjustes(t *testing.T) {
	f := newVentaFixture(t)

	resp := f.registrar(t, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: f.tostado.String(), Cantidad: 1}}, // 400
		Ajustes: dto.AjustesRequest{
			DescuentoMonto:      decimal.NewFromInt(50),
			DescuentoPorcentaje: decimal.NewFromInt(10), // 40
			Recargo:             decimal.NewFromInt(20),
		},
		Cobrado: true,
		Pagos:   []dto.PagoRequest{{Metodo: "debito", Monto: decimal.NewFromInt(330)}},
	})
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(330)), "got %s", resp.Total)
}

func TestRegistrarVentaPagosNoCoinciden(t *testing.T) {
	f := newVentaFixture(t)

	_, err := f.ventaSvc.RegistrarVenta(context.Background(), f.operador, dto.RegistrarVentaRequest{
		SesionCajaID: f.caja.ID,
		Items:        []dto.ItemVentaRequest{{ProductoID: f.tostado.String(), Cantidad: 1}},
		Cobrado:      true,
		Pagos:        []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(300)}},
	})
	var ePago *engine.ErrorPago
	require.True(t, errors.As(err, &ePago))
	assert.Equal(t, engine.MotivoMontoNoCoincide, ePago.Motivo)
	assert.Empty(t, f.ventaRepo.ventas)
	assert.Empty(t, f.turnoRepo.movimientos)
}

func TestRegistrarVentaProductoInexistente(t *testing.T) {
	f := newVentaFixture(t)

	_, err := f.ventaSvc.RegistrarVenta(context.Background(), f.operador, dto.RegistrarVentaRequest{
		SesionCajaID: f.caja.ID,
		Items:        []dto.ItemVentaRequest{{ProductoID: uuid.NewString(), Cantidad: 1}},
		Cobrado:      false,
	})
	var eVal *engine.ErrorValidacion
	require.True(t, errors.As(err, &eVal))
	assert.Equal(t, engine.MotivoProductoFaltante, eVal.Motivo)
}

func TestRegistrarVentaConCajaCerrada(t *testing.T) {
	f := newVentaFixture(t)
	contado := decimal.NewFromInt(1000)
	_, err := f.turnoSvc.CerrarCaja(context.Background(), f.operador, dto.CerrarCajaRequest{
		SesionCajaID: f.caja.ID, MontoContado: &contado,
	})
	require.NoError(t, err)

	_, err = f.ventaSvc.RegistrarVenta(context.Background(), f.operador, dto.RegistrarVentaRequest{
		SesionCajaID: f.caja.ID,
		Items:        []dto.ItemVentaRequest{{ProductoID: f.cafe.String(), Cantidad: 1}},
	})
	var eTurno *engine.ErrorTurno
	require.True(t, errors.As(err, &eTurno))
	assert.Equal(t, engine.MotivoSinCajaAbierta, eTurno.Motivo)
}

func TestRegistrarVentaPendienteNoMueveCaja(t *testing.T) {
	f := newVentaFixture(t)

	resp := f.registrar(t, dto.RegistrarVentaRequest{
		Items:   []dto.ItemVentaRequest{{ProductoID: f.tostado.String(), Cantidad: 2}}, // 800
		Cobrado: false,
	})
	assert.Equal(t, model.CobroPendiente, resp.EstadoCobro)
	assert.True(t, resp.Saldo.Equal(decimal.NewFromInt(800)))
	assert.Empty(t, f.turnoRepo.movimientos)
}

// ── Promociones en la venta ──────────────────────────────────────────────────

func (f *ventaFixture) plantillaCafeteria() (*engine.PlantillaPromocion, dto.SeleccionDTO) {
	categoria := uuid.New()
	// Re-tag products with the category so the selection validates
	cafe := f.catalogo.productos[f.cafe]
	cafe.Categorias = []uuid.UUID{categoria}
	f.catalogo.productos[f.cafe] = cafe

	config := engine.ConfigCategoria{
		ID:                  uuid.New(),
		CategoriaID:         categoria,
		AplicaTodaCategoria: true,
		CantidadMinima:      1,
		CantidadMaxima:      2,
	}
	plantilla := &engine.PlantillaPromocion{
		ID:             uuid.New(),
		Nombre:         "Merienda",
		PrecioFinal:    decimal.NewFromInt(350),
		VigenciaDesde:  time.Now().AddDate(0, -1, 0),
		DiasSemana:     []time.Weekday{0, 1, 2, 3, 4, 5, 6},
		TurnoPermitido: engine.TurnoTodos,
		Configs:        []engine.ConfigCategoria{config},
	}
	f.catalogo.plantillas[plantilla.ID] = plantilla

	productoID := f.cafe.String()
	draft := dto.SeleccionDTO{
		PlantillaID:   plantilla.ID.String(),
		CantidadOrden: 1,
		Items: []dto.ItemSeleccionDTO{{
			ConfigID:    config.ID.String(),
			CategoriaID: categoria.String(),
			ProductoID:  &productoID,
			Cantidad:    1,
		}},
	}
	return plantilla, draft
}

func TestRegistrarVentaConPromocion(t *testing.T) {
	f := newVentaFixture(t)
	_, draft := f.plantillaCafeteria()

	resp := f.registrar(t, dto.RegistrarVentaRequest{
		Items:   []dto.ItemVentaRequest{{ProductoID: f.tostado.String(), Cantidad: 1}}, // 400
		Promos:  []dto.SeleccionDTO{draft},                                            // 350
		Cobrado: true,
		Pagos:   []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(750)}},
	})

	assert.True(t, resp.Total.Equal(decimal.NewFromInt(750)))
	require.Len(t, resp.Promos, 1)
	assert.Equal(t, "Merienda", resp.Promos[0].Nombre)
	require.Len(t, resp.Promos[0].Detalle, 1)
	assert.Equal(t, f.cafe.String(), resp.Promos[0].Detalle[0].ProductoID)
}

func TestRegistrarVentaPromocionNoElegible(t *testing.T) {
	f := newVentaFixture(t)
	plantilla, draft := f.plantillaCafeteria()
	plantilla.TurnoPermitido = "noche" // fixture opens a "manana" turno

	_, err := f.ventaSvc.RegistrarVenta(context.Background(), f.operador, dto.RegistrarVentaRequest{
		SesionCajaID: f.caja.ID,
		Promos:       []dto.SeleccionDTO{draft},
		Cobrado:      false,
	})
	var eVal *engine.ErrorValidacion
	require.True(t, errors.As(err, &eVal))
	assert.Equal(t, engine.MotivoNoElegible, eVal.Motivo)
}

// ── Pagos posteriores ────────────────────────────────────────────────────────

func TestPagoPosteriorParcialYCancelacionTotal(t *testing.T) {
	f := newVentaFixture(t)
	venta := f.registrar(t, dto.RegistrarVentaRequest{
		Items:   []dto.ItemVentaRequest{{ProductoID: f.tostado.String(), Cantidad: 2}}, // 800
		Cobrado: false,
	})
	ventaID, _ := uuid.Parse(venta.ID)

	parcial, err := f.ventaSvc.RegistrarPagoPosterior(context.Background(), f.operador, ventaID, dto.PagoPosteriorRequest{
		Pagos: []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(300)}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.CobroParcial, parcial.EstadoCobro)
	assert.True(t, parcial.Saldo.Equal(decimal.NewFromInt(500)))
	require.Len(t, f.turnoRepo.movimientos, 1)
	assert.True(t, f.turnoRepo.movimientos[0].Monto.Equal(decimal.NewFromInt(300)))

	final, err := f.ventaSvc.RegistrarPagoPosterior(context.Background(), f.operador, ventaID, dto.PagoPosteriorRequest{
		Pagos: []dto.PagoRequest{{Metodo: "transferencia", Monto: decimal.NewFromInt(500)}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.CobroCobrada, final.EstadoCobro)
	assert.True(t, final.Saldo.IsZero())
	assert.Len(t, f.turnoRepo.movimientos, 2)
}

func TestPagoPosteriorNoSobrepaga(t *testing.T) {
	f := newVentaFixture(t)
	venta := f.registrar(t, dto.RegistrarVentaRequest{
		Items:   []dto.ItemVentaRequest{{ProductoID: f.cafe.String(), Cantidad: 1}}, // 200
		Cobrado: false,
	})
	ventaID, _ := uuid.Parse(venta.ID)

	_, err := f.ventaSvc.RegistrarPagoPosterior(context.Background(), f.operador, ventaID, dto.PagoPosteriorRequest{
		Pagos: []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(500)}},
	})
	var ePago *engine.ErrorPago
	require.True(t, errors.As(err, &ePago))
	assert.Equal(t, engine.MotivoMontoNoCoincide, ePago.Motivo)
}

// ── Anulación ────────────────────────────────────────────────────────────────

func TestAnularVentaCobradaRevierteConAjuste(t *testing.T) {
	f := newVentaFixture(t)
	venta := f.registrar(t, dto.RegistrarVentaRequest{
		Items:   []dto.ItemVentaRequest{{ProductoID: f.tostado.String(), Cantidad: 1}}, // 400
		Cobrado: true,
		Pagos:   []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(400)}},
	})
	ventaID, _ := uuid.Parse(venta.ID)

	resp, err := f.ventaSvc.AnularVenta(context.Background(), f.operador, ventaID)
	require.NoError(t, err)
	assert.Equal(t, model.CobroAnulada, resp.EstadoCobro)

	// venta movement stays, compensating ajuste appended
	require.Len(t, f.turnoRepo.movimientos, 2)
	ajuste := f.turnoRepo.movimientos[1]
	assert.Equal(t, string(engine.TipoAjuste), ajuste.Tipo)
	assert.True(t, ajuste.Monto.Equal(decimal.NewFromInt(-400)))

	// The balance nets out to the opening float
	sesionID, _ := uuid.Parse(f.caja.ID)
	balance, err := f.turnoSvc.Balance(context.Background(), sesionID)
	require.NoError(t, err)
	assert.True(t, balance.Teorico.Equal(decimal.NewFromInt(1000)))

	_, err = f.ventaSvc.AnularVenta(context.Background(), f.operador, ventaID)
	assert.Error(t, err)
}

func TestAnularVentaPendienteNoMueveCaja(t *testing.T) {
	f := newVentaFixture(t)
	venta := f.registrar(t, dto.RegistrarVentaRequest{
		Items:   []dto.ItemVentaRequest{{ProductoID: f.cafe.String(), Cantidad: 1}},
		Cobrado: false,
	})
	ventaID, _ := uuid.Parse(venta.ID)

	resp, err := f.ventaSvc.AnularVenta(context.Background(), f.operador, ventaID)
	require.NoError(t, err)
	assert.Equal(t, model.CobroAnulada, resp.EstadoCobro)
	assert.Empty(t, f.turnoRepo.movimientos)
}

// ── Listado ──────────────────────────────────────────────────────────────────

func TestListVentasFiltraPorEstado(t *testing.T) {
	f := newVentaFixture(t)
	f.registrar(t, dto.RegistrarVentaRequest{
		Items:   []dto.ItemVentaRequest{{ProductoID: f.cafe.String(), Cantidad: 1}},
		Cobrado: true,
		Pagos:   []dto.PagoRequest{{Metodo: "efectivo", Monto: decimal.NewFromInt(200)}},
	})
	f.registrar(t, dto.RegistrarVentaRequest{
		Items:   []dto.ItemVentaRequest{{ProductoID: f.cafe.String(), Cantidad: 1}},
		Cobrado: false,
	})

	pendientes, err := f.ventaSvc.ListVentas(context.Background(), dto.VentaFilter{EstadoCobro: model.CobroPendiente})
	require.NoError(t, err)
	assert.EqualValues(t, 1, pendientes.Total)

	todas, err := f.ventaSvc.ListVentas(context.Background(), dto.VentaFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, todas.Total)
}
