package service

import (
	"context"
	"errors"
	"testing"

	"andespos/internal/dto"
	"andespos/internal/engine"
	"andespos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory Ledger fake ────────────────────────────────────────────────────

type memTurnoRepo struct {
	turnos      map[uuid.UUID]*model.Turno
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
}

func newMemTurnoRepo() *memTurnoRepo {
	return &memTurnoRepo{
		turnos:   make(map[uuid.UUID]*model.Turno),
		sesiones: make(map[uuid.UUID]*model.SesionCaja),
	}
}

func (r *memTurnoRepo) CreateTurno(_ context.Context, t *model.Turno) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.turnos[t.ID] = &cp
	return nil
}

func (r *memTurnoRepo) FindTurnoByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTurnoRepo) FindTurnoAbiertoPorPDV(_ context.Context, pdv int) (*model.Turno, error) {
	for _, t := range r.turnos {
		if t.PuntoDeVenta == pdv && t.Estado == model.EstadoAbierto {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTurnoRepo) UpdateTurno(_ context.Context, t *model.Turno) error {
	cp := *t
	r.turnos[t.ID] = &cp
	return nil
}

func (r *memTurnoRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sesiones[s.ID] = &cp
	return nil
}

func (r *memTurnoRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memTurnoRepo) FindSesionAbiertaPorPDV(_ context.Context, pdv int) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.PuntoDeVenta == pdv && s.Estado == model.EstadoAbierto {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTurnoRepo) FindSesionAbiertaPorTurno(_ context.Context, turnoID uuid.UUID) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.TurnoID == turnoID && s.Estado == model.EstadoAbierto {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTurnoRepo) UpdateSesion(_ context.Context, s *model.SesionCaja) error {
	cp := *s
	r.sesiones[s.ID] = &cp
	return nil
}

func (r *memTurnoRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *memTurnoRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoCaja) error {
	return r.CreateMovimiento(context.Background(), m)
}

func (r *memTurnoRepo) ListMovimientosPorSesion(_ context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memTurnoRepo) ListMovimientosPorTurno(_ context.Context, turnoID uuid.UUID) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.TurnoID == turnoID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func abrirTurnoYCaja(t *testing.T, svc TurnoService, apertura decimal.Decimal) (*dto.TurnoResponse, *dto.CajaResponse) {
	t.Helper()
	operador := uuid.New()
	turno, err := svc.AbrirTurno(context.Background(), operador, dto.AbrirTurnoRequest{
		PuntoDeVenta: 1,
		SaldoInicial: apertura,
		Etiqueta:     "manana",
	})
	require.NoError(t, err)

	caja, err := svc.AbrirCaja(context.Background(), operador, dto.AbrirCajaRequest{
		TurnoID:       turno.ID,
		MontoApertura: apertura,
	})
	require.NoError(t, err)
	return turno, caja
}

func movimiento(repo *memTurnoRepo, t *testing.T, cajaID string, tipo string, monto decimal.Decimal) {
	t.Helper()
	sesionID, err := uuid.Parse(cajaID)
	require.NoError(t, err)
	sesion := repo.sesiones[sesionID]
	require.NoError(t, repo.CreateMovimiento(context.Background(), &model.MovimientoCaja{
		TurnoID:      sesion.TurnoID,
		SesionCajaID: sesionID,
		Tipo:         tipo,
		Monto:        monto,
		OperadorID:   uuid.New(),
	}))
}

// ── AbrirTurno / AbrirCaja ───────────────────────────────────────────────────

func TestAbrirTurnoYaAbiertoEsRecuperable(t *testing.T) {
	repo := newMemTurnoRepo()
	svc := NewTurnoService(repo, nil)

	primero, err := svc.AbrirTurno(context.Background(), uuid.New(), dto.AbrirTurnoRequest{
		PuntoDeVenta: 1, SaldoInicial: decimal.NewFromInt(1000), Etiqueta: "manana",
	})
	require.NoError(t, err)

	_, err = svc.AbrirTurno(context.Background(), uuid.New(), dto.AbrirTurnoRequest{
		PuntoDeVenta: 1, SaldoInicial: decimal.NewFromInt(500), Etiqueta: "manana",
	})
	var eTurno *engine.ErrorTurno
	require.True(t, errors.As(err, &eTurno))
	assert.Equal(t, engine.MotivoYaAbierto, eTurno.Motivo)
	assert.True(t, eTurno.Recuperable)
	require.NotNil(t, eTurno.ExistenteID)
	assert.Equal(t, primero.ID, eTurno.ExistenteID.String())

	// Another location is unaffected
	_, err = svc.AbrirTurno(context.Background(), uuid.New(), dto.AbrirTurnoRequest{
		PuntoDeVenta: 2, SaldoInicial: decimal.NewFromInt(500), Etiqueta: "manana",
	})
	assert.NoError(t, err)
}

func TestAbrirCajaRequiereTurnoAbierto(t *testing.T) {
	repo := newMemTurnoRepo()
	svc := NewTurnoService(repo, nil)

	_, err := svc.AbrirCaja(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		TurnoID: uuid.NewString(), MontoApertura: decimal.NewFromInt(1000),
	})
	var eTurno *engine.ErrorTurno
	require.True(t, errors.As(err, &eTurno))
	assert.Equal(t, engine.MotivoSinTurnoAbierto, eTurno.Motivo)
	assert.False(t, eTurno.Recuperable)
}

func TestAbrirCajaYaAbiertaEsRecuperable(t *testing.T) {
	repo := newMemTurnoRepo()
	svc := NewTurnoService(repo, nil)
	turno, caja := abrirTurnoYCaja(t, svc, decimal.NewFromInt(1000))

	_, err := svc.AbrirCaja(context.Background(), uuid.New(), dto.AbrirCajaRequest{
		TurnoID: turno.ID, MontoApertura: decimal.NewFromInt(200),
	})
	var eTurno *engine.ErrorTurno
	require.True(t, errors.As(err, &eTurno))
	assert.True(t, eTurno.Recuperable)
	require.NotNil(t, eTurno.ExistenteID)
	assert.Equal(t, caja.ID, eTurno.ExistenteID.String())
}

// ── Retiro ───────────────────────────────────────────────────────────────────

func TestRetiroMontoInvalido(t *testing.T) {
	repo := newMemTurnoRepo()
	svc := NewTurnoService(repo, nil)
	_, caja := abrirTurnoYCaja(t, svc, decimal.NewFromInt(1000))

	for _, monto := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		err := svc.Retirar(context.Background(), uuid.New(), dto.RetiroRequest{
			SesionCajaID: caja.ID, Monto: monto, Motivo: "pago proveedor",
		})
		var eTurno *engine.ErrorTurno
		require.True(t, errors.As(err, &eTurno))
		assert.Equal(t, engine.MotivoMontoInvalido, eTurno.Motivo)
	}
	assert.Empty(t, repo.movimientos)
}

func TestRetiroRegistraMovimiento(t *testing.T) {
	repo := newMemTurnoRepo()
	svc := NewTurnoService(repo, nil)
	_, caja := abrirTurnoYCaja(t, svc, decimal.NewFromInt(1000))

	err := svc.Retirar(context.Background(), uuid.New(), dto.RetiroRequest{
		SesionCajaID: caja.ID, Monto: decimal.NewFromInt(300), Motivo: "pago proveedor",
	})
	require.NoError(t, err)
	require.Len(t, repo.movimientos, 1)
	assert.Equal(t, string(engine.TipoRetiro), repo.movimientos[0].Tipo)
	assert.True(t, repo.movimientos[0].Monto.Equal(decimal.NewFromInt(300)))
}

// ── Balance ──────────────────────────────────────────────────────────────────

func TestBalanceEsIdempotente(t *testing.T) {
	repo := newMemTurnoRepo()
	svc := NewTurnoService(repo, nil)
	_, caja := abrirTurnoYCaja(t, svc, decimal.NewFromInt(1000))

	movimiento(repo, t, caja.ID, string(engine.TipoVenta), decimal.NewFromInt(500))
	movimiento(repo, t, caja.ID, string(engine.TipoEgreso), decimal.NewFromInt(120))
	movimiento(repo, t, caja.ID, string(engine.TipoAjuste), decimal.NewFromInt(-20))

	sesionID, _ := uuid.Parse(caja.ID)
	primero, err := svc.Balance(context.Background(), sesionID)
	require.NoError(t, err)
	segundo, err := svc.Balance(context.Background(), sesionID)
	require.NoError(t, err)

	assert.True(t, primero.Teorico.Equal(decimal.NewFromInt(1360)))
	assert.True(t, primero.Teorico.Equal(segundo.Teorico))
	assert.True(t, primero.IngresoNeto.Equal(segundo.IngresoNeto))
	assert.True(t, primero.EgresoNeto.Equal(segundo.EgresoNeto))
}

// ── CerrarCaja ───────────────────────────────────────────────────────────────

func TestCerrarCajaClasificaDesvio(t *testing.T) {
	cases := []struct {
		nombre        string
		contado       decimal.Decimal
		clasificacion string
	}{
		{"exacto", decimal.NewFromInt(1500), "normal"},
		{"dentro del uno por ciento", decimal.NewFromFloat(1510), "normal"},
		{"advertencia", decimal.NewFromInt(1560), "advertencia"},
		{"critico faltante", decimal.NewFromInt(1300), "critico"},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			repo := newMemTurnoRepo()
			svc := NewTurnoService(repo, nil)
			_, caja := abrirTurnoYCaja(t, svc, decimal.NewFromInt(1000))
			movimiento(repo, t, caja.ID, string(engine.TipoVenta), decimal.NewFromInt(500))

			arqueo, err := svc.CerrarCaja(context.Background(), uuid.New(), dto.CerrarCajaRequest{
				SesionCajaID: caja.ID, MontoContado: &tc.contado,
			})
			require.NoError(t, err)
			assert.True(t, arqueo.Teorico.Equal(decimal.NewFromInt(1500)))
			assert.True(t, arqueo.Contado.Equal(tc.contado))
			assert.Equal(t, tc.clasificacion, arqueo.Clasificacion)
		})
	}
}

func TestCerrarCajaSinMontoContadoCierraSinDesvio(t *testing.T) {
	repo := newMemTurnoRepo()
	svc := NewTurnoService(repo, nil)
	_, caja := abrirTurnoYCaja(t, svc, decimal.NewFromInt(1000))
	movimiento(repo, t, caja.ID, string(engine.TipoVenta), decimal.NewFromInt(250))

	arqueo, err := svc.CerrarCaja(context.Background(), uuid.New(), dto.CerrarCajaRequest{SesionCajaID: caja.ID})
	require.NoError(t, err)
	assert.True(t, arqueo.Desvio.IsZero())
	assert.Equal(t, "normal", arqueo.Clasificacion)
	assert.True(t, arqueo.Contado.Equal(arqueo.Teorico))
}

func TestCerrarCajaCongelaLaSesion(t *testing.T) {
	repo := newMemTurnoRepo()
	svc := NewTurnoService(repo, nil)
	_, caja := abrirTurnoYCaja(t, svc, decimal.NewFromInt(1000))

	contado := decimal.NewFromInt(1000)
	_, err := svc.CerrarCaja(context.Background(), uuid.New(), dto.CerrarCajaRequest{
		SesionCajaID: caja.ID, MontoContado: &contado,
	})
	require.NoError(t, err)

	// Second close and withdrawals are rejected
	_, err = svc.CerrarCaja(context.Background(), uuid.New(), dto.CerrarCajaRequest{
		SesionCajaID: caja.ID, MontoContado: &contado,
	})
	var eTurno *engine.ErrorTurno
	require.True(t, errors.As(err, &eTurno))
	assert.Equal(t, engine.MotivoSinCajaAbierta, eTurno.Motivo)

	err = svc.Retirar(context.Background(), uuid.New(), dto.RetiroRequest{
		SesionCajaID: caja.ID, Monto: decimal.NewFromInt(10), Motivo: "tarde",
	})
	require.True(t, errors.As(err, &eTurno))
}

// ── CerrarTurno ──────────────────────────────────────────────────────────────

func TestCerrarTurnoConCajaAbiertaAdvierte(t *testing.T) {
	repo := newMemTurnoRepo()
	svc := NewTurnoService(repo, nil)
	turno, _ := abrirTurnoYCaja(t, svc, decimal.NewFromInt(1000))

	turnoID, _ := uuid.Parse(turno.ID)
	resp, err := svc.CerrarTurno(context.Background(), turnoID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoCerrado, resp.Estado)
	require.NotNil(t, resp.Advertencia)
	assert.Contains(t, *resp.Advertencia, "caja")
}

func TestCerrarTurnoYaCerrado(t *testing.T) {
	repo := newMemTurnoRepo()
	svc := NewTurnoService(repo, nil)

	turno, err := svc.AbrirTurno(context.Background(), uuid.New(), dto.AbrirTurnoRequest{
		PuntoDeVenta: 1, SaldoInicial: decimal.NewFromInt(100), Etiqueta: "tarde",
	})
	require.NoError(t, err)

	turnoID, _ := uuid.Parse(turno.ID)
	resp, err := svc.CerrarTurno(context.Background(), turnoID)
	require.NoError(t, err)
	assert.Nil(t, resp.Advertencia)

	_, err = svc.CerrarTurno(context.Background(), turnoID)
	var eTurno *engine.ErrorTurno
	require.True(t, errors.As(err, &eTurno))
	assert.Equal(t, engine.MotivoYaCerrado, eTurno.Motivo)
}

// ── clasificarDesvio ─────────────────────────────────────────────────────────

func TestClasificarDesvioUmbrales(t *testing.T) {
	assert.Equal(t, "normal", clasificarDesvio(decimal.Zero))
	assert.Equal(t, "normal", clasificarDesvio(decimal.NewFromInt(1)))
	assert.Equal(t, "normal", clasificarDesvio(decimal.NewFromInt(-1)))
	assert.Equal(t, "advertencia", clasificarDesvio(decimal.NewFromFloat(1.01)))
	assert.Equal(t, "advertencia", clasificarDesvio(decimal.NewFromInt(5)))
	assert.Equal(t, "critico", clasificarDesvio(decimal.NewFromFloat(-5.01)))
	assert.Equal(t, "critico", clasificarDesvio(decimal.NewFromInt(40)))
}
