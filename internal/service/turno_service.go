package service

import (
	"context"
	"fmt"
	"time"

	"andespos/internal/dto"
	"andespos/internal/engine"
	"andespos/internal/model"
	"andespos/internal/repository"
	"andespos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TurnoService is the shift/drawer state machine:
//
//	sin turno → turno abierto → (caja abierta) → turno abierto → turno cerrado
//
// Transitions for the same punto de venta must be serialized by the caller —
// the recoverable "ya abierto" path depends on observing a consistent state.
type TurnoService interface {
	AbrirTurno(ctx context.Context, operadorID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error)
	CerrarTurno(ctx context.Context, turnoID uuid.UUID) (*dto.CerrarTurnoResponse, error)
	AbrirCaja(ctx context.Context, operadorID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error)
	Retirar(ctx context.Context, operadorID uuid.UUID, req dto.RetiroRequest) error
	CerrarCaja(ctx context.Context, operadorID uuid.UUID, req dto.CerrarCajaRequest) (*dto.ArqueoResponse, error)
	Balance(ctx context.Context, sesionID uuid.UUID) (*dto.BalanceResponse, error)
	// SesionAbierta is called by VentaService before committing a sale.
	SesionAbierta(ctx context.Context, sesionID uuid.UUID) (*model.SesionCaja, error)
}

type turnoService struct {
	repo       repository.TurnoRepository
	dispatcher *worker.Dispatcher
}

func NewTurnoService(repo repository.TurnoRepository, dispatcher *worker.Dispatcher) TurnoService {
	return &turnoService{repo: repo, dispatcher: dispatcher}
}

// ── AbrirTurno ────────────────────────────────────────────────────────────────

func (s *turnoService) AbrirTurno(ctx context.Context, operadorID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error) {
	// At most one open turno per punto de venta. A second open is a
	// recoverable conflict: hand back the existing turno, never abort.
	if existente, err := s.repo.FindTurnoAbiertoPorPDV(ctx, req.PuntoDeVenta); err == nil && existente != nil {
		return nil, engine.YaAbierto(existente.ID, "ya existe un turno abierto en este punto de venta")
	}

	turno := &model.Turno{
		PuntoDeVenta: req.PuntoDeVenta,
		OperadorID:   operadorID,
		SaldoInicial: req.SaldoInicial,
		Etiqueta:     req.Etiqueta,
		Estado:       model.EstadoAbierto,
		OpenedAt:     time.Now(),
	}
	if err := s.repo.CreateTurno(ctx, turno); err != nil {
		return nil, &engine.ErrorColaborador{Op: "ledger.CreateTurno", Err: err}
	}
	return turnoADTO(turno), nil
}

// ── CerrarTurno ───────────────────────────────────────────────────────────────
// Closing the turno does NOT require the caja to be closed first. That mirrors
// the system this replaces; the warning below is the hook for enforcing the
// ordering later without breaking existing clients.

func (s *turnoService) CerrarTurno(ctx context.Context, turnoID uuid.UUID) (*dto.CerrarTurnoResponse, error) {
	turno, err := s.repo.FindTurnoByID(ctx, turnoID)
	if err != nil {
		return nil, &engine.ErrorTurno{Motivo: engine.MotivoSinTurnoAbierto, Detalle: "turno no encontrado"}
	}
	if turno.Estado != model.EstadoAbierto {
		return nil, &engine.ErrorTurno{Motivo: engine.MotivoYaCerrado, Detalle: "el turno ya está cerrado"}
	}

	resp := &dto.CerrarTurnoResponse{ID: turno.ID.String(), Estado: model.EstadoCerrado}
	if sesion, err := s.repo.FindSesionAbiertaPorTurno(ctx, turnoID); err == nil && sesion != nil {
		advertencia := fmt.Sprintf("el turno cierra con la caja %s todavía abierta", sesion.ID)
		resp.Advertencia = &advertencia
		log.Warn().
			Str("turno_id", turnoID.String()).
			Str("sesion_caja_id", sesion.ID.String()).
			Msg("cierre de turno con caja abierta")
	}

	ahora := time.Now()
	turno.Estado = model.EstadoCerrado
	turno.ClosedAt = &ahora
	if err := s.repo.UpdateTurno(ctx, turno); err != nil {
		return nil, &engine.ErrorColaborador{Op: "ledger.UpdateTurno", Err: err}
	}
	return resp, nil
}

// ── AbrirCaja ─────────────────────────────────────────────────────────────────

func (s *turnoService) AbrirCaja(ctx context.Context, operadorID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	turnoID, err := uuid.Parse(req.TurnoID)
	if err != nil {
		return nil, fmt.Errorf("turno_id inválido: %w", err)
	}
	turno, err := s.repo.FindTurnoByID(ctx, turnoID)
	if err != nil || turno.Estado != model.EstadoAbierto {
		return nil, &engine.ErrorTurno{Motivo: engine.MotivoSinTurnoAbierto, Detalle: "se requiere un turno abierto para abrir la caja"}
	}

	// Recoverable conflict: route the operator to the drawer already open.
	if existente, err := s.repo.FindSesionAbiertaPorPDV(ctx, turno.PuntoDeVenta); err == nil && existente != nil {
		return nil, engine.YaAbierto(existente.ID, "ya existe una caja abierta en este punto de venta")
	}

	sesion := &model.SesionCaja{
		TurnoID:       turno.ID,
		PuntoDeVenta:  turno.PuntoDeVenta,
		OperadorID:    operadorID,
		MontoApertura: req.MontoApertura,
		Estado:        model.EstadoAbierto,
		OpenedAt:      time.Now(),
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		return nil, &engine.ErrorColaborador{Op: "ledger.CreateSesion", Err: err}
	}
	return cajaADTO(sesion), nil
}

// ── Retirar ───────────────────────────────────────────────────────────────────

func (s *turnoService) Retirar(ctx context.Context, operadorID uuid.UUID, req dto.RetiroRequest) error {
	if req.Monto.LessThanOrEqual(decimal.Zero) {
		return &engine.ErrorTurno{Motivo: engine.MotivoMontoInvalido, Detalle: "el monto del retiro debe ser mayor a cero"}
	}
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	sesion, err := s.SesionAbierta(ctx, sesionID)
	if err != nil {
		return err
	}

	mov := &model.MovimientoCaja{
		TurnoID:      sesion.TurnoID,
		SesionCajaID: sesion.ID,
		Tipo:         string(engine.TipoRetiro),
		Monto:        req.Monto,
		Descripcion:  req.Motivo,
		OperadorID:   operadorID,
	}
	if err := s.repo.CreateMovimiento(ctx, mov); err != nil {
		return &engine.ErrorColaborador{Op: "ledger.CreateMovimiento", Err: err}
	}
	return nil
}

// ── CerrarCaja ────────────────────────────────────────────────────────────────
// Freezes monto_cierre and the variance against the theoretical balance.
// An omitted counted amount closes the drawer at the theoretical value with
// variance zero.

func (s *turnoService) CerrarCaja(ctx context.Context, operadorID uuid.UUID, req dto.CerrarCajaRequest) (*dto.ArqueoResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, fmt.Errorf("sesion_caja_id inválido: %w", err)
	}
	sesion, err := s.SesionAbierta(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	movs, err := s.repo.ListMovimientosPorSesion(ctx, sesionID)
	if err != nil {
		return nil, &engine.ErrorColaborador{Op: "ledger.ListMovimientos", Err: err}
	}
	engineMovs := model.MovimientosAEngine(movs)
	teorico := engine.Teorico(sesion.MontoApertura, engineMovs)

	contado := teorico
	if req.MontoContado != nil {
		contado = *req.MontoContado
	}
	desvio := contado.Sub(teorico)

	var desvioPct decimal.Decimal
	if !teorico.IsZero() {
		desvioPct = desvio.Div(teorico).Mul(decimal.NewFromInt(100)).Round(2)
	}
	clasificacion := clasificarDesvio(desvioPct)

	ahora := time.Now()
	sesion.MontoTeorico = &teorico
	sesion.MontoCierre = &contado
	sesion.Desvio = &desvio
	sesion.DesvioPct = &desvioPct
	sesion.ClasificacionDesvio = &clasificacion
	sesion.Estado = model.EstadoCerrado
	sesion.ClosedAt = &ahora
	if err := s.repo.UpdateSesion(ctx, sesion); err != nil {
		return nil, &engine.ErrorColaborador{Op: "ledger.UpdateSesion", Err: err}
	}

	// Critical variances go to the supervisor asynchronously — best effort.
	if clasificacion == "critico" && s.dispatcher != nil {
		payload := worker.ArqueoJobPayload{
			SesionCajaID:  sesion.ID.String(),
			PuntoDeVenta:  sesion.PuntoDeVenta,
			MontoApertura: sesion.MontoApertura,
			Teorico:       teorico,
			Contado:       contado,
			Desvio:        desvio,
			DesvioPct:     desvioPct,
			Clasificacion: clasificacion,
		}
		if err := s.dispatcher.EnqueueArqueo(ctx, payload); err != nil {
			log.Error().Err(err).Str("sesion_caja_id", sesion.ID.String()).Msg("no se pudo encolar el reporte de arqueo")
		}
	}

	totales := engine.Agregar(engineMovs)
	return &dto.ArqueoResponse{
		SesionCajaID:  sesion.ID.String(),
		MontoApertura: sesion.MontoApertura,
		Teorico:       teorico,
		Contado:       contado,
		Desvio:        desvio,
		DesvioPct:     desvioPct,
		Clasificacion: clasificacion,
		Totales:       totalesADTO(totales),
		Estado:        model.EstadoCerrado,
	}, nil
}

// ── Balance ───────────────────────────────────────────────────────────────────
// Live theoretical balance for the polling refresh. Pure re-aggregation of
// the movement list: calling it twice always yields the same totals.

func (s *turnoService) Balance(ctx context.Context, sesionID uuid.UUID) (*dto.BalanceResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, &engine.ErrorTurno{Motivo: engine.MotivoSinCajaAbierta, Detalle: "sesión de caja no encontrada"}
	}
	movs, err := s.repo.ListMovimientosPorSesion(ctx, sesionID)
	if err != nil {
		return nil, &engine.ErrorColaborador{Op: "ledger.ListMovimientos", Err: err}
	}
	engineMovs := model.MovimientosAEngine(movs)
	totales := engine.Agregar(engineMovs)

	return &dto.BalanceResponse{
		SesionCajaID:  sesion.ID.String(),
		MontoApertura: sesion.MontoApertura,
		Totales:       totalesADTO(totales),
		IngresoNeto:   engine.IngresoNeto(totales),
		EgresoNeto:    engine.EgresoNeto(totales),
		Teorico:       engine.Teorico(sesion.MontoApertura, engineMovs),
	}, nil
}

// ── SesionAbierta ─────────────────────────────────────────────────────────────

func (s *turnoService) SesionAbierta(ctx context.Context, sesionID uuid.UUID) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, &engine.ErrorTurno{Motivo: engine.MotivoSinCajaAbierta, Detalle: "sesión de caja no encontrada"}
	}
	if sesion.Estado != model.EstadoAbierto {
		return nil, &engine.ErrorTurno{Motivo: engine.MotivoSinCajaAbierta, Detalle: "la caja está cerrada"}
	}
	return sesion, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// clasificarDesvio returns "normal" | "advertencia" | "critico"
// normal: |desvio| <= 1%, advertencia: <= 5%, critico: > 5%
func clasificarDesvio(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return "advertencia"
	default:
		return "critico"
	}
}

func totalesADTO(totales map[engine.TipoMovimiento]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(totales))
	for tipo, suma := range totales {
		out[string(tipo)] = suma
	}
	return out
}

func turnoADTO(t *model.Turno) *dto.TurnoResponse {
	resp := &dto.TurnoResponse{
		ID:           t.ID.String(),
		PuntoDeVenta: t.PuntoDeVenta,
		SaldoInicial: t.SaldoInicial,
		Etiqueta:     t.Etiqueta,
		Estado:       t.Estado,
		OpenedAt:     t.OpenedAt.Format(time.RFC3339),
	}
	if t.ClosedAt != nil {
		closed := t.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	return resp
}

func cajaADTO(s *model.SesionCaja) *dto.CajaResponse {
	return &dto.CajaResponse{
		ID:            s.ID.String(),
		TurnoID:       s.TurnoID.String(),
		PuntoDeVenta:  s.PuntoDeVenta,
		MontoApertura: s.MontoApertura,
		Estado:        s.Estado,
		OpenedAt:      s.OpenedAt.Format(time.RFC3339),
	}
}
