package repository

import (
	"context"

	"andespos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TurnoRepository is the Ledger collaborator: it durably persists turnos,
// sesiones de caja and the append-only movement log, and is the source of
// truth for "is there an open turno/caja at this location".
type TurnoRepository interface {
	CreateTurno(ctx context.Context, t *model.Turno) error
	FindTurnoByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	FindTurnoAbiertoPorPDV(ctx context.Context, puntoDeVenta int) (*model.Turno, error)
	UpdateTurno(ctx context.Context, t *model.Turno) error

	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	FindSesionAbiertaPorPDV(ctx context.Context, puntoDeVenta int) (*model.SesionCaja, error)
	FindSesionAbiertaPorTurno(ctx context.Context, turnoID uuid.UUID) (*model.SesionCaja, error)
	UpdateSesion(ctx context.Context, s *model.SesionCaja) error

	// Movements are append-only: there is no update or delete on purpose.
	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientosPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error)
	ListMovimientosPorTurno(ctx context.Context, turnoID uuid.UUID) ([]model.MovimientoCaja, error)
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) CreateTurno(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) FindTurnoByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) FindTurnoAbiertoPorPDV(ctx context.Context, puntoDeVenta int) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).
		Where("punto_de_venta = ? AND estado = ?", puntoDeVenta, model.EstadoAbierto).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) UpdateTurno(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *turnoRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *turnoRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *turnoRepo) FindSesionAbiertaPorPDV(ctx context.Context, puntoDeVenta int) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("punto_de_venta = ? AND estado = ?", puntoDeVenta, model.EstadoAbierto).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *turnoRepo) FindSesionAbiertaPorTurno(ctx context.Context, turnoID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("turno_id = ? AND estado = ?", turnoID, model.EstadoAbierto).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *turnoRepo) UpdateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *turnoRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *turnoRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *turnoRepo) ListMovimientosPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id = ?", sesionID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *turnoRepo) ListMovimientosPorTurno(ctx context.Context, turnoID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("turno_id = ?", turnoID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}
