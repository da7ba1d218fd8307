package repository

import (
	"context"

	"andespos/internal/dto"
	"andespos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaRepository interface {
	// DB exposes the underlying handle so services can open a transaction
	// spanning venta + movimiento writes. Nil in unit tests.
	DB() *gorm.DB
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	AddPagosTx(tx *gorm.DB, ventaID uuid.UUID, pagos []model.VentaPago) error
	UpdateCobroTx(tx *gorm.DB, ventaID uuid.UUID, estado string, saldo decimal.Decimal) error
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Promos").
		Preload("Promos.Detalle").
		Preload("Pagos").
		First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.EstadoCobro != "" {
		q = q.Where("estado_cobro = ?", filter.EstadoCobro)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ventas []model.Venta
	err := q.Preload("Items").Preload("Promos").Preload("Promos.Detalle").Preload("Pagos").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) AddPagosTx(tx *gorm.DB, ventaID uuid.UUID, pagos []model.VentaPago) error {
	for i := range pagos {
		pagos[i].VentaID = ventaID
	}
	return tx.Create(&pagos).Error
}

func (r *ventaRepo) UpdateCobroTx(tx *gorm.DB, ventaID uuid.UUID, estado string, saldo decimal.Decimal) error {
	return tx.Model(&model.Venta{}).
		Where("id = ?", ventaID).
		Updates(map[string]interface{}{"estado_cobro": estado, "saldo": saldo}).Error
}
