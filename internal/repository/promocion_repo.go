package repository

import (
	"context"

	"andespos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromocionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.PlantillaPromocion, error)
	ListActivas(ctx context.Context) ([]model.PlantillaPromocion, error)
	Create(ctx context.Context, p *model.PlantillaPromocion) error
}

type promocionRepo struct{ db *gorm.DB }

func NewPromocionRepository(db *gorm.DB) PromocionRepository { return &promocionRepo{db: db} }

func (r *promocionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PlantillaPromocion, error) {
	var p model.PlantillaPromocion
	err := r.db.WithContext(ctx).Preload("Configs").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *promocionRepo) ListActivas(ctx context.Context) ([]model.PlantillaPromocion, error) {
	var plantillas []model.PlantillaPromocion
	err := r.db.WithContext(ctx).Preload("Configs").Where("activo = true").Order("nombre ASC").Find(&plantillas).Error
	return plantillas, err
}

func (r *promocionRepo) Create(ctx context.Context, p *model.PlantillaPromocion) error {
	return r.db.WithContext(ctx).Create(p).Error
}
