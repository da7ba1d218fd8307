package model

import (
	"strconv"
	"strings"
	"time"

	"andespos/internal/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlantillaPromocion is the stored promotion definition. Its dynamic shape is
// validated here, at the catalog boundary — the engine only ever sees the
// typed snapshot produced by AEngine.
type PlantillaPromocion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"not null"`
	PrecioFinal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// DiasSemana is a comma-separated weekday list, 0=domingo … 6=sabado
	DiasSemana     string `gorm:"not null;default:'0,1,2,3,4,5,6'"`
	TurnoPermitido string `gorm:"type:varchar(10);not null;default:'todos'"`
	VigenciaDesde  time.Time
	VigenciaHasta  *time.Time
	MaxPorOrden    int  `gorm:"not null;default:0"`
	Activo         bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Configs []ConfigCategoria `gorm:"foreignKey:PlantillaID"`
}

func (PlantillaPromocion) TableName() string { return "plantillas_promocion" }

// ConfigCategoria is one category slot of a template.
type ConfigCategoria struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlantillaID         uuid.UUID `gorm:"type:uuid;index;not null"`
	CategoriaID         uuid.UUID `gorm:"type:uuid;not null"`
	AplicaTodaCategoria bool      `gorm:"not null;default:true"`
	ProductoFijoID      *uuid.UUID `gorm:"type:uuid"`
	CantidadMinima      int        `gorm:"not null;default:1"`
	// CantidadMaxima 0 = sin tope
	CantidadMaxima int `gorm:"not null;default:0"`
}

func (ConfigCategoria) TableName() string { return "promocion_configs" }

// AEngine converts the stored template into the engine's immutable snapshot.
// Unparseable weekday tokens are dropped rather than crashing the hot path.
func (p *PlantillaPromocion) AEngine() *engine.PlantillaPromocion {
	dias := make([]time.Weekday, 0, 7)
	for _, tok := range strings.Split(p.DiasSemana, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		dias = append(dias, time.Weekday(n))
	}

	out := &engine.PlantillaPromocion{
		ID:             p.ID,
		Nombre:         p.Nombre,
		PrecioFinal:    p.PrecioFinal,
		VigenciaDesde:  p.VigenciaDesde,
		VigenciaHasta:  p.VigenciaHasta,
		DiasSemana:     dias,
		TurnoPermitido: p.TurnoPermitido,
		MaxPorOrden:    p.MaxPorOrden,
	}
	for _, cfg := range p.Configs {
		out.Configs = append(out.Configs, engine.ConfigCategoria{
			ID:                  cfg.ID,
			CategoriaID:         cfg.CategoriaID,
			AplicaTodaCategoria: cfg.AplicaTodaCategoria,
			ProductoFijoID:      cfg.ProductoFijoID,
			CantidadMinima:      cfg.CantidadMinima,
			CantidadMaxima:      cfg.CantidadMaxima,
		})
	}
	return out
}
