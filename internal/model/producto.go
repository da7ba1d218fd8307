package model

import (
	"time"

	"andespos/internal/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the catalog record. The price here is a lookup source only:
// carts copy it at add-time, so later edits never rewrite an open cart.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categorias []Categoria `gorm:"many2many:producto_categorias"`
}

func (Producto) TableName() string { return "productos" }

// Snapshot converts the record into the engine's read-only catalog view.
func (p *Producto) Snapshot() *engine.ProductoCatalogo {
	cats := make([]uuid.UUID, 0, len(p.Categorias))
	for _, c := range p.Categorias {
		cats = append(cats, c.ID)
	}
	return &engine.ProductoCatalogo{
		ID:         p.ID,
		Nombre:     p.Nombre,
		Precio:     p.Precio,
		Categorias: cats,
	}
}
