package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de cobro de una venta.
const (
	CobroCobrada   = "cobrada"
	CobroPendiente = "pendiente"
	CobroParcial   = "parcial"
	CobroAnulada   = "anulada"
)

// Venta is a committed sale: price-snapshot lines, frozen promotion entries,
// adjustments and the payment split.
type Venta struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TurnoID      uuid.UUID `gorm:"type:uuid;index;not null"`
	SesionCajaID uuid.UUID `gorm:"type:uuid;index;not null"`
	OperadorID   uuid.UUID `gorm:"type:uuid;not null"`

	Subtotal            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoMonto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoPorcentaje decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CuponCodigo         *string
	CuponMonto          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Recargo             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Vuelto              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Saldo is the outstanding balance for pending/partial sales
	Saldo       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EstadoCobro string          `gorm:"type:varchar(10);not null"`
	CreatedAt   time.Time

	Items  []VentaItem      `gorm:"foreignKey:VentaID"`
	Promos []VentaPromocion `gorm:"foreignKey:VentaID"`
	Pagos  []VentaPago      `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaItem carries the product snapshot taken when the line entered the
// cart; later catalog price changes never touch it.
type VentaItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null"`
	Nombre         string    `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cantidad       int             `gorm:"not null"`
}

func (VentaItem) TableName() string { return "venta_items" }

// VentaPromocion is the persisted form of a frozen promotion cart entry.
type VentaPromocion struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID `gorm:"type:uuid;index;not null"`
	PlantillaID    uuid.UUID `gorm:"type:uuid;not null"`
	Nombre         string    `gorm:"not null"`
	Cantidad       int       `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Detalle []VentaPromocionDetalle `gorm:"foreignKey:VentaPromocionID"`
}

func (VentaPromocion) TableName() string { return "venta_promociones" }

// VentaPromocionDetalle is one frozen {config, producto, cantidad} pick.
type VentaPromocionDetalle struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaPromocionID uuid.UUID `gorm:"type:uuid;index;not null"`
	ConfigID         uuid.UUID `gorm:"type:uuid;not null"`
	ProductoID       uuid.UUID `gorm:"type:uuid;not null"`
	Cantidad         int       `gorm:"not null"`
}

func (VentaPromocionDetalle) TableName() string { return "venta_promocion_detalles" }

// VentaPago is one line of the payment split.
type VentaPago struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID `gorm:"type:uuid;index;not null"`
	Metodo  string    `gorm:"type:varchar(20);not null"`
	Monto   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

func (VentaPago) TableName() string { return "venta_pagos" }
