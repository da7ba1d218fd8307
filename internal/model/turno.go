package model

import (
	"time"

	"andespos/internal/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados for Turno and SesionCaja.
const (
	EstadoAbierto = "abierto"
	EstadoCerrado = "cerrado"
)

// Turno is a named working period opened per punto de venta, independent of
// the physical drawer. At most one open turno per location at any time.
type Turno struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PuntoDeVenta int       `gorm:"not null;index"`
	OperadorID   uuid.UUID `gorm:"type:uuid;not null"`
	SaldoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Etiqueta: "manana" | "tarde" | "noche" — matched against promotion templates
	Etiqueta  string `gorm:"type:varchar(10);not null"`
	Estado    string `gorm:"type:varchar(10);not null;default:'abierto'"`
	OpenedAt  time.Time
	ClosedAt  *time.Time
}

func (Turno) TableName() string { return "turnos" }

// SesionCaja is the operational drawer instance nested inside a Turno: it
// holds the opening float and accumulates movements until close.
type SesionCaja struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TurnoID       uuid.UUID `gorm:"type:uuid;index;not null"`
	PuntoDeVenta  int       `gorm:"not null;index"`
	OperadorID    uuid.UUID `gorm:"type:uuid;not null"`
	MontoApertura decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Cierre data is frozen by CerrarCaja and never recomputed afterwards
	MontoCierre   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoTeorico  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Desvio        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DesvioPct     *decimal.Decimal `gorm:"type:decimal(5,2)"`
	// ClasificacionDesvio: "normal" | "advertencia" | "critico"
	ClasificacionDesvio *string `gorm:"type:varchar(20)"`
	Estado              string  `gorm:"type:varchar(10);not null;default:'abierto'"`
	OpenedAt            time.Time
	ClosedAt            *time.Time

	Movimientos []MovimientoCaja `gorm:"foreignKey:SesionCajaID"`
}

func (SesionCaja) TableName() string { return "sesiones_caja" }

// MovimientoCaja is an immutable entry in the drawer ledger. Movements are
// NEVER modified or deleted — voids create inverse ajuste entries.
type MovimientoCaja struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TurnoID      uuid.UUID `gorm:"type:uuid;index;not null"`
	SesionCajaID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Tipo: venta | ingreso | egreso | retiro | sueldo | ajuste
	Tipo        string          `gorm:"type:varchar(10);not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string          `gorm:"not null"`
	OperadorID  uuid.UUID       `gorm:"type:uuid;not null"`
	// ReferenciaID links to the originating Venta or manual operation
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }

// AEngine projects the ledger row onto the aggregator's input type.
func (m *MovimientoCaja) AEngine() engine.Movimiento {
	return engine.Movimiento{Tipo: engine.TipoMovimiento(m.Tipo), Monto: m.Monto}
}

// MovimientosAEngine projects a slice of ledger rows.
func MovimientosAEngine(movs []MovimientoCaja) []engine.Movimiento {
	out := make([]engine.Movimiento, 0, len(movs))
	for i := range movs {
		out = append(out, movs[i].AEngine())
	}
	return out
}
