// Package engine contains the point-of-sale transaction core: promotion
// selection rules, order total composition, payment reconciliation and cash
// balance aggregation. Everything here is synchronous and side-effect-free;
// persistence and transport live in the outer layers.
package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// ── Errores de validación de promociones ─────────────────────────────────────

// MotivoValidacion identifies why a promotion selection was rejected.
type MotivoValidacion string

const (
	MotivoProductoFaltante MotivoValidacion = "producto_faltante"
	MotivoCantidadInvalida MotivoValidacion = "cantidad_invalida"
	MotivoBajoMinimo       MotivoValidacion = "bajo_minimo"
	MotivoSobreMaximo      MotivoValidacion = "sobre_maximo"
	MotivoTopeExcedido     MotivoValidacion = "tope_excedido"
	MotivoNoElegible       MotivoValidacion = "no_elegible"
)

// ErrorValidacion rejects a promotion selection operation. The selection the
// caller passed in is never mutated on failure.
type ErrorValidacion struct {
	Motivo   MotivoValidacion
	ConfigID uuid.UUID
	Detalle  string
}

func (e *ErrorValidacion) Error() string {
	if e.Detalle != "" {
		return fmt.Sprintf("validación de promoción: %s (%s)", e.Detalle, e.Motivo)
	}
	return fmt.Sprintf("validación de promoción: %s", e.Motivo)
}

// ── Errores de pago ──────────────────────────────────────────────────────────

// MotivoPago identifies why a payment split was rejected.
type MotivoPago string

const (
	MotivoSinPagos        MotivoPago = "sin_pagos"
	MotivoMontoNoCoincide MotivoPago = "monto_no_coincide"
)

// ErrorPago blocks checkout submission; it is always recoverable by the
// operator correcting the payment lines.
type ErrorPago struct {
	Motivo  MotivoPago
	Detalle string
}

func (e *ErrorPago) Error() string {
	if e.Detalle != "" {
		return fmt.Sprintf("pago: %s (%s)", e.Detalle, e.Motivo)
	}
	return fmt.Sprintf("pago: %s", e.Motivo)
}

// ── Errores de turno / caja ──────────────────────────────────────────────────

// MotivoTurno identifies a rejected shift or drawer transition.
type MotivoTurno string

const (
	MotivoSinTurnoAbierto MotivoTurno = "sin_turno_abierto"
	MotivoSinCajaAbierta  MotivoTurno = "sin_caja_abierta"
	MotivoYaAbierto       MotivoTurno = "ya_abierto"
	MotivoYaCerrado       MotivoTurno = "ya_cerrado"
	MotivoMontoInvalido   MotivoTurno = "monto_invalido"
)

// ErrorTurno rejects a shift/drawer transition. MotivoYaAbierto is marked
// recoverable and carries the id of the session already open for the location:
// the caller must route the operator to that session instead of aborting.
type ErrorTurno struct {
	Motivo      MotivoTurno
	Recuperable bool
	ExistenteID *uuid.UUID
	Detalle     string
}

func (e *ErrorTurno) Error() string {
	if e.Detalle != "" {
		return fmt.Sprintf("turno/caja: %s (%s)", e.Detalle, e.Motivo)
	}
	return fmt.Sprintf("turno/caja: %s", e.Motivo)
}

// YaAbierto builds the recoverable already-open conflict pointing at the
// existing session.
func YaAbierto(existente uuid.UUID, detalle string) *ErrorTurno {
	return &ErrorTurno{
		Motivo:      MotivoYaAbierto,
		Recuperable: true,
		ExistenteID: &existente,
		Detalle:     detalle,
	}
}

// ── Errores de colaboradores externos ────────────────────────────────────────

// ErrorColaborador wraps a Catalog/Ledger failure without interpreting it.
// Retries, if any, are the caller's responsibility.
type ErrorColaborador struct {
	Op  string
	Err error
}

func (e *ErrorColaborador) Error() string {
	return fmt.Sprintf("colaborador %s: %v", e.Op, e.Err)
}

func (e *ErrorColaborador) Unwrap() error { return e.Err }
