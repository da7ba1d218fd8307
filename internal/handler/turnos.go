package handler

import (
	"net/http"

	"andespos/internal/apierror"
	"andespos/internal/dto"
	"andespos/internal/middleware"
	"andespos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TurnoHandler struct{ svc service.TurnoService }

func NewTurnoHandler(svc service.TurnoService) *TurnoHandler { return &TurnoHandler{svc: svc} }

// AbrirTurno godoc
// @Summary Abre un turno en un punto de venta
// @Tags turnos
// @Accept json
// @Produce json
// @Param body body dto.AbrirTurnoRequest true "Datos de apertura"
// @Success 201 {object} dto.TurnoResponse
// @Failure 409 {object} apierror.ConflictError "Ya hay un turno abierto — recuperable"
// @Router /v1/turnos/abrir [post]
func (h *TurnoHandler) AbrirTurno(c *gin.Context) {
	var req dto.AbrirTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AbrirTurno(c.Request.Context(), middleware.OperadorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CerrarTurno godoc
// @Summary Cierra un turno; advierte si la caja sigue abierta
// @Tags turnos
// @Produce json
// @Param id path string true "ID de turno"
// @Success 200 {object} dto.CerrarTurnoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/turnos/{id}/cerrar [post]
func (h *TurnoHandler) CerrarTurno(c *gin.Context) {
	turnoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de turno inválido"))
		return
	}
	resp, err := h.svc.CerrarTurno(c.Request.Context(), turnoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AbrirCaja godoc
// @Summary Abre la sesión de caja de un turno
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.CajaResponse
// @Failure 409 {object} apierror.ConflictError "Ya hay una caja abierta — recuperable"
// @Router /v1/caja/abrir [post]
func (h *TurnoHandler) AbrirCaja(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AbrirCaja(c.Request.Context(), middleware.OperadorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Retiro godoc
// @Summary Registra un retiro de efectivo de la caja
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.RetiroRequest true "Retiro"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/caja/retiro [post]
func (h *TurnoHandler) Retiro(c *gin.Context) {
	var req dto.RetiroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Retirar(c.Request.Context(), middleware.OperadorID(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CerrarCaja godoc
// @Summary Cierra la caja y devuelve el arqueo con su clasificación de desvío
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.CerrarCajaRequest true "Cierre con monto contado opcional"
// @Success 200 {object} dto.ArqueoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/caja/cerrar [post]
func (h *TurnoHandler) CerrarCaja(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CerrarCaja(c.Request.Context(), middleware.OperadorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Balance godoc
// @Summary Devuelve el balance teórico vivo de una sesión de caja
// @Tags caja
// @Produce json
// @Param id path string true "ID de sesión de caja"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id}/balance [get]
func (h *TurnoHandler) Balance(c *gin.Context) {
	sesionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de sesión inválido"))
		return
	}
	resp, err := h.svc.Balance(c.Request.Context(), sesionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
