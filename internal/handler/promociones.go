package handler

import (
	"net/http"
	"time"

	"andespos/internal/dto"
	"andespos/internal/service"

	"github.com/gin-gonic/gin"
)

type PromocionHandler struct{ svc service.PromocionService }

func NewPromocionHandler(svc service.PromocionService) *PromocionHandler {
	return &PromocionHandler{svc: svc}
}

// Elegibles godoc
// @Summary Lista las plantillas de promoción vigentes para un turno
// @Tags promociones
// @Accept json
// @Produce json
// @Param body body dto.ElegiblesRequest true "Contexto de turno"
// @Success 200 {array} dto.PlantillaResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/promociones/elegibles [post]
func (h *PromocionHandler) Elegibles(c *gin.Context) {
	var req dto.ElegiblesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Elegibles(c.Request.Context(), req.EtiquetaTurno, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// IniciarSeleccion godoc
// @Summary Inicia una selección de promoción con los items por defecto
// @Tags promociones
// @Accept json
// @Produce json
// @Param body body dto.IniciarSeleccionRequest true "Plantilla elegida"
// @Success 200 {object} dto.SeleccionDTO
// @Failure 422 {object} apierror.APIError
// @Router /v1/promociones/seleccion/iniciar [post]
func (h *PromocionHandler) IniciarSeleccion(c *gin.Context) {
	var req dto.IniciarSeleccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.IniciarSeleccion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OperarItem godoc
// @Summary Aplica una operación (agregar/cantidad/producto/quitar) sobre una selección
// @Tags promociones
// @Accept json
// @Produce json
// @Param body body dto.ItemSeleccionRequest true "Selección y operación"
// @Success 200 {object} dto.SeleccionDTO
// @Failure 422 {object} apierror.APIError
// @Router /v1/promociones/seleccion/item [post]
func (h *PromocionHandler) OperarItem(c *gin.Context) {
	var req dto.ItemSeleccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.OperarItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Validar godoc
// @Summary Valida una selección completa y devuelve la entrada congelada
// @Tags promociones
// @Accept json
// @Produce json
// @Param body body dto.ValidarSeleccionRequest true "Selección a validar"
// @Success 200 {object} dto.PromocionCarritoDTO
// @Failure 422 {object} apierror.APIError
// @Router /v1/promociones/seleccion/validar [post]
func (h *PromocionHandler) Validar(c *gin.Context) {
	var req dto.ValidarSeleccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Validar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
