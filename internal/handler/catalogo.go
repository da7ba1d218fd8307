package handler

import (
	"net/http"

	"andespos/internal/repository"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves read-only catalog listings for the terminal UI.
type CatalogoHandler struct{ repo repository.CatalogoRepository }

func NewCatalogoHandler(repo repository.CatalogoRepository) *CatalogoHandler {
	return &CatalogoHandler{repo: repo}
}

// Productos godoc
// @Summary Lista los productos activos del catálogo
// @Tags catalogo
// @Produce json
// @Success 200 {array} model.Producto
// @Router /v1/catalogo/productos [get]
func (h *CatalogoHandler) Productos(c *gin.Context) {
	productos, err := h.repo.ListProductos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productos)
}

// Categorias godoc
// @Summary Lista las categorías del catálogo
// @Tags catalogo
// @Produce json
// @Success 200 {array} model.Categoria
// @Router /v1/catalogo/categorias [get]
func (h *CatalogoHandler) Categorias(c *gin.Context) {
	categorias, err := h.repo.ListCategorias(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categorias)
}
