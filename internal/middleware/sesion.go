package middleware

import (
	"net/http"

	"andespos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OperadorIDKey is the gin context key holding the authenticated operator id.
const OperadorIDKey = "operador_id"

// SesionOperador resolves the operator identity for mutating endpoints.
// Identity arrives as the X-Operador-ID header set by the front desk terminal;
// authentication itself is terminated upstream.
func SesionOperador() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Operador-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Falta el encabezado X-Operador-ID"))
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("X-Operador-ID inválido"))
			return
		}
		c.Set(OperadorIDKey, id)
		c.Next()
	}
}

// OperadorID reads the operator id placed by SesionOperador.
func OperadorID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(OperadorIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
