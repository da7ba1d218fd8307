package handler

import (
	"errors"
	"net/http"
	"reflect"

	"andespos/internal/apierror"
	"andespos/internal/engine"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain errors onto HTTP statuses. Recoverable already-open
// conflicts get the richer envelope so the terminal can jump to the existing
// session; everything unexpected is logged by ErrorHandler and hidden behind
// a 500.
func respondError(c *gin.Context, err error) {
	var (
		eVal   *engine.ErrorValidacion
		ePago  *engine.ErrorPago
		eTurno *engine.ErrorTurno
		eColab *engine.ErrorColaborador
	)
	switch {
	case errors.As(err, &eVal):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(eVal.Error()))
	case errors.As(err, &ePago):
		c.JSON(http.StatusBadRequest, apierror.New(ePago.Error()))
	case errors.As(err, &eTurno):
		if eTurno.Recuperable {
			existente := ""
			if eTurno.ExistenteID != nil {
				existente = eTurno.ExistenteID.String()
			}
			c.JSON(http.StatusConflict, apierror.NewConflict(eTurno.Detalle, string(eTurno.Motivo), existente, true))
			return
		}
		status := http.StatusBadRequest
		if eTurno.Motivo == engine.MotivoYaCerrado {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(eTurno.Error()))
	case errors.Is(err, engine.ErrNoEncontrado), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
	case errors.As(err, &eColab):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
