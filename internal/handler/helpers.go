package handler

import (
	"errors"
	"net/http"
	"reflect"

	"almacenpos/internal/apierror"
	"almacenpos/internal/domainerr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
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

// respondError translates the domainerr taxonomy into HTTP statuses. Anything
// unrecognized is a 500 with a generic message — raw storage errors never
// reach the client.
func respondError(c *gin.Context, err error) {
	var ve *domainerr.ValidationError
	var nf *domainerr.NotFoundError
	var is *domainerr.InsufficientStockError
	var dk *domainerr.DuplicateKeyError
	var iv *domainerr.InvariantViolation

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, apierror.New(ve.Error()))
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, apierror.New(nf.Error()))
	case errors.As(err, &is):
		c.JSON(http.StatusConflict, apierror.New(is.Error()))
	case errors.As(err, &dk):
		c.JSON(http.StatusConflict, apierror.New(dk.Error()))
	case errors.Is(err, domainerr.ErrVentaAnulada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &iv):
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("violacion de invariante")
		c.JSON(http.StatusInternalServerError, apierror.New("Inconsistencia interna de datos"))
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("error no manejado")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno"))
	}
}
