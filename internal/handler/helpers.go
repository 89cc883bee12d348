package handler

import (
	"net/http"
	"reflect"

	"biblioteca/internal/apierror"

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
	return validateStruct(c, req)
}

// bindQueryAndValidate is the query-string counterpart of bindAndValidate.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
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

// respondError translates service errors to status-coded responses:
// Invalid → 400, NotFound → 404, Conflict → 409, anything else → logged 500
// with a generic message so internals never leak.
func respondError(c *gin.Context, err error) {
	switch {
	case apierror.IsInvalid(err):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case apierror.IsNotFound(err):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case apierror.IsConflict(err):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		log.Error().
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Err(err).
			Msg("error interno")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
