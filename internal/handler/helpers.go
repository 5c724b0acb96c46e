package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"micromercado/internal/apierror"
	"micromercado/internal/middleware"
	"micromercado/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
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

	// Report fields by their JSON (or query) name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Malformed JSON is a 400; a well-formed body with wrong types (a price of
// "abc") is a 422 like any other validation failure.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			c.JSON(http.StatusBadRequest, apierror.New("JSON invalido"))
			return false
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Datos invalidos: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery binds query parameters into filter and validates them.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validateStruct(c, filter)
}

func validateStruct(c *gin.Context, v interface{}) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Datos invalidos"))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// statusFor maps service sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidacion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCarritoVacio),
		errors.Is(err, service.ErrClienteFaltante),
		errors.Is(err, service.ErrFechaFaltante):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPedidoNoPendiente),
		errors.Is(err, service.ErrLimiteCajeros),
		errors.Is(err, service.ErrEmailDuplicado):
		return http.StatusConflict
	case errors.Is(err, service.ErrCredenciales),
		errors.Is(err, service.ErrSesionInvalida):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// responderError writes the error envelope. Known errors carry their own
// message; anything else is attached to the context for ErrorHandler and the
// client only sees a generic 500.
func responderError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, apierror.Internal())
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}

// sesion returns the caller's session. SesionAuth guarantees it on protected
// routes.
func sesion(c *gin.Context) *service.Sesion {
	return middleware.GetSesion(c)
}
