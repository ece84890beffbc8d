package handler

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/MaikonGithub/QualiCam/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// required, min=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report field names the way the wire sees them (json tag, not Go name).
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validationMessage turns the first failed rule into the client-facing
// message both dialects use ("Campo X é obrigatório").
func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return "Campo " + errs[0].Field() + " é obrigatório"
	}
	return "Dados inválidos"
}

// bindAndValidateV1 binds the JSON body and runs validator tags, answering
// in the v1 envelope on failure. Returns false if a response was written.
func bindAndValidateV1(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.V1Error{Success: false, Error: "JSON inválido: " + err.Error()})
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.V1Error{Success: false, Error: validationMessage(err)})
		return false
	}
	return true
}

// bindAndValidateApp is the /app dialect twin ({error} envelope).
func bindAndValidateApp(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.AppError{Error: "JSON inválido: " + err.Error()})
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.AppError{Error: "Campo obrigatório: " + firstField(err)})
		return false
	}
	return true
}

func firstField(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return errs[0].Field()
	}
	return "?"
}
