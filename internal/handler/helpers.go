package handler

import (
	"errors"
	"net/http"
	"reflect"

	"epunch/internal/apierror"
	"epunch/internal/apperr"

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
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
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

// statusByCode maps the domain error taxonomy to HTTP statuses in one place.
var statusByCode = map[string]int{
	"INVALID_QR_PAYLOAD":      http.StatusBadRequest,
	"UNAUTHENTICATED":         http.StatusUnauthorized,
	"TOKEN_INVALID":           http.StatusUnauthorized,
	"TOKEN_EXPIRED":           http.StatusUnauthorized,
	"GOOGLE_AUTH_FAILED":      http.StatusUnauthorized,
	"INVALID_CREDENTIALS":     http.StatusUnauthorized,
	"FORBIDDEN":               http.StatusForbidden,
	"PROGRAM_NOT_FOUND":       http.StatusNotFound,
	"CARD_NOT_FOUND":          http.StatusNotFound,
	"MERCHANT_USER_NOT_FOUND": http.StatusNotFound,
	"REWARD_ALREADY_READY":    http.StatusConflict,
	"REWARD_NOT_READY":        http.StatusConflict,
}

// respondError writes the envelope for a failed operation. Domain errors keep
// their message; anything else becomes a generic 500 with the detail only in
// the server log.
func respondError(c *gin.Context, err error) {
	var domain *apperr.Error
	if errors.As(err, &domain) {
		status, ok := statusByCode[domain.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, apierror.New(domain.Message))
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, apierror.OK(data))
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, apierror.OK(data))
}
