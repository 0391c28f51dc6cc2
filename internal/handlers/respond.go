package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"textile-store/internal/apperr"
	"textile-store/internal/i18n"
	"textile-store/internal/middleware"
)

// ErrorResponse es el cuerpo de error que el front muestra como toast
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{apperr.ErrInvalidID, http.StatusBadRequest, i18n.MsgInvalidID},
	{apperr.ErrNotFound, http.StatusNotFound, i18n.MsgNotFound},
	{apperr.ErrInvalidCredentials, http.StatusUnauthorized, i18n.MsgInvalidCredentials},
	{apperr.ErrUnauthorized, http.StatusUnauthorized, i18n.MsgUnauthorized},
	{apperr.ErrForbidden, http.StatusForbidden, i18n.MsgForbidden},
	{apperr.ErrInsufficientStock, http.StatusConflict, i18n.MsgInsufficientStock},
	{apperr.ErrInvalidTransition, http.StatusConflict, i18n.MsgInvalidTransition},
	{apperr.ErrConflict, http.StatusConflict, i18n.MsgConflict},
	{apperr.ErrEmptyCart, http.StatusUnprocessableEntity, i18n.MsgEmptyCart},
	{apperr.ErrProductUnavailable, http.StatusUnprocessableEntity, i18n.MsgProductUnavailable},
}

// respondError traduce un error de dominio a código HTTP y mensaje localizado
func respondError(c *gin.Context, err error) {
	locale := middleware.LocaleOf(c)

	if ve, ok := apperr.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: i18n.T(locale, i18n.MsgValidationFailed, ve.Message),
			Code:  i18n.MsgValidationFailed,
			Field: ve.Field,
		})
		return
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			resp := ErrorResponse{Error: i18n.T(locale, m.code), Code: m.code}
			if m.status == http.StatusConflict || m.status == http.StatusUnprocessableEntity {
				resp.Detail = err.Error()
			}
			c.JSON(m.status, resp)
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: i18n.T(locale, i18n.MsgInternal), Code: i18n.MsgInternal})
}

// respondBindError responde a un cuerpo o query inválido
func respondBindError(c *gin.Context, err error) {
	locale := middleware.LocaleOf(c)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: i18n.T(locale, i18n.MsgValidationFailed, fe.Field()+" "+fe.Tag()),
			Code:  i18n.MsgValidationFailed,
			Field: fe.Field(),
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: i18n.T(locale, i18n.MsgInvalidRequest), Code: i18n.MsgInvalidRequest})
}

// respondMessage responde con un aviso localizado
func respondMessage(c *gin.Context, status int, key string, args ...interface{}) {
	c.JSON(status, MessageResponse{Message: i18n.T(middleware.LocaleOf(c), key, args...), Code: key})
}
