package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"procura/internal/core/apperror"
	appctx "procura/internal/core/context"
)

// BaseHandler holds helpers shared by every handler. Responses for errors
// are written by middleware.ErrorHandler.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON decodes and validates the request body. On failure it records a
// VALIDATION_ERROR listing the offending fields and returns false.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, bindError("invalid request body", err))
		return false
	}
	return true
}

// BindQuery is BindJSON for query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, bindError("invalid query parameters", err))
		return false
	}
	return true
}

func bindError(msg string, err error) *apperror.AppError {
	appErr := apperror.NewValidation(msg).WithCause(err)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErr.WithDetail("error", err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return appErr.WithDetail("fields", fields)
}

// Error records err on the context and aborts the chain.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery reads an integer query parameter. A missing value yields
// defaultVal; a malformed one is a validation error.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("query parameter must be an integer").
			WithDetail("field", key).
			WithDetail("value", raw))
		return 0, false
	}
	return v, true
}

// Locale returns the display locale of the request.
func (h *BaseHandler) Locale(c *gin.Context) appctx.Locale {
	return appctx.GetLocale(c.Request.Context())
}

// OK sends 200 with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
