package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"procura/internal/core/apperror"
	"procura/internal/infrastructure/http/v1/dto"
	"procura/pkg/logger"
)

// ErrorHandler writes the last error recorded by a handler as
// {code, message, details}. Non-AppErrors become a 500 that carries only the
// request ID; their text is logged, never returned.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		ctx := c.Request.Context()
		err := c.Errors.Last().Err

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			logger.Error(ctx, "unhandled error", "error", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Code:    apperror.CodeInternal,
				Message: "Internal server error",
				Details: map[string]any{"request_id": c.GetString("request_id")},
			})
			return
		}

		if appErr.Err != nil {
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error(ctx, "request failed", "code", appErr.Code, "cause", appErr.Err)
			} else {
				logger.Warn(ctx, "request rejected", "code", appErr.Code, "cause", appErr.Err)
			}
		}

		c.JSON(appErr.HTTPStatus, dto.ErrorFrom(appErr))
	}
}
