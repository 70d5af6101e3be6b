package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"contact-relay-backend/internal/delivery/http/response"
	"contact-relay-backend/pkg/apperror"
	"contact-relay-backend/pkg/logger"
	"contact-relay-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Unexpected(err)
		}

		// SECURITY: the cause stays in the logs, clients only see appErr.Message
		attrs := []any{
			"request_id", c.GetString(RequestIDKey),
			"path", c.Request.URL.Path,
			"kind", string(appErr.Kind),
			"status", appErr.Code,
			"error", causeString(appErr),
		}
		if appErr.Kind == apperror.KindValidation && appErr.Err != nil {
			attrs = append(attrs, "fields", validation.FormatValidationErrors(appErr.Err))
		}
		logger.Log.Error("Request failed", attrs...)
		response.Error(c, appErr.Code, appErr.Message)
	}
}

// Recovery turns a panic into the generic 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.Error("Panic recovered",
			"request_id", c.GetString(RequestIDKey),
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered),
			"stack", string(debug.Stack()),
		)
		if c.Writer.Written() {
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorResponse{Error: apperror.MsgUnexpected})
	})
}

func causeString(e *apperror.AppError) string {
	if e.Err == nil {
		return e.Message
	}
	return e.Err.Error()
}
