package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tillbox/internal/core/apperror"
	"tillbox/internal/infrastructure/http/v1/dto"
	"tillbox/pkg/logger"
)

// ErrorHandler shapes every registered error into the failure envelope.
// Handlers only ever c.Error(err) and abort; this middleware is the single
// place a failure body is written. Internal causes are logged, never sent.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// A handler that already wrote a body keeps it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil || appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"message", appErr.Message,
					"cause", appErr.Err,
				)
			}

			body := dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Errors:  appErr.Fields(),
				Details: appErr.Details,
			}
			// Field errors already travel in the errors key.
			if body.Errors != nil {
				body.Details = nil
			}

			c.JSON(appErr.HTTPStatus, body)
			return
		}

		logger.Error(c.Request.Context(), "unhandled error", "error", err)

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    apperror.CodeInternal,
			Message: "Internal server error",
			Details: map[string]any{
				"request_id": c.GetString("request_id"),
			},
		})
	}
}
