package rest

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger - logs every finished request. Server errors are logged at error level.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		status := ctx.Writer.Status()
		attrs := []any{
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"status", status,
			"duration", time.Since(start),
		}

		if len(ctx.Errors) > 0 {
			attrs = append(attrs, "error", ctx.Errors.String())
		}

		if status >= 500 {
			logger.Error("request failed", attrs...)
			return
		}

		logger.Debug("request served", attrs...)
	}
}
