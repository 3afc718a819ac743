// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

// NewLoggerMiddleware присваивает запросу идентификатор и логирует его начало и завершение.
// Идентификатор берется из заголовка X-Request-ID, если клиент его передал.
func NewLoggerMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.Get(logger.RequestIDHeader)
		requestCtx := logger.NewRequestIDContext(ctx.Context(), requestID)
		ctx.SetContext(requestCtx)
		if id, ok := logger.GetRequestID(requestCtx); ok {
			ctx.Set(logger.RequestIDHeader, id)
		}

		start := time.Now()
		log := logger.Log(requestCtx).With(
			zap.String("path", ctx.Path()),
			zap.String("method", ctx.Method()),
			zap.String("ip", ctx.IP()),
		)

		log.Info(requestCtx, "Request started")

		err := ctx.Next()

		logFields := []zap.Field{
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}

		if err != nil {
			log.Error(requestCtx, "Request failed", append(logFields, zap.Error(err))...)
			return fmt.Errorf("request processing error: %w", err)
		}

		log.Info(requestCtx, "Request completed", logFields...)
		return nil
	}
}
