package middleware

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

const msgThrottled = "Request was throttled. Expected available in %d seconds."

// Limiter решает, можно ли обслужить очередной запрос ключа.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

// NewRateLimitMiddleware ограничивает частоту запросов пользователя.
// До аутентификации ключом служит IP клиента.
func NewRateLimitMiddleware(limiter Limiter) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		key := "ip:" + ctx.IP()
		if claims, ok := Claims(ctx); ok {
			key = "user:" + strconv.FormatInt(claims.UserID, 10)
		}

		allowed, retryAfter := limiter.Allow(key)
		if allowed {
			return ctx.Next()
		}

		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}

		requestCtx := ctx.Context()
		logger.Log(requestCtx).Warn(requestCtx, "request throttled", zap.String("key", key), zap.Int("retry_after", seconds))

		ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"detail": fmt.Sprintf(msgThrottled, seconds),
		})
	}
}
