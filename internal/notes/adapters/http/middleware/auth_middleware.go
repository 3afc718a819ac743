package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorAuthentication     = "failed to authenticate request"

	localsClaims = "claims"
	bearerPrefix = "Bearer "
)

// Authenticator проверяет access токен.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entities.TokenClaims, error)
}

// NewAuthMiddleware пропускает запрос дальше только с действительным Bearer токеном.
func NewAuthMiddleware(auth Authenticator) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return unauthorized(ctx, entities.ErrUnauthenticated)
		}

		token, ok := strings.CutPrefix(authHeader, bearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return unauthorized(ctx, entities.ErrInvalidToken)
		}

		claims, err := auth.Authenticate(requestCtx, strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, entities.ErrInvalidToken) {
				return unauthorized(ctx, entities.ErrInvalidToken)
			}
			log.Error(requestCtx, ErrorAuthentication, zap.Error(err))
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "internal server error"})
		}

		ctx.Locals(localsClaims, claims)
		ctx.SetContext(logger.WithUserID(requestCtx, claims.UserID))
		return ctx.Next()
	}
}

// Claims возвращает данные токена, сохраненные NewAuthMiddleware.
func Claims(ctx fiber.Ctx) (entities.TokenClaims, bool) {
	claims, ok := ctx.Locals(localsClaims).(entities.TokenClaims)
	return claims, ok
}

func unauthorized(ctx fiber.Ctx, err error) error {
	ctx.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="api"`)
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": err.Error()})
}
