package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/api"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister = "auth handler: register"
	LogHandlerLogin    = "auth handler: login"
	LogHandlerLogout   = "auth handler: logout"
)

// AuthHandler обработчики учетных записей.
type AuthHandler struct {
	auth api.AuthService
}

// NewAuthHandler создает обработчик учетных записей.
func NewAuthHandler(auth api.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register регистрирует пользователя и возвращает access токен.
func (h *AuthHandler) Register(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Info(requestCtx, LogHandlerRegister)

	var req RegisterRequest
	if err := bindJSON(ctx, &req); err != nil {
		return handleError(ctx, err)
	}

	result, err := h.auth.Register(requestCtx, req.Email, req.Username, req.Password)
	if err != nil {
		return handleError(ctx, err)
	}

	return sendJSON(ctx, fiber.StatusCreated, toAuthResponse(result))
}

// Login проверяет учетные данные и возвращает access токен.
func (h *AuthHandler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Info(requestCtx, LogHandlerLogin)

	var req LoginRequest
	if err := bindJSON(ctx, &req); err != nil {
		return handleError(ctx, err)
	}

	result, err := h.auth.Login(requestCtx, req.Email, req.Password)
	if err != nil {
		return handleError(ctx, err)
	}

	return sendJSON(ctx, fiber.StatusOK, toAuthResponse(result))
}

// Logout отзывает токен, с которым пришел запрос.
func (h *AuthHandler) Logout(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()

	claims, ok := middleware.Claims(ctx)
	if !ok {
		return handleError(ctx, entities.ErrUnauthenticated)
	}
	logger.Log(requestCtx).Info(requestCtx, LogHandlerLogout, zap.Int64("userID", claims.UserID))

	if err := h.auth.Logout(requestCtx, claims); err != nil {
		return handleError(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
