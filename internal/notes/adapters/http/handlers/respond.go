// Package handlers содержит HTTP обработчики сервиса заметок.
package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/pkg/logger"
)

const (
	msgInternalError = "internal server error"
	msgNotFound      = "Not found."
)

// sendJSON отправляет тело с указанным статусом.
func sendJSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

func sendDetail(ctx fiber.Ctx, status int, detail string) error {
	return sendJSON(ctx, status, fiber.Map{"detail": detail})
}

// handleError переводит доменную ошибку в HTTP ответ.
func handleError(ctx fiber.Ctx, err error) error {
	var validation *entities.ValidationError
	if errors.As(err, &validation) {
		return sendJSON(ctx, fiber.StatusBadRequest, fiber.Map{"errors": validation.Fields})
	}

	var notFound *entities.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return sendDetail(ctx, fiber.StatusNotFound, notFound.Detail)
	case errors.Is(err, entities.ErrNotFound):
		return sendDetail(ctx, fiber.StatusNotFound, msgNotFound)
	case errors.Is(err, entities.ErrInvalidCredentials):
		return sendDetail(ctx, fiber.StatusUnauthorized, entities.ErrInvalidCredentials.Error())
	case errors.Is(err, entities.ErrInvalidToken):
		return sendDetail(ctx, fiber.StatusUnauthorized, entities.ErrInvalidToken.Error())
	case errors.Is(err, entities.ErrUnauthenticated):
		return sendDetail(ctx, fiber.StatusUnauthorized, entities.ErrUnauthenticated.Error())
	}

	requestCtx := ctx.Context()
	logger.Log(requestCtx).Error(requestCtx, msgInternalError,
		zap.String("path", ctx.Path()), zap.Error(err))
	return sendDetail(ctx, fiber.StatusInternalServerError, msgInternalError)
}

// bindJSON разбирает тело запроса. Пустое тело оставляет dst без изменений.
func bindJSON(ctx fiber.Ctx, dst any) error {
	if len(ctx.Body()) == 0 {
		return nil
	}
	if err := ctx.Bind().JSON(dst); err != nil {
		return entities.FieldError(entities.NonFieldErrors, entities.MsgInvalidBody)
	}
	return nil
}

// currentUser возвращает id пользователя, установленный middleware аутентификации.
func currentUser(ctx fiber.Ctx) (int64, error) {
	claims, ok := middleware.Claims(ctx)
	if !ok {
		return 0, entities.ErrUnauthenticated
	}
	return claims.UserID, nil
}
