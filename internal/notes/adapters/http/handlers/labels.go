package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/ports/api"
	"notekeeper/pkg/logger"
)

// LabelHandler обработчики CRUD для категорий или тегов.
type LabelHandler[T any] struct {
	kind     string
	service  api.LabelService[T]
	response func(T) LabelResponse
}

// NewLabelHandler создает обработчик меток. kind используется в логах.
func NewLabelHandler[T any](kind string, service api.LabelService[T], response func(T) LabelResponse) *LabelHandler[T] {
	return &LabelHandler[T]{kind: kind, service: service, response: response}
}

func (h *LabelHandler[T]) log(ctx fiber.Ctx, handler string) {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, "handling label request",
		zap.String("handler", handler), zap.String("kind", h.kind))
}

// List возвращает метки пользователя с учетом фильтров.
func (h *LabelHandler[T]) List(ctx fiber.Ctx) error {
	h.log(ctx, "List")
	userID, err := currentUser(ctx)
	if err != nil {
		return handleError(ctx, err)
	}

	items, err := h.service.List(ctx.Context(), userID, ctx.Queries())
	if err != nil {
		return handleError(ctx, err)
	}

	out := make([]LabelResponse, 0, len(items))
	for _, item := range items {
		out = append(out, h.response(item))
	}
	return sendJSON(ctx, fiber.StatusOK, out)
}

// Create создает метку.
func (h *LabelHandler[T]) Create(ctx fiber.Ctx) error {
	h.log(ctx, "Create")
	userID, err := currentUser(ctx)
	if err != nil {
		return handleError(ctx, err)
	}

	var req LabelRequest
	if err := bindJSON(ctx, &req); err != nil {
		return handleError(ctx, err)
	}

	item, err := h.service.Create(ctx.Context(), userID, api.LabelInput{Name: req.Name})
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusCreated, h.response(item))
}

// Get возвращает метку по id.
func (h *LabelHandler[T]) Get(ctx fiber.Ctx) error {
	h.log(ctx, "Get")
	userID, err := currentUser(ctx)
	if err != nil {
		return handleError(ctx, err)
	}

	item, err := h.service.Get(ctx.Context(), userID, ctx.Params("id"))
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, h.response(item))
}

// Update полностью заменяет метку (PUT).
func (h *LabelHandler[T]) Update(ctx fiber.Ctx) error {
	return h.update(ctx, false)
}

// Patch частично изменяет метку (PATCH).
func (h *LabelHandler[T]) Patch(ctx fiber.Ctx) error {
	return h.update(ctx, true)
}

func (h *LabelHandler[T]) update(ctx fiber.Ctx, partial bool) error {
	h.log(ctx, "Update")
	userID, err := currentUser(ctx)
	if err != nil {
		return handleError(ctx, err)
	}

	var req LabelRequest
	if err := bindJSON(ctx, &req); err != nil {
		return handleError(ctx, err)
	}

	item, err := h.service.Update(ctx.Context(), userID, ctx.Params("id"), api.LabelInput{Name: req.Name}, partial)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, h.response(item))
}

// Delete удаляет метку.
func (h *LabelHandler[T]) Delete(ctx fiber.Ctx) error {
	h.log(ctx, "Delete")
	userID, err := currentUser(ctx)
	if err != nil {
		return handleError(ctx, err)
	}

	if err := h.service.Delete(ctx.Context(), userID, ctx.Params("id")); err != nil {
		return handleError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
