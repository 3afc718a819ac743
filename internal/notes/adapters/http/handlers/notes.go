package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/ports/api"
	"notekeeper/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote     = "handling create note request"
	LogHandlerGetNote        = "handling get note request"
	LogHandlerListNotes      = "handling list notes request"
	LogHandlerUpdateNote     = "handling update note request"
	LogHandlerDeleteNote     = "handling delete note request"
	LogHandlerToggleFavorite = "handling toggle favorite request"
	LogHandlerNoteHistory    = "handling note history request"

	statusFavoriteUpdated = "favorite status updated"
	paramNoteID           = "id"
)

// NoteHandler обработчик HTTP-запросов для работы с заметками.
type NoteHandler struct {
	notes api.NoteService
}

// NewNoteHandler создает новый экземпляр обработчика заметок.
func NewNoteHandler(notes api.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

func (h *NoteHandler) begin(ctx fiber.Ctx, msg string) (int64, error) {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, msg, zap.String("note", ctx.Params(paramNoteID)))
	return currentUser(ctx)
}

// List возвращает заметки пользователя.
func (h *NoteHandler) List(ctx fiber.Ctx) error {
	userID, err := h.begin(ctx, LogHandlerListNotes)
	if err != nil {
		return handleError(ctx, err)
	}

	notes, err := h.notes.List(ctx.Context(), userID, ctx.Queries())
	if err != nil {
		return handleError(ctx, err)
	}

	out := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, toNoteResponse(note))
	}
	return sendJSON(ctx, fiber.StatusOK, out)
}

// Create создает заметку.
func (h *NoteHandler) Create(ctx fiber.Ctx) error {
	userID, err := h.begin(ctx, LogHandlerCreateNote)
	if err != nil {
		return handleError(ctx, err)
	}

	var req NoteRequest
	if err := bindJSON(ctx, &req); err != nil {
		return handleError(ctx, err)
	}

	note, err := h.notes.Create(ctx.Context(), userID, req.toInput())
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusCreated, toNoteResponse(note))
}

// Get возвращает заметку по id или slug.
func (h *NoteHandler) Get(ctx fiber.Ctx) error {
	userID, err := h.begin(ctx, LogHandlerGetNote)
	if err != nil {
		return handleError(ctx, err)
	}

	note, err := h.notes.Get(ctx.Context(), userID, ctx.Params(paramNoteID))
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, toNoteResponse(note))
}

// Update полностью заменяет заметку (PUT).
func (h *NoteHandler) Update(ctx fiber.Ctx) error {
	return h.update(ctx, false)
}

// Patch частично изменяет заметку (PATCH).
func (h *NoteHandler) Patch(ctx fiber.Ctx) error {
	return h.update(ctx, true)
}

func (h *NoteHandler) update(ctx fiber.Ctx, partial bool) error {
	userID, err := h.begin(ctx, LogHandlerUpdateNote)
	if err != nil {
		return handleError(ctx, err)
	}

	var req NoteRequest
	if err := bindJSON(ctx, &req); err != nil {
		return handleError(ctx, err)
	}

	note, err := h.notes.Update(ctx.Context(), userID, ctx.Params(paramNoteID), req.toInput(), partial)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, toNoteResponse(note))
}

// Delete удаляет заметку. Причина изменения может прийти в теле запроса.
func (h *NoteHandler) Delete(ctx fiber.Ctx) error {
	userID, err := h.begin(ctx, LogHandlerDeleteNote)
	if err != nil {
		return handleError(ctx, err)
	}

	var req DeleteNoteRequest
	if err := bindJSON(ctx, &req); err != nil {
		return handleError(ctx, err)
	}

	if err := h.notes.Delete(ctx.Context(), userID, ctx.Params(paramNoteID), req.ChangeReason); err != nil {
		return handleError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// ToggleFavorite инвертирует is_favorite и возвращает новое значение.
func (h *NoteHandler) ToggleFavorite(ctx fiber.Ctx) error {
	userID, err := h.begin(ctx, LogHandlerToggleFavorite)
	if err != nil {
		return handleError(ctx, err)
	}

	favorite, err := h.notes.ToggleFavorite(ctx.Context(), userID, ctx.Params(paramNoteID))
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, ToggleFavoriteResponse{Status: statusFavoriteUpdated, IsFavorite: favorite})
}

// History возвращает историю изменений заметки.
func (h *NoteHandler) History(ctx fiber.Ctx) error {
	userID, err := h.begin(ctx, LogHandlerNoteHistory)
	if err != nil {
		return handleError(ctx, err)
	}

	revisions, err := h.notes.ListHistory(ctx.Context(), userID, ctx.Params(paramNoteID))
	if err != nil {
		return handleError(ctx, err)
	}

	out := make([]HistoryResponse, 0, len(revisions))
	for _, rev := range revisions {
		out = append(out, toHistoryResponse(rev))
	}
	return sendJSON(ctx, fiber.StatusOK, out)
}
