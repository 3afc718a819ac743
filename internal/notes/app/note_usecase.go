package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/api"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

const (
	methodNoteList       = "NoteList"
	methodNoteCreate     = "NoteCreate"
	methodNoteGet        = "NoteGet"
	methodNoteUpdate     = "NoteUpdate"
	methodNoteDelete     = "NoteDelete"
	methodToggleFavorite = "ToggleFavorite"
	methodListHistory    = "ListHistory"

	msgNoteCreated      = "note created"
	msgNoteUpdated      = "note updated"
	msgNoteDeleted      = "note deleted"
	msgFavoriteToggled  = "favorite status toggled"
	msgValidationFailed = "note validation failed"

	msgErrNoteList       = "failed to list notes"
	msgErrNoteResolve    = "failed to resolve note"
	msgErrNoteCreate     = "failed to create note"
	msgErrNoteUpdate     = "failed to update note"
	msgErrNoteDelete     = "failed to delete note"
	msgErrToggleFavorite = "failed to toggle favorite status"
	msgErrListHistory    = "failed to list note history"
	msgErrCheckLabels    = "failed to check label ownership"
	msgErrGenerateSlug   = "failed to generate slug"

	errCtxListNotes      = "listing notes"
	errCtxResolveNote    = "resolving note"
	errCtxCreateNote     = "creating note"
	errCtxUpdateNote     = "updating note"
	errCtxDeleteNote     = "deleting note"
	errCtxToggleFavorite = "toggling favorite"
	errCtxListHistory    = "listing history"
	errCtxCheckCategory  = "checking category"
	errCtxCheckTags      = "checking tags"
	errCtxGenerateSlug   = "generating slug"

	fieldTitle        = "title"
	fieldContent      = "content"
	fieldSlug         = "slug"
	fieldCategory     = "category"
	fieldTags         = "tags"
	fieldChangeReason = "change_reason"
)

// NoteUseCase бизнес-логика заметок: выборка в рамках владельца, поиск по id или slug,
// переключение избранного и история изменений.
type NoteUseCase struct {
	notes      repositories.NoteRepository
	categories repositories.CategoryRepository
	tags       repositories.TagRepository
	lookup     Lookup
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(
	notes repositories.NoteRepository,
	categories repositories.CategoryRepository,
	tags repositories.TagRepository,
) *NoteUseCase {
	return &NoteUseCase{
		notes:      notes,
		categories: categories,
		tags:       tags,
		lookup:     ByIDOrSlug,
	}
}

var _ api.NoteService = (*NoteUseCase)(nil)

// List возвращает заметки пользователя с учетом фильтров, поиска и сортировки.
func (uc *NoteUseCase) List(ctx context.Context, userID int64, params map[string]string) ([]entities.Note, error) {
	q, err := parseQuery(entities.NoteSchema, params)
	if err != nil {
		return nil, err
	}

	notes, err := uc.notes.List(ctx, userID, q)
	if err != nil {
		logger.Log(ctx).With(zap.String("method", methodNoteList), zap.Int64("userID", userID)).
			Error(ctx, msgErrNoteList, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListNotes, err)
	}
	return notes, nil
}

// Get возвращает заметку по id или slug.
func (uc *NoteUseCase) Get(ctx context.Context, userID int64, identifier string) (entities.Note, error) {
	return uc.resolve(ctx, userID, identifier)
}

// Create создает заметку. Владелец берется из userID, slug генерируется из заголовка,
// если не задан явно.
func (uc *NoteUseCase) Create(ctx context.Context, userID int64, input api.NoteInput) (entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodNoteCreate), zap.Int64("userID", userID))

	v := entities.NewValidationError()
	note := entities.Note{UserID: userID}

	note.Title, _ = checkText(v, fieldTitle, input.Title, true, entities.NoteTitleMaxLength)
	if content := checkOptionalText(v, fieldContent, input.Content, 0); content != nil {
		note.Content = *content
	}
	slug := uc.checkSlug(v, input.Slug)
	reason := checkOptionalText(v, fieldChangeReason, input.ChangeReason, entities.ChangeReasonMaxLength)

	if err := uc.applyLabels(ctx, v, userID, input, &note); err != nil {
		log.Error(ctx, msgErrCheckLabels, zap.Error(err))
		return entities.Note{}, err
	}

	if slug != "" {
		if err := uc.checkSlugFree(ctx, v, userID, slug, 0); err != nil {
			log.Error(ctx, msgErrGenerateSlug, zap.Error(err))
			return entities.Note{}, err
		}
	}

	if err := v.Err(); err != nil {
		log.Debug(ctx, msgValidationFailed, zap.Error(err))
		return entities.Note{}, err
	}

	if slug == "" {
		generated, err := uc.uniqueSlug(ctx, userID, note.Title, 0)
		if err != nil {
			log.Error(ctx, msgErrGenerateSlug, zap.Error(err))
			return entities.Note{}, fmt.Errorf("%s: %w", errCtxGenerateSlug, err)
		}
		slug = generated
	}
	note.Slug = slug

	created, err := uc.notes.Create(ctx, note, reason)
	if err != nil {
		if errors.Is(err, entities.ErrValidation) {
			return entities.Note{}, err
		}
		log.Error(ctx, msgErrNoteCreate, zap.Error(err))
		return entities.Note{}, fmt.Errorf("%s: %w", errCtxCreateNote, err)
	}

	log.Info(ctx, msgNoteCreated, zap.Int64("noteID", created.ID), zap.String("slug", created.Slug))
	return created, nil
}

// Update изменяет заметку. При partial=false заголовок обязателен,
// отсутствующие необязательные поля сохраняют текущие значения.
func (uc *NoteUseCase) Update(ctx context.Context, userID int64, identifier string, input api.NoteInput, partial bool) (entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", methodNoteUpdate), zap.Int64("userID", userID))

	current, err := uc.resolve(ctx, userID, identifier)
	if err != nil {
		return entities.Note{}, err
	}

	v := entities.NewValidationError()
	note := current

	if title, ok := checkText(v, fieldTitle, input.Title, !partial, entities.NoteTitleMaxLength); ok {
		note.Title = title
	}
	if content := checkOptionalText(v, fieldContent, input.Content, 0); content != nil {
		note.Content = *content
	}
	if slug := uc.checkSlug(v, input.Slug); slug != "" && slug != current.Slug {
		if err := uc.checkSlugFree(ctx, v, userID, slug, current.ID); err != nil {
			log.Error(ctx, msgErrGenerateSlug, zap.Error(err))
			return entities.Note{}, err
		}
		note.Slug = slug
	}
	reason := checkOptionalText(v, fieldChangeReason, input.ChangeReason, entities.ChangeReasonMaxLength)

	if err := uc.applyLabels(ctx, v, userID, input, &note); err != nil {
		log.Error(ctx, msgErrCheckLabels, zap.Error(err))
		return entities.Note{}, err
	}

	if err := v.Err(); err != nil {
		log.Debug(ctx, msgValidationFailed, zap.Error(err))
		return entities.Note{}, err
	}

	updated, err := uc.notes.Update(ctx, note, reason)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrNotFound):
			return entities.Note{}, entities.ErrNoteNotFound
		case errors.Is(err, entities.ErrValidation):
			return entities.Note{}, err
		}
		log.Error(ctx, msgErrNoteUpdate, zap.Error(err))
		return entities.Note{}, fmt.Errorf("%s: %w", errCtxUpdateNote, err)
	}

	log.Info(ctx, msgNoteUpdated, zap.Int64("noteID", updated.ID))
	return updated, nil
}

// Delete удаляет заметку, в истории остается запись удаления.
func (uc *NoteUseCase) Delete(ctx context.Context, userID int64, identifier string, reason *string) error {
	log := logger.Log(ctx).With(zap.String("method", methodNoteDelete), zap.Int64("userID", userID))

	note, err := uc.resolve(ctx, userID, identifier)
	if err != nil {
		return err
	}

	v := entities.NewValidationError()
	reason = checkOptionalText(v, fieldChangeReason, reason, entities.ChangeReasonMaxLength)
	if err := v.Err(); err != nil {
		return err
	}

	if err := uc.notes.Delete(ctx, userID, note.ID, reason); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return entities.ErrNoteNotFound
		}
		log.Error(ctx, msgErrNoteDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeleteNote, err)
	}

	log.Info(ctx, msgNoteDeleted, zap.Int64("noteID", note.ID))
	return nil
}

// ToggleFavorite инвертирует признак избранного и возвращает новое значение.
func (uc *NoteUseCase) ToggleFavorite(ctx context.Context, userID int64, identifier string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", methodToggleFavorite), zap.Int64("userID", userID))

	note, err := uc.resolve(ctx, userID, identifier)
	if err != nil {
		return false, err
	}

	favorite, err := uc.notes.ToggleFavorite(ctx, userID, note.ID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return false, entities.ErrNoteNotFound
		}
		log.Error(ctx, msgErrToggleFavorite, zap.Error(err))
		return false, fmt.Errorf("%s: %w", errCtxToggleFavorite, err)
	}

	log.Info(ctx, msgFavoriteToggled, zap.Int64("noteID", note.ID), zap.Bool("isFavorite", favorite))
	return favorite, nil
}

// ListHistory возвращает историю изменений заметки в порядке записи.
// Заметка ищется только по числовому id.
func (uc *NoteUseCase) ListHistory(ctx context.Context, userID int64, noteID string) ([]entities.NoteRevision, error) {
	key, ok := ByID(noteID)
	if !ok {
		return nil, entities.ErrHistoryNotFound
	}

	revisions, err := uc.notes.History(ctx, userID, key.ID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, entities.ErrHistoryNotFound
		}
		logger.Log(ctx).With(zap.String("method", methodListHistory), zap.Int64("userID", userID)).
			Error(ctx, msgErrListHistory, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListHistory, err)
	}
	return revisions, nil
}

func (uc *NoteUseCase) resolve(ctx context.Context, userID int64, identifier string) (entities.Note, error) {
	key, ok := uc.lookup(identifier)
	if !ok {
		return entities.Note{}, entities.ErrNoteNotFound
	}

	var (
		note entities.Note
		err  error
	)
	if key.IsSlug() {
		note, err = uc.notes.GetBySlug(ctx, userID, key.Slug)
	} else {
		note, err = uc.notes.GetByID(ctx, userID, key.ID)
	}
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return entities.Note{}, entities.ErrNoteNotFound
		}
		logger.Log(ctx).With(zap.String("method", methodNoteGet), zap.Int64("userID", userID)).
			Error(ctx, msgErrNoteResolve, zap.Error(err), zap.String("identifier", identifier))
		return entities.Note{}, fmt.Errorf("%s: %w", errCtxResolveNote, err)
	}
	return note, nil
}

// checkSlug проверяет явно заданный slug. Пустая строка означает, что slug не задан.
func (uc *NoteUseCase) checkSlug(v *entities.ValidationError, slug *string) string {
	value := checkOptionalText(v, fieldSlug, slug, entities.NoteSlugMaxLength)
	if value == nil || *value == "" {
		return ""
	}
	if !entities.SlugPattern.MatchString(*value) {
		v.Add(fieldSlug, entities.MsgInvalidSlug)
		return ""
	}
	return *value
}

func (uc *NoteUseCase) checkSlugFree(ctx context.Context, v *entities.ValidationError, userID int64, slug string, excludeID int64) error {
	exists, err := uc.notes.SlugExists(ctx, userID, slug, excludeID)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxGenerateSlug, err)
	}
	if exists {
		v.Add(fieldSlug, entities.MsgSlugTaken)
	}
	return nil
}

// applyLabels проверяет, что категория и теги принадлежат пользователю, и переносит их в note.
func (uc *NoteUseCase) applyLabels(ctx context.Context, v *entities.ValidationError, userID int64, input api.NoteInput, note *entities.Note) error {
	if input.Category.Set {
		if input.Category.Value == nil {
			note.CategoryID = nil
		} else {
			id := *input.Category.Value
			owned, err := uc.categories.OwnedIDs(ctx, userID, []int64{id})
			if err != nil {
				return fmt.Errorf("%s: %w", errCtxCheckCategory, err)
			}
			if len(owned) == 0 {
				v.Addf(fieldCategory, entities.MsgInvalidPK, id)
			} else {
				note.CategoryID = &id
			}
		}
	}

	if input.Tags != nil {
		wanted := uniqueIDs(*input.Tags)
		if len(wanted) > 0 {
			owned, err := uc.tags.OwnedIDs(ctx, userID, wanted)
			if err != nil {
				return fmt.Errorf("%s: %w", errCtxCheckTags, err)
			}
			if missing, ok := firstMissing(wanted, owned); ok {
				v.Addf(fieldTags, entities.MsgInvalidPK, missing)
				return nil
			}
		}
		note.TagIDs = wanted
	}
	return nil
}
