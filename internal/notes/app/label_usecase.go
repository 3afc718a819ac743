package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/domain/query"
	"notekeeper/internal/notes/ports/api"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

const (
	methodLabelList   = "LabelList"
	methodLabelCreate = "LabelCreate"
	methodLabelGet    = "LabelGet"
	methodLabelUpdate = "LabelUpdate"
	methodLabelDelete = "LabelDelete"

	msgLabelCreated = "label created"
	msgLabelUpdated = "label updated"
	msgLabelDeleted = "label deleted"

	msgErrLabelList   = "failed to list labels"
	msgErrLabelCreate = "failed to create label"
	msgErrLabelGet    = "failed to get label"
	msgErrLabelUpdate = "failed to update label"
	msgErrLabelDelete = "failed to delete label"

	errCtxListLabels   = "listing labels"
	errCtxCreateLabel  = "creating label"
	errCtxResolveLabel = "resolving label"
	errCtxUpdateLabel  = "updating label"
	errCtxDeleteLabel  = "deleting label"
)

// LabelResource описывает вид метки: категорию или тег.
type LabelResource struct {
	Kind          string
	MaxNameLength int
	Schema        query.Schema
}

// Описания ресурсов меток.
var (
	CategoryResource = LabelResource{Kind: "category", MaxNameLength: entities.CategoryNameMaxLength, Schema: entities.CategorySchema}
	TagResource      = LabelResource{Kind: "tag", MaxNameLength: entities.TagNameMaxLength, Schema: entities.TagSchema}
)

// LabelUseCase общая бизнес-логика категорий и тегов.
type LabelUseCase[T any] struct {
	repo     repositories.LabelRepository[T]
	resource LabelResource
	lookup   Lookup
}

// NewLabelUseCase создает сценарии для вида меток resource.
func NewLabelUseCase[T any](repo repositories.LabelRepository[T], resource LabelResource) *LabelUseCase[T] {
	return &LabelUseCase[T]{
		repo:     repo,
		resource: resource,
		lookup:   ByID,
	}
}

// NewCategoryUseCase создает сценарии работы с категориями.
func NewCategoryUseCase(repo repositories.CategoryRepository) api.LabelService[entities.Category] {
	return NewLabelUseCase[entities.Category](repo, CategoryResource)
}

// NewTagUseCase создает сценарии работы с тегами.
func NewTagUseCase(repo repositories.TagRepository) api.LabelService[entities.Tag] {
	return NewLabelUseCase[entities.Tag](repo, TagResource)
}

func (uc *LabelUseCase[T]) log(ctx context.Context, method string, userID int64) *logger.Logger {
	return logger.Log(ctx).With(
		zap.String("method", method),
		zap.String("resource", uc.resource.Kind),
		zap.Int64("userID", userID))
}

// List возвращает метки пользователя.
func (uc *LabelUseCase[T]) List(ctx context.Context, userID int64, params map[string]string) ([]T, error) {
	q, err := parseQuery(uc.resource.Schema, params)
	if err != nil {
		return nil, err
	}

	items, err := uc.repo.List(ctx, userID, q)
	if err != nil {
		uc.log(ctx, methodLabelList, userID).Error(ctx, msgErrLabelList, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListLabels, err)
	}
	return items, nil
}

// Create создает метку, владельцем всегда становится userID.
func (uc *LabelUseCase[T]) Create(ctx context.Context, userID int64, input api.LabelInput) (T, error) {
	var zero T
	log := uc.log(ctx, methodLabelCreate, userID)

	v := entities.NewValidationError()
	name, _ := checkText(v, "name", input.Name, true, uc.resource.MaxNameLength)
	if err := v.Err(); err != nil {
		return zero, err
	}

	item, err := uc.repo.Create(ctx, userID, name)
	if err != nil {
		log.Error(ctx, msgErrLabelCreate, zap.Error(err))
		return zero, fmt.Errorf("%s: %w", errCtxCreateLabel, err)
	}

	log.Info(ctx, msgLabelCreated)
	return item, nil
}

// Get возвращает метку по числовому id.
func (uc *LabelUseCase[T]) Get(ctx context.Context, userID int64, identifier string) (T, error) {
	var zero T

	key, ok := uc.lookup(identifier)
	if !ok {
		return zero, entities.ErrResourceNotFound
	}

	item, err := uc.repo.Get(ctx, userID, key.ID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return zero, entities.ErrResourceNotFound
		}
		uc.log(ctx, methodLabelGet, userID).Error(ctx, msgErrLabelGet, zap.Error(err))
		return zero, fmt.Errorf("%s: %w", errCtxResolveLabel, err)
	}
	return item, nil
}

// Update переименовывает метку. При partial отсутствующее имя оставляет метку без изменений.
func (uc *LabelUseCase[T]) Update(ctx context.Context, userID int64, identifier string, input api.LabelInput, partial bool) (T, error) {
	var zero T
	log := uc.log(ctx, methodLabelUpdate, userID)

	current, err := uc.Get(ctx, userID, identifier)
	if err != nil {
		return zero, err
	}

	if partial && input.Name == nil {
		return current, nil
	}

	v := entities.NewValidationError()
	name, _ := checkText(v, "name", input.Name, true, uc.resource.MaxNameLength)
	if err := v.Err(); err != nil {
		return zero, err
	}

	key, _ := uc.lookup(identifier)
	item, err := uc.repo.Update(ctx, userID, key.ID, name)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return zero, entities.ErrResourceNotFound
		}
		log.Error(ctx, msgErrLabelUpdate, zap.Error(err))
		return zero, fmt.Errorf("%s: %w", errCtxUpdateLabel, err)
	}

	log.Info(ctx, msgLabelUpdated, zap.String("identifier", identifier))
	return item, nil
}

// Delete удаляет метку пользователя.
func (uc *LabelUseCase[T]) Delete(ctx context.Context, userID int64, identifier string) error {
	log := uc.log(ctx, methodLabelDelete, userID)

	key, ok := uc.lookup(identifier)
	if !ok {
		return entities.ErrResourceNotFound
	}

	if err := uc.repo.Delete(ctx, userID, key.ID); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return entities.ErrResourceNotFound
		}
		log.Error(ctx, msgErrLabelDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeleteLabel, err)
	}

	log.Info(ctx, msgLabelDeleted, zap.String("identifier", identifier))
	return nil
}
