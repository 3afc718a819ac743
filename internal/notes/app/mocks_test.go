package app_test

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/domain/query"
)

var errDatabase = errors.New("database error")

type mockLabelRepository[T any] struct {
	mock.Mock
}

func (m *mockLabelRepository[T]) List(ctx context.Context, userID int64, q query.Query) ([]T, error) {
	args := m.Called(ctx, userID, q)
	items, _ := args.Get(0).([]T)
	return items, args.Error(1)
}

func (m *mockLabelRepository[T]) Get(ctx context.Context, userID, id int64) (T, error) {
	args := m.Called(ctx, userID, id)
	item, _ := args.Get(0).(T)
	return item, args.Error(1)
}

func (m *mockLabelRepository[T]) Create(ctx context.Context, userID int64, name string) (T, error) {
	args := m.Called(ctx, userID, name)
	item, _ := args.Get(0).(T)
	return item, args.Error(1)
}

func (m *mockLabelRepository[T]) Update(ctx context.Context, userID, id int64, name string) (T, error) {
	args := m.Called(ctx, userID, id, name)
	item, _ := args.Get(0).(T)
	return item, args.Error(1)
}

func (m *mockLabelRepository[T]) Delete(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockLabelRepository[T]) OwnedIDs(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	args := m.Called(ctx, userID, ids)
	owned, _ := args.Get(0).([]int64)
	return owned, args.Error(1)
}

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) List(ctx context.Context, userID int64, q query.Query) ([]entities.Note, error) {
	args := m.Called(ctx, userID, q)
	notes, _ := args.Get(0).([]entities.Note)
	return notes, args.Error(1)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, userID, id int64) (entities.Note, error) {
	args := m.Called(ctx, userID, id)
	note, _ := args.Get(0).(entities.Note)
	return note, args.Error(1)
}

func (m *mockNoteRepository) GetBySlug(ctx context.Context, userID int64, slug string) (entities.Note, error) {
	args := m.Called(ctx, userID, slug)
	note, _ := args.Get(0).(entities.Note)
	return note, args.Error(1)
}

func (m *mockNoteRepository) SlugExists(ctx context.Context, userID int64, slug string, excludeID int64) (bool, error) {
	args := m.Called(ctx, userID, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockNoteRepository) Create(ctx context.Context, note entities.Note, reason *string) (entities.Note, error) {
	args := m.Called(ctx, note, reason)
	created, _ := args.Get(0).(entities.Note)
	return created, args.Error(1)
}

func (m *mockNoteRepository) Update(ctx context.Context, note entities.Note, reason *string) (entities.Note, error) {
	args := m.Called(ctx, note, reason)
	updated, _ := args.Get(0).(entities.Note)
	return updated, args.Error(1)
}

func (m *mockNoteRepository) Delete(ctx context.Context, userID, id int64, reason *string) error {
	return m.Called(ctx, userID, id, reason).Error(0)
}

func (m *mockNoteRepository) ToggleFavorite(ctx context.Context, userID, id int64) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockNoteRepository) History(ctx context.Context, userID, noteID int64) ([]entities.NoteRevision, error) {
	args := m.Called(ctx, userID, noteID)
	revisions, _ := args.Get(0).([]entities.NoteRevision)
	return revisions, args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user entities.User) (entities.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(entities.User)
	return created, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (entities.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(entities.User)
	return user, args.Error(1)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateAccessToken(ctx context.Context, userID int64) (string, entities.TokenClaims, error) {
	args := m.Called(ctx, userID)
	claims, _ := args.Get(1).(entities.TokenClaims)
	return args.String(0), claims, args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(ctx context.Context, token string) (entities.TokenClaims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(entities.TokenClaims)
	return claims, args.Error(1)
}

type mockRevocationStore struct {
	mock.Mock
}

func (m *mockRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *mockRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
