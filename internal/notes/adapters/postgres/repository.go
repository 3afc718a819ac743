package postgres

import (
	"notekeeper/internal/notes/ports/repositories"
)

// RepositoryFactory создает все репозитории сервиса заметок поверх одного пула.
type RepositoryFactory struct {
	categories repositories.CategoryRepository
	tags       repositories.TagRepository
	notes      repositories.NoteRepository
	users      repositories.UserRepository
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		categories: NewCategoryRepository(pool),
		tags:       NewTagRepository(pool),
		notes:      NewNoteRepository(pool),
		users:      NewUserRepository(pool),
	}
}

// CategoryRepository возвращает репозиторий категорий.
func (f *RepositoryFactory) CategoryRepository() repositories.CategoryRepository {
	return f.categories
}

// TagRepository возвращает репозиторий тегов.
func (f *RepositoryFactory) TagRepository() repositories.TagRepository {
	return f.tags
}

// NoteRepository возвращает репозиторий заметок.
func (f *RepositoryFactory) NoteRepository() repositories.NoteRepository {
	return f.notes
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.users
}
