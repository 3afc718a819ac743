package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/notes/adapters/postgres"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/domain/query"
	"notekeeper/pkg/logger"
)

var labelColumns = []string{"id", "user_id", "name", "created_at"}

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func TestCategoryRepository_List(t *testing.T) {
	ctx := testContext(t)
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("successful owner categories retrieval", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, user_id, name, created_at FROM categories WHERE user_id = \$1 AND name = \$2`).
			WithArgs(int64(1), "work").
			WillReturnRows(pgxmock.NewRows(labelColumns).
				AddRow(int64(3), int64(1), "work", createdAt))

		repo := postgres.NewCategoryRepository(mock)
		items, err := repo.List(ctx, 1, query.Query{
			Conditions: []query.Condition{{Field: entities.FilterName, Value: "work"}},
		})

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, entities.Category{ID: 3, UserID: 1, Name: "work", CreatedAt: createdAt}, items[0])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result returns empty slice", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("FROM categories").
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(labelColumns))

		items, err := postgres.NewCategoryRepository(mock).List(ctx, 1, query.Query{})

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		dbError := errors.New("database error")
		mock.ExpectQuery("FROM categories").WithArgs(int64(1)).WillReturnError(dbError)

		items, err := postgres.NewCategoryRepository(mock).List(ctx, 1, query.Query{})

		assert.Nil(t, items)
		assert.ErrorIs(t, err, dbError)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTagRepository_Get(t *testing.T) {
	ctx := testContext(t)
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("successful tag retrieval", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM tags WHERE id = \$1 AND user_id = \$2`).
			WithArgs(int64(5), int64(1)).
			WillReturnRows(pgxmock.NewRows(labelColumns).AddRow(int64(5), int64(1), "go", createdAt))

		tag, err := postgres.NewTagRepository(mock).Get(ctx, 1, 5)

		require.NoError(t, err)
		assert.Equal(t, entities.Tag{ID: 5, UserID: 1, Name: "go", CreatedAt: createdAt}, tag)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other user's tag is not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("FROM tags").
			WithArgs(int64(5), int64(2)).
			WillReturnRows(pgxmock.NewRows(labelColumns))

		_, err = postgres.NewTagRepository(mock).Get(ctx, 2, 5)

		assert.ErrorIs(t, err, entities.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTagRepository_CreateUpdate(t *testing.T) {
	ctx := testContext(t)
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("tag creation", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`INSERT INTO tags \(user_id, name\)`).
			WithArgs(int64(1), "go").
			WillReturnRows(pgxmock.NewRows(labelColumns).AddRow(int64(9), int64(1), "go", createdAt))

		tag, err := postgres.NewTagRepository(mock).Create(ctx, 1, "go")

		require.NoError(t, err)
		assert.Equal(t, int64(9), tag.ID)
		assert.Equal(t, int64(1), tag.UserID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("renaming other user's tag", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`UPDATE tags SET name = \$3`).
			WithArgs(int64(9), int64(2), "rust").
			WillReturnRows(pgxmock.NewRows(labelColumns))

		_, err = postgres.NewTagRepository(mock).Update(ctx, 2, 9, "rust")

		assert.ErrorIs(t, err, entities.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("successful deletion", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM categories WHERE id = \$1 AND user_id = \$2`).
			WithArgs(int64(3), int64(1)).
			WillReturnResult(pgconn.NewCommandTag("DELETE 1"))

		err = postgres.NewCategoryRepository(mock).Delete(ctx, 1, 3)

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("category not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM categories").
			WithArgs(int64(3), int64(2)).
			WillReturnResult(pgconn.NewCommandTag("DELETE 0"))

		err = postgres.NewCategoryRepository(mock).Delete(ctx, 2, 3)

		assert.ErrorIs(t, err, entities.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTagRepository_OwnedIDs(t *testing.T) {
	ctx := testContext(t)

	t.Run("empty list does not query the database", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		owned, err := postgres.NewTagRepository(mock).OwnedIDs(ctx, 1, nil)

		require.NoError(t, err)
		assert.Empty(t, owned)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns only owned ids", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id FROM tags WHERE user_id = \$1 AND id = ANY\(\$2\)`).
			WithArgs(int64(1), []int64{4, 5, 6}).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)).AddRow(int64(6)))

		owned, err := postgres.NewTagRepository(mock).OwnedIDs(ctx, 1, []int64{4, 5, 6})

		require.NoError(t, err)
		assert.Equal(t, []int64{4, 6}, owned)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
