package postgres_test

import (
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
)

var noteColumns = []string{"id", "user_id", "title", "content", "slug", "category_id", "is_favorite", "created_at", "updated_at", "tag_ids"}

var historyColumns = []string{
	"history_id", "id", "title", "content", "created_at", "updated_at", "is_favorite",
	"history_date", "history_change_reason", "history_type", "history_user_id",
}

func int64Ptr(v int64) *int64 { return &v }

func TestNoteRepository_List(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM notes n WHERE n.user_id = \$1 AND n.is_favorite = \$2 ORDER BY n.created_at ASC, n.id ASC`).
		WithArgs(int64(1), true).
		WillReturnRows(pgxmock.NewRows(noteColumns).
			AddRow(int64(7), int64(1), "Go", "notes", "go", int64Ptr(3), true, now, now, []int64{2, 4}).
			AddRow(int64(8), int64(1), "Rust", "", "rust", (*int64)(nil), true, now, now, []int64{}))

	notes, err := postgres.NewNoteRepository(mock).List(ctx, 1, query.Query{
		Conditions: []query.Condition{{Field: entities.FilterIsFavorite, Value: true}},
		Ordering:   []query.Order{{Field: entities.OrderCreatedAt}},
	})

	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, int64(7), notes[0].ID)
	assert.Equal(t, int64(3), *notes[0].CategoryID)
	assert.Equal(t, []int64{2, 4}, notes[0].TagIDs)
	assert.Nil(t, notes[1].CategoryID)
	assert.Equal(t, []int64{}, notes[1].TagIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepository_GetBySlug(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("found by slug", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`WHERE n.user_id = \$1 AND n.slug = \$2 LIMIT 2`).
			WithArgs(int64(1), "my-note").
			WillReturnRows(pgxmock.NewRows(noteColumns).
				AddRow(int64(7), int64(1), "My note", "", "my-note", (*int64)(nil), false, now, now, []int64{}))

		note, err := postgres.NewNoteRepository(mock).GetBySlug(ctx, 1, "my-note")

		require.NoError(t, err)
		assert.Equal(t, int64(7), note.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("LIMIT 2").
			WithArgs(int64(2), "my-note").
			WillReturnRows(pgxmock.NewRows(noteColumns))

		_, err = postgres.NewNoteRepository(mock).GetBySlug(ctx, 2, "my-note")

		assert.ErrorIs(t, err, entities.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("multiple matches are an error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("LIMIT 2").
			WithArgs(int64(1), "dup").
			WillReturnRows(pgxmock.NewRows(noteColumns).
				AddRow(int64(1), int64(1), "a", "", "dup", (*int64)(nil), false, now, now, []int64{}).
				AddRow(int64(2), int64(1), "b", "", "dup", (*int64)(nil), false, now, now, []int64{}))

		_, err = postgres.NewNoteRepository(mock).GetBySlug(ctx, 1, "dup")

		assert.ErrorIs(t, err, postgres.ErrAmbiguousSlug)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_GetByID(t *testing.T) {
	ctx := testContext(t)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`WHERE n.id = \$1 AND n.user_id = \$2`).
		WithArgs(int64(999), int64(1)).
		WillReturnRows(pgxmock.NewRows(noteColumns))

	_, err = postgres.NewNoteRepository(mock).GetByID(ctx, 1, 999)

	assert.ErrorIs(t, err, entities.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepository_Create(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)
	input := entities.Note{UserID: 1, Title: "Title", Content: "Body", Slug: "title", TagIDs: []int64{2, 3}}

	t.Run("note, tags and history in one transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		reason := "initial"
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO notes \(user_id, title, content, slug, category_id\)`).
			WithArgs(int64(1), "Title", "Body", "title", (*int64)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "is_favorite", "created_at", "updated_at"}).
				AddRow(int64(10), false, now, now))
		mock.ExpectExec(`INSERT INTO note_tags`).
			WithArgs(int64(10), []int64{2, 3}).
			WillReturnResult(pgconn.NewCommandTag("INSERT 0 2"))
		mock.ExpectExec(`INSERT INTO notes_history`).
			WithArgs(int64(10), int64(1), &reason, "+").
			WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))
		mock.ExpectCommit()

		note, err := postgres.NewNoteRepository(mock).Create(ctx, input, &reason)

		require.NoError(t, err)
		assert.Equal(t, int64(10), note.ID)
		assert.Equal(t, now, note.CreatedAt)
		assert.Equal(t, []int64{2, 3}, note.TagIDs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("taken slug becomes a validation error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO notes`).
			WithArgs(int64(1), "Title", "Body", "title", (*int64)(nil)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "notes_user_slug_key"})
		mock.ExpectRollback()

		_, err = postgres.NewNoteRepository(mock).Create(ctx, input, nil)

		require.ErrorIs(t, err, entities.ErrValidation)
		var verr *entities.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{entities.MsgSlugTaken}, verr.Fields["slug"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted tag rolls back the transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO notes`).
			WithArgs(int64(1), "Title", "Body", "title", (*int64)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "is_favorite", "created_at", "updated_at"}).
				AddRow(int64(10), false, now, now))
		mock.ExpectExec(`INSERT INTO note_tags`).
			WithArgs(int64(10), []int64{2, 3}).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "note_tags_tag_id_fkey"})
		mock.ExpectRollback()

		_, err = postgres.NewNoteRepository(mock).Create(ctx, input, nil)

		var verr *entities.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{entities.MsgRelatedGone}, verr.Fields["tags"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin transaction error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		dbError := errors.New("connection refused")
		mock.ExpectBegin().WillReturnError(dbError)

		_, err = postgres.NewNoteRepository(mock).Create(ctx, input, nil)

		assert.ErrorIs(t, err, dbError)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_Update(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)
	input := entities.Note{ID: 10, UserID: 1, Title: "New", Content: "Body", Slug: "new", CategoryID: int64Ptr(3)}

	t.Run("tags are replaced and a ~ record is added", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE notes SET title = \$3`).
			WithArgs(int64(10), int64(1), "New", "Body", "new", int64Ptr(3)).
			WillReturnRows(pgxmock.NewRows([]string{"is_favorite", "created_at", "updated_at"}).AddRow(true, now, now))
		mock.ExpectExec(`DELETE FROM note_tags WHERE note_id = \$1`).
			WithArgs(int64(10)).
			WillReturnResult(pgconn.NewCommandTag("DELETE 2"))
		mock.ExpectExec(`INSERT INTO notes_history`).
			WithArgs(int64(10), int64(1), (*string)(nil), "~").
			WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))
		mock.ExpectCommit()

		note, err := postgres.NewNoteRepository(mock).Update(ctx, input, nil)

		require.NoError(t, err)
		assert.True(t, note.IsFavorite)
		assert.Equal(t, []int64{}, note.TagIDs)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other user's note is not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		other := input
		other.UserID = 2
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE notes SET title`).
			WithArgs(int64(10), int64(2), "New", "Body", "new", int64Ptr(3)).
			WillReturnRows(pgxmock.NewRows([]string{"is_favorite", "created_at", "updated_at"}))
		mock.ExpectRollback()

		_, err = postgres.NewNoteRepository(mock).Update(ctx, other, nil)

		assert.ErrorIs(t, err, entities.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted category", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE notes SET title`).
			WithArgs(int64(10), int64(1), "New", "Body", "new", int64Ptr(3)).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "notes_category_id_fkey"})
		mock.ExpectRollback()

		_, err = postgres.NewNoteRepository(mock).Update(ctx, input, nil)

		var verr *entities.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{`Invalid pk "3" - object does not exist.`}, verr.Fields["category"])
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("snapshot is written before delete", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO notes_history`).
			WithArgs(int64(10), int64(1), (*string)(nil), "-").
			WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))
		mock.ExpectExec(`DELETE FROM notes WHERE id = \$1 AND user_id = \$2`).
			WithArgs(int64(10), int64(1)).
			WillReturnResult(pgconn.NewCommandTag("DELETE 1"))
		mock.ExpectCommit()

		err = postgres.NewNoteRepository(mock).Delete(ctx, 1, 10, nil)

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other user's note is not deleted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO notes_history`).
			WithArgs(int64(10), int64(2), (*string)(nil), "-").
			WillReturnResult(pgconn.NewCommandTag("INSERT 0 0"))
		mock.ExpectRollback()

		err = postgres.NewNoteRepository(mock).Delete(ctx, 2, 10, nil)

		assert.ErrorIs(t, err, entities.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_ToggleFavorite(t *testing.T) {
	ctx := testContext(t)

	t.Run("flag is flipped and history is written", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SET is_favorite = NOT is_favorite`).
			WithArgs(int64(7), int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"is_favorite"}).AddRow(true))
		mock.ExpectExec(`INSERT INTO notes_history`).
			WithArgs(int64(7), int64(1), (*string)(nil), "~").
			WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))
		mock.ExpectCommit()

		favorite, err := postgres.NewNoteRepository(mock).ToggleFavorite(ctx, 1, 7)

		require.NoError(t, err)
		assert.True(t, favorite)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other user's note", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SET is_favorite = NOT is_favorite`).
			WithArgs(int64(7), int64(2)).
			WillReturnRows(pgxmock.NewRows([]string{"is_favorite"}))
		mock.ExpectRollback()

		_, err = postgres.NewNoteRepository(mock).ToggleFavorite(ctx, 2, 7)

		assert.ErrorIs(t, err, entities.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_History(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("records in write order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		reason := "typo"
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM notes WHERE id = \$1 AND user_id = \$2\)`).
			WithArgs(int64(7), int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`FROM notes_history WHERE id = \$1 AND user_id = \$2 ORDER BY history_id`).
			WithArgs(int64(7), int64(1)).
			WillReturnRows(pgxmock.NewRows(historyColumns).
				AddRow(int64(1), int64(7), "A", "", now, now, false, now, (*string)(nil), "+", int64Ptr(1)).
				AddRow(int64(2), int64(7), "B", "", now, now, false, now, &reason, "~", int64Ptr(1)))

		revisions, err := postgres.NewNoteRepository(mock).History(ctx, 1, 7)

		require.NoError(t, err)
		require.Len(t, revisions, 2)
		assert.Equal(t, entities.HistoryCreated, revisions[0].Type)
		assert.Nil(t, revisions[0].ChangeReason)
		assert.Equal(t, entities.HistoryChanged, revisions[1].Type)
		assert.Equal(t, "typo", *revisions[1].ChangeReason)
		assert.Equal(t, "B", revisions[1].Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("note of another user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(7), int64(2)).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		_, err = postgres.NewNoteRepository(mock).History(ctx, 2, 7)

		assert.ErrorIs(t, err, entities.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
