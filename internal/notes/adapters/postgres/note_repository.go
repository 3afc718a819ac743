package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/domain/query"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/db/postgres"
	"notekeeper/pkg/logger"
)

const (
	noteSelect = `SELECT n.id, n.user_id, n.title, n.content, n.slug, n.category_id, n.is_favorite, n.created_at, n.updated_at,
       ARRAY(SELECT nt.tag_id FROM note_tags nt WHERE nt.note_id = n.id ORDER BY nt.tag_id) AS tag_ids
FROM notes n`

	queryNoteByID     = noteSelect + ` WHERE n.id = $1 AND n.user_id = $2`
	queryNoteBySlug   = noteSelect + ` WHERE n.user_id = $1 AND n.slug = $2 LIMIT 2`
	querySlugExists   = `SELECT EXISTS(SELECT 1 FROM notes WHERE user_id = $1 AND slug = $2 AND id <> $3)`
	queryInsertNote   = `INSERT INTO notes (user_id, title, content, slug, category_id) VALUES ($1, $2, $3, $4, $5) RETURNING id, is_favorite, created_at, updated_at`
	queryUpdateNote   = `UPDATE notes SET title = $3, content = $4, slug = $5, category_id = $6, updated_at = now() WHERE id = $1 AND user_id = $2 RETURNING is_favorite, created_at, updated_at`
	queryDeleteNote   = `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	queryToggleNote   = `UPDATE notes SET is_favorite = NOT is_favorite, updated_at = now() WHERE id = $1 AND user_id = $2 RETURNING is_favorite`
	queryClearTags    = `DELETE FROM note_tags WHERE note_id = $1`
	queryInsertTags   = `INSERT INTO note_tags (note_id, tag_id) SELECT $1, unnest($2::bigint[])`
	queryNoteExists   = `SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1 AND user_id = $2)`
	queryNoteHistory  = `SELECT history_id, id, title, content, created_at, updated_at, is_favorite, history_date, history_change_reason, history_type, history_user_id FROM notes_history WHERE id = $1 AND user_id = $2 ORDER BY history_id`
	queryAppendRecord = `INSERT INTO notes_history (id, user_id, title, content, slug, category_id, is_favorite, created_at, updated_at, history_change_reason, history_type, history_user_id)
SELECT id, user_id, title, content, slug, category_id, is_favorite, created_at, updated_at, $3, $4, $2
FROM notes WHERE id = $1 AND user_id = $2`

	constraintNoteSlug     = "notes_user_slug_key"
	constraintNoteCategory = "notes_category_id_fkey"
	constraintNoteTag      = "note_tags_tag_id_fkey"

	errListNotes      = "failed to list notes"
	errScanNote       = "failed to scan note"
	errGetNote        = "failed to get note"
	errAmbiguousSlug  = "slug matches more than one note"
	errCheckSlug      = "failed to check slug"
	errCreateNote     = "failed to create note"
	errUpdateNote     = "failed to update note"
	errDeleteNote     = "failed to delete note"
	errToggleFavorite = "failed to toggle favorite"
	errReplaceTags    = "failed to replace note tags"
	errAppendRevision = "failed to append note revision"
	errNoteHistory    = "failed to load note history"

	msgNoteMissing = "note not found"
)

// ErrAmbiguousSlug возвращается, если slug неожиданно указывает на несколько заметок.
var ErrAmbiguousSlug = errors.New(errAmbiguousSlug)

// NoteRepository реализует repositories.NoteRepository.
type NoteRepository struct {
	pool PgxPoolInterface
	list listSpec
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{
		pool: pool,
		list: listSpec{
			selectSQL: noteSelect + " WHERE n.user_id = $1",
			filters: map[string]string{
				entities.FilterIsFavorite:   "n.is_favorite = %s",
				entities.FilterCategoryName: "EXISTS (SELECT 1 FROM categories c WHERE c.id = n.category_id AND c.name = %s)",
				entities.FilterTagName:      "EXISTS (SELECT 1 FROM note_tags nt JOIN tags t ON t.id = nt.tag_id WHERE nt.note_id = n.id AND t.name = %s)",
			},
			search: []string{"n.title", "n.content"},
			ordering: map[string]string{
				entities.OrderCreatedAt:  "n.created_at",
				entities.OrderIsFavorite: "n.is_favorite",
			},
			tieBreak: "n.id",
		},
	}
}

func scanNote(row pgx.Row) (entities.Note, error) {
	var note entities.Note
	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&note.Slug,
		&note.CategoryID,
		&note.IsFavorite,
		&note.CreatedAt,
		&note.UpdatedAt,
		&note.TagIDs,
	)
	if note.TagIDs == nil {
		note.TagIDs = []int64{}
	}
	return note, err
}

// List возвращает заметки пользователя.
func (r *NoteRepository) List(ctx context.Context, userID int64, q query.Query) ([]entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.List"))

	sql, args := r.list.build(userID, q)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		log.Error(ctx, errListNotes, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errListNotes, err)
	}
	defer rows.Close()

	notes := make([]entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, errScanNote, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errScanNote, err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errListNotes, err)
	}

	return notes, nil
}

// GetByID возвращает заметку пользователя по id.
func (r *NoteRepository) GetByID(ctx context.Context, userID, id int64) (entities.Note, error) {
	note, err := scanNote(r.pool.QueryRow(ctx, queryNoteByID, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Log(ctx).Debug(ctx, msgNoteMissing, zap.Int64("noteID", id))
			return entities.Note{}, fmt.Errorf("%s: %w", errGetNote, entities.ErrNotFound)
		}
		return entities.Note{}, fmt.Errorf("%s: %w", errGetNote, err)
	}
	return note, nil
}

// GetBySlug возвращает заметку пользователя по slug.
func (r *NoteRepository) GetBySlug(ctx context.Context, userID int64, slug string) (entities.Note, error) {
	rows, err := r.pool.Query(ctx, queryNoteBySlug, userID, slug)
	if err != nil {
		return entities.Note{}, fmt.Errorf("%s: %w", errGetNote, err)
	}
	defer rows.Close()

	found := make([]entities.Note, 0, 1)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return entities.Note{}, fmt.Errorf("%s: %w", errScanNote, err)
		}
		found = append(found, note)
	}
	if err := rows.Err(); err != nil {
		return entities.Note{}, fmt.Errorf("%s: %w", errGetNote, err)
	}

	switch len(found) {
	case 0:
		logger.Log(ctx).Debug(ctx, msgNoteMissing, zap.String("slug", slug))
		return entities.Note{}, fmt.Errorf("%s: %w", errGetNote, entities.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return entities.Note{}, fmt.Errorf("%s: %w", errGetNote, ErrAmbiguousSlug)
	}
}

// SlugExists проверяет, занят ли slug другой заметкой пользователя.
func (r *NoteRepository) SlugExists(ctx context.Context, userID int64, slug string, excludeID int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, querySlugExists, userID, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", errCheckSlug, err)
	}
	return exists, nil
}

// Create сохраняет заметку, ее теги и запись "+" в истории в одной транзакции.
func (r *NoteRepository) Create(ctx context.Context, note entities.Note, reason *string) (entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating note", zap.Int64("userID", note.UserID), zap.String("slug", note.Slug))

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, queryInsertNote, note.UserID, note.Title, note.Content, note.Slug, note.CategoryID).
			Scan(&note.ID, &note.IsFavorite, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			return err
		}
		if err := replaceTags(ctx, tx, note.ID, note.TagIDs, false); err != nil {
			return err
		}
		return appendRevision(ctx, tx, note.UserID, note.ID, entities.HistoryCreated, reason)
	})
	if err != nil {
		if verr := noteConstraintError(err, note); verr != nil {
			return entities.Note{}, verr
		}
		log.Error(ctx, errCreateNote, zap.Error(err))
		return entities.Note{}, fmt.Errorf("%s: %w", errCreateNote, err)
	}

	if note.TagIDs == nil {
		note.TagIDs = []int64{}
	}
	log.Debug(ctx, "note created", zap.Int64("noteID", note.ID))
	return note, nil
}

// Update сохраняет поля заметки, заменяет теги и добавляет запись "~" в историю.
func (r *NoteRepository) Update(ctx context.Context, note entities.Note, reason *string) (entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, queryUpdateNote, note.ID, note.UserID, note.Title, note.Content, note.Slug, note.CategoryID).
			Scan(&note.IsFavorite, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entities.ErrNotFound
			}
			return err
		}
		if err := replaceTags(ctx, tx, note.ID, note.TagIDs, true); err != nil {
			return err
		}
		return appendRevision(ctx, tx, note.UserID, note.ID, entities.HistoryChanged, reason)
	})
	if err != nil {
		if verr := noteConstraintError(err, note); verr != nil {
			return entities.Note{}, verr
		}
		if !errors.Is(err, entities.ErrNotFound) {
			log.Error(ctx, errUpdateNote, zap.Error(err))
		}
		return entities.Note{}, fmt.Errorf("%s: %w", errUpdateNote, err)
	}

	if note.TagIDs == nil {
		note.TagIDs = []int64{}
	}
	return note, nil
}

// Delete записывает снимок "-" в историю и удаляет заметку.
func (r *NoteRepository) Delete(ctx context.Context, userID, id int64, reason *string) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := appendRevision(ctx, tx, userID, id, entities.HistoryDeleted, reason); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, queryDeleteNote, id, userID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, entities.ErrNotFound) {
			logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete")).Error(ctx, errDeleteNote, zap.Error(err))
		}
		return fmt.Errorf("%s: %w", errDeleteNote, err)
	}
	return nil
}

// ToggleFavorite атомарно инвертирует is_favorite и добавляет запись "~" в историю.
func (r *NoteRepository) ToggleFavorite(ctx context.Context, userID, id int64) (bool, error) {
	var favorite bool

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, queryToggleNote, id, userID).Scan(&favorite); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entities.ErrNotFound
			}
			return err
		}
		return appendRevision(ctx, tx, userID, id, entities.HistoryChanged, nil)
	})
	if err != nil {
		if !errors.Is(err, entities.ErrNotFound) {
			logger.Log(ctx).With(zap.String("method", "NoteRepository.ToggleFavorite")).Error(ctx, errToggleFavorite, zap.Error(err))
		}
		return false, fmt.Errorf("%s: %w", errToggleFavorite, err)
	}
	return favorite, nil
}

// History возвращает записи истории заметки в порядке добавления.
func (r *NoteRepository) History(ctx context.Context, userID, noteID int64) ([]entities.NoteRevision, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, queryNoteExists, noteID, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", errNoteHistory, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", errNoteHistory, entities.ErrNotFound)
	}

	rows, err := r.pool.Query(ctx, queryNoteHistory, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errNoteHistory, err)
	}
	defer rows.Close()

	revisions := make([]entities.NoteRevision, 0)
	for rows.Next() {
		var (
			rev  entities.NoteRevision
			kind string
		)
		err := rows.Scan(
			&rev.HistoryID,
			&rev.NoteID,
			&rev.Title,
			&rev.Content,
			&rev.CreatedAt,
			&rev.UpdatedAt,
			&rev.IsFavorite,
			&rev.HistoryDate,
			&rev.ChangeReason,
			&kind,
			&rev.HistoryUserID,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errNoteHistory, err)
		}
		rev.Type = entities.HistoryType(kind)
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errNoteHistory, err)
	}

	return revisions, nil
}

func replaceTags(ctx context.Context, tx pgx.Tx, noteID int64, tagIDs []int64, clear bool) error {
	if clear {
		if _, err := tx.Exec(ctx, queryClearTags, noteID); err != nil {
			return fmt.Errorf("%s: %w", errReplaceTags, err)
		}
	}
	if len(tagIDs) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, queryInsertTags, noteID, tagIDs); err != nil {
		return fmt.Errorf("%s: %w", errReplaceTags, err)
	}
	return nil
}

// appendRevision копирует текущее состояние заметки в notes_history.
func appendRevision(ctx context.Context, tx pgx.Tx, userID, noteID int64, kind entities.HistoryType, reason *string) error {
	tag, err := tx.Exec(ctx, queryAppendRecord, noteID, userID, reason, string(kind))
	if err != nil {
		return fmt.Errorf("%s: %w", errAppendRevision, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// noteConstraintError переводит нарушения ограничений в ошибки валидации.
func noteConstraintError(err error, note entities.Note) error {
	if name, ok := postgres.ConstraintViolation(err, postgres.CodeUniqueViolation); ok && name == constraintNoteSlug {
		return entities.FieldError("slug", entities.MsgSlugTaken)
	}
	if name, ok := postgres.ConstraintViolation(err, postgres.CodeForeignKeyViolation); ok {
		switch name {
		case constraintNoteCategory:
			if note.CategoryID != nil {
				return entities.FieldError("category", fmt.Sprintf(entities.MsgInvalidPK, *note.CategoryID))
			}
			return entities.FieldError("category", entities.MsgRelatedGone)
		case constraintNoteTag:
			return entities.FieldError("tags", entities.MsgRelatedGone)
		}
	}
	return nil
}
