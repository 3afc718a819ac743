package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/domain/query"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

const (
	tableCategories = "categories"
	tableTags       = "tags"

	labelColumns = "id, user_id, name, created_at"

	errListLabels   = "failed to list labels"
	errScanLabel    = "failed to scan label"
	errGetLabel     = "failed to get label"
	errCreateLabel  = "failed to create label"
	errUpdateLabel  = "failed to update label"
	errDeleteLabel  = "failed to delete label"
	errOwnedLabels  = "failed to check label ownership"
	msgLabelMissing = "label not found"
)

// labelRepository общая реализация хранилища категорий и тегов.
type labelRepository[T any] struct {
	pool  PgxPoolInterface
	table string
	build func(id, userID int64, name string, createdAt time.Time) T
	list  listSpec
}

func newLabelRepository[T any](pool PgxPoolInterface, table string, build func(id, userID int64, name string, createdAt time.Time) T) *labelRepository[T] {
	return &labelRepository[T]{
		pool:  pool,
		table: table,
		build: build,
		list: listSpec{
			selectSQL: fmt.Sprintf("SELECT %s FROM %s WHERE user_id = $1", labelColumns, table),
			filters:   map[string]string{entities.FilterName: "name = %s"},
			search:    []string{"name"},
			ordering:  map[string]string{entities.OrderID: "id"},
			tieBreak:  "id",
		},
	}
}

// NewCategoryRepository создает хранилище категорий.
func NewCategoryRepository(pool PgxPoolInterface) repositories.CategoryRepository {
	return newLabelRepository(pool, tableCategories, func(id, userID int64, name string, createdAt time.Time) entities.Category {
		return entities.Category{ID: id, UserID: userID, Name: name, CreatedAt: createdAt}
	})
}

// NewTagRepository создает хранилище тегов.
func NewTagRepository(pool PgxPoolInterface) repositories.TagRepository {
	return newLabelRepository(pool, tableTags, func(id, userID int64, name string, createdAt time.Time) entities.Tag {
		return entities.Tag{ID: id, UserID: userID, Name: name, CreatedAt: createdAt}
	})
}

func (r *labelRepository[T]) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", r.table), zap.String("method", method))
}

func (r *labelRepository[T]) scan(row pgx.Row) (T, error) {
	var (
		id, userID int64
		name       string
		createdAt  time.Time
	)
	if err := row.Scan(&id, &userID, &name, &createdAt); err != nil {
		var zero T
		return zero, err
	}
	return r.build(id, userID, name, createdAt), nil
}

// List возвращает метки пользователя.
func (r *labelRepository[T]) List(ctx context.Context, userID int64, q query.Query) ([]T, error) {
	sql, args := r.list.build(userID, q)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.log(ctx, "List").Error(ctx, errListLabels, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errListLabels, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errScanLabel, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errListLabels, err)
	}

	return items, nil
}

// Get возвращает метку пользователя по id.
func (r *labelRepository[T]) Get(ctx context.Context, userID, id int64) (T, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND user_id = $2", labelColumns, r.table)

	item, err := r.scan(r.pool.QueryRow(ctx, sql, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log(ctx, "Get").Debug(ctx, msgLabelMissing, zap.Int64("id", id))
			return item, fmt.Errorf("%s: %w", errGetLabel, entities.ErrNotFound)
		}
		return item, fmt.Errorf("%s: %w", errGetLabel, err)
	}
	return item, nil
}

// Create сохраняет метку.
func (r *labelRepository[T]) Create(ctx context.Context, userID int64, name string) (T, error) {
	sql := fmt.Sprintf("INSERT INTO %s (user_id, name) VALUES ($1, $2) RETURNING %s", r.table, labelColumns)

	item, err := r.scan(r.pool.QueryRow(ctx, sql, userID, name))
	if err != nil {
		r.log(ctx, "Create").Error(ctx, errCreateLabel, zap.Error(err))
		return item, fmt.Errorf("%s: %w", errCreateLabel, err)
	}
	return item, nil
}

// Update переименовывает метку пользователя.
func (r *labelRepository[T]) Update(ctx context.Context, userID, id int64, name string) (T, error) {
	sql := fmt.Sprintf("UPDATE %s SET name = $3 WHERE id = $1 AND user_id = $2 RETURNING %s", r.table, labelColumns)

	item, err := r.scan(r.pool.QueryRow(ctx, sql, id, userID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, fmt.Errorf("%s: %w", errUpdateLabel, entities.ErrNotFound)
		}
		r.log(ctx, "Update").Error(ctx, errUpdateLabel, zap.Error(err))
		return item, fmt.Errorf("%s: %w", errUpdateLabel, err)
	}
	return item, nil
}

// Delete удаляет метку. Ссылки из заметок обнуляются или удаляются внешними ключами.
func (r *labelRepository[T]) Delete(ctx context.Context, userID, id int64) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND user_id = $2", r.table)

	tag, err := r.pool.Exec(ctx, sql, id, userID)
	if err != nil {
		r.log(ctx, "Delete").Error(ctx, errDeleteLabel, zap.Error(err))
		return fmt.Errorf("%s: %w", errDeleteLabel, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", errDeleteLabel, entities.ErrNotFound)
	}
	return nil
}

// OwnedIDs возвращает те ids, которые принадлежат пользователю.
func (r *labelRepository[T]) OwnedIDs(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	sql := fmt.Sprintf("SELECT id FROM %s WHERE user_id = $1 AND id = ANY($2)", r.table)

	rows, err := r.pool.Query(ctx, sql, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errOwnedLabels, err)
	}
	defer rows.Close()

	owned := make([]int64, 0, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", errOwnedLabels, err)
		}
		owned = append(owned, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errOwnedLabels, err)
	}
	return owned, nil
}
