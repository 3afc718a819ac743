// Package postgres содержит реализации репозиториев сервиса заметок поверх PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

// PgxPoolInterface подмножество pgxpool.Pool, используемое репозиториями.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

const (
	errBeginTx  = "failed to begin transaction"
	errCommitTx = "failed to commit transaction"
	msgRollback = "failed to rollback transaction"
)

// withTx выполняет fn в транзакции. Ошибка fn приводит к откату.
func withTx(ctx context.Context, pool PgxPoolInterface, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errBeginTx, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Log(ctx).Warn(ctx, msgRollback, zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", errCommitTx, err)
	}
	return nil
}
