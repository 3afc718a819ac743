package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/db/postgres"
	"notekeeper/pkg/logger"
)

const (
	queryInsertUser = `
        INSERT INTO users (email, username, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, email, username, password_hash, created_at, updated_at
    `
	queryUserByEmail = `
        SELECT id, email, username, password_hash, created_at, updated_at
        FROM users
        WHERE email = $1
    `

	constraintUserEmail = "users_email_key"
)

// UserRepository реализует repositories.UserRepository для Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// Create создает нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user entities.User) (entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	created, err := scanUser(r.pool.QueryRow(ctx, queryInsertUser, user.Email, user.Username, user.PasswordHash))
	if err != nil {
		if name, ok := postgres.ConstraintViolation(err, postgres.CodeUniqueViolation); ok && name == constraintUserEmail {
			log.Debug(ctx, "email already registered", zap.String("email", user.Email))
			return entities.User{}, entities.ErrEmailTaken
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return entities.User{}, fmt.Errorf("error creating user: %w", err)
	}

	log.Debug(ctx, "user created", zap.Int64("id", created.ID))
	return created, nil
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByEmail"))

	user, err := scanUser(r.pool.QueryRow(ctx, queryUserByEmail, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("email", email))
			return entities.User{}, fmt.Errorf("error querying user by email: %w", entities.ErrNotFound)
		}
		log.Error(ctx, "error finding user by email", zap.Error(err))
		return entities.User{}, fmt.Errorf("error querying user by email: %w", err)
	}

	return user, nil
}
