package postgres_test

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/notes/adapters/postgres"
	"notekeeper/internal/notes/domain/entities"
)

var userColumns = []string{"id", "email", "username", "password_hash", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)
	input := entities.User{Email: "new@example.com", Username: "newuser", PasswordHash: "hash"}

	t.Run("successful user creation", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(input.Email, input.Username, input.PasswordHash).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow(int64(1), input.Email, input.Username, input.PasswordHash, now, now))

		user, err := postgres.NewUserRepository(mock).Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, input.Email, user.Email)
		assert.Equal(t, now, user.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email already taken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(input.Email, input.Username, input.PasswordHash).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err = postgres.NewUserRepository(mock).Create(ctx, input)

		assert.ErrorIs(t, err, entities.ErrEmailTaken)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("user found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT .+ FROM users WHERE email = \\$1").
			WithArgs("user@example.com").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow(int64(4), "user@example.com", "user", "hash", now, now))

		user, err := postgres.NewUserRepository(mock).FindByEmail(ctx, "user@example.com")

		require.NoError(t, err)
		assert.Equal(t, int64(4), user.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("FROM users").
			WithArgs("missing@example.com").
			WillReturnRows(pgxmock.NewRows(userColumns))

		_, err = postgres.NewUserRepository(mock).FindByEmail(ctx, "missing@example.com")

		assert.ErrorIs(t, err, entities.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryFactory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	factory := postgres.NewRepositoryFactory(mock)

	assert.NotNil(t, factory.CategoryRepository())
	assert.NotNil(t, factory.TagRepository())
	assert.NotNil(t, factory.NoteRepository())
	assert.NotNil(t, factory.UserRepository())
}
