package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
)

var userRowColumns = []string{"id", "email", "password_hash", "first_name", "last_name", "created_at"}

func TestUserPostgres_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	u := &model.User{ID: "user-1", Email: "Ada@Example.com", PasswordHash: "$2a$10$hash", FirstName: "Ada", LastName: "Lovelace", CreatedAt: now}

	t.Run("lower-cases email", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(u.ID, "ada@example.com", u.PasswordHash, u.FirstName, u.LastName, now).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(u.ID, "ada@example.com", u.PasswordHash, u.FirstName, u.LastName, now))

		got, err := NewUserPostgres(db).Create(ctx, u)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", got.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := NewUserPostgres(db).Create(ctx, u)
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})
}

func TestUserPostgres_Find(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("user-1", "ada@example.com", "hash", "Ada", "", time.Now()))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("user-2").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)

	_, err = repo.FindByID(ctx, "user-2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
