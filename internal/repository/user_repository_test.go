package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	t.Run("normalizes email and returns the new id", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (first_name, last_name, email, password_hash, phone_number)")).
			WithArgs("Priya", "Raman", "priya@example.com", "hashed", nil).
			WillReturnResult(sqlmock.NewResult(7, 1))

		id, err := repo.Create(context.Background(), "Priya", "Raman", "  Priya@Example.COM ", "hashed", nil)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), id)
	})

	t.Run("duplicate email maps to sentinel", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'priya@example.com' for key 'users.email'"))

		_, err := repo.Create(context.Background(), "Priya", "Raman", "priya@example.com", "hashed", nil)
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	cols := []string{"id", "first_name", "last_name", "email", "password_hash", "phone_number",
		"address", "city", "state", "postal_code", "reset_token_hash", "reset_token_expires",
		"created_at", "updated_at"}

	t.Run("found with lower-cased lookup", func(t *testing.T) {
		now := time.Now().UTC()
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
			WithArgs("priya@example.com").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(7, "Priya", "Raman", "priya@example.com", "hashed", nil,
					nil, nil, nil, nil, nil, nil, now, now))

		u, err := repo.GetByEmail(context.Background(), "Priya@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, uint64(7), u.ID)
		assert.Equal(t, "priya@example.com", u.Email)
		assert.Nil(t, u.Address)
	})

	t.Run("missing row maps to sentinel", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoUpdatePassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash=?, reset_token_hash=NULL, reset_token_expires=NULL WHERE id=?")).
		WithArgs("newhash", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), 7, "newhash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoListPaged(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY ur.role_id LIMIT 1), '') AS role")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone_number", "role"}).
			AddRow(1, "Ad", "Min", "admin@roadready.com", nil, "Admin").
			AddRow(2, "No", "Roles", "gone@example.com", nil, ""))

	users, err := repo.ListPaged(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Admin", users[0].Role)
	assert.Equal(t, "", users[1].Role, "a user with no role rows reads back as deactivated")
	require.NoError(t, mock.ExpectationsWereMet())
}
