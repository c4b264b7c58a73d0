package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadready/roadready-api/internal/config"
	"github.com/roadready/roadready-api/internal/repository"
	"github.com/roadready/roadready-api/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	h := NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewRoleRepo(db), repository.NewTokenRepo(db))
	return h, mock
}

func postJSON(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthRegisterValidation(t *testing.T) {
	h, mock := newAuthHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing password", `{"firstName":"A","lastName":"B","email":"a@b.com"}`},
		{"whitespace names", `{"firstName":"  ","lastName":"B","email":"a@b.com","password":"pw"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := postJSON(t, "/api/auth/register", tt.body)
			require.NoError(t, h.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	require.NoError(t, mock.ExpectationsWereMet(), "validation failures must not touch the database")
}

func TestAuthLoginWrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, err := utils.HashPassword("correct-horse", 4)
	require.NoError(t, err)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("priya@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash",
			"phone_number", "address", "city", "state", "postal_code", "reset_token_hash",
			"reset_token_expires", "created_at", "updated_at"}).
			AddRow(7, "Priya", "Raman", "priya@example.com", hash,
				nil, nil, nil, nil, nil, nil, nil, now, now))

	c, rec := postJSON(t, "/api/auth/login", `{"email":"priya@example.com","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthLoginDeactivatedAccount(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, err := utils.HashPassword("correct-horse", 4)
	require.NoError(t, err)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("priya@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash",
			"phone_number", "address", "city", "state", "postal_code", "reset_token_hash",
			"reset_token_expires", "created_at", "updated_at"}).
			AddRow(7, "Priya", "Raman", "priya@example.com", hash,
				nil, nil, nil, nil, nil, nil, nil, now, now))
	// no user_roles rows left: correct credentials still cannot log in
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY ur.role_id LIMIT 1")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	c, rec := postJSON(t, "/api/auth/login", `{"email":"priya@example.com","password":"correct-horse"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "account is deactivated")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthResetPasswordExpiredToken(t *testing.T) {
	h, mock := newAuthHandler(t)

	token := "raw-reset-token"
	expired := time.Now().UTC().Add(-time.Minute)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE reset_token_hash=?")).
		WithArgs(utils.HashToken(token)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash",
			"phone_number", "address", "city", "state", "postal_code", "reset_token_hash",
			"reset_token_expires", "created_at", "updated_at"}).
			AddRow(7, "Priya", "Raman", "priya@example.com", "hash",
				nil, nil, nil, nil, nil, utils.HashToken(token), expired, now, now))

	c, rec := postJSON(t, "/api/auth/reset-password",
		`{"token":"`+token+`","newPassword":"new-password"}`)
	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired reset token")
	require.NoError(t, mock.ExpectationsWereMet())
}
