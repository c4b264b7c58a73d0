package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/roadready/roadready-api/internal/model"
)

// UserRepo provides persistence for users and their profile fields.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *UserRepo) DB() *sql.DB { return r.db }

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

const userColumns = `id, first_name, last_name, email, password_hash, phone_number,
	address, city, state, postal_code, reset_token_hash, reset_token_expires,
	created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.PhoneNumber, &u.Address, &u.City, &u.State, &u.PostalCode,
		&u.ResetTokenHash, &u.ResetTokenExpires, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user with a pre-hashed password and returns the new id.
// The email is normalized to lower case; duplicates map to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, firstName, lastName, email, passwordHash string, phone *string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, email, password_hash, phone_number) VALUES (?,?,?,?,?)",
		firstName, lastName, email, passwordHash, phone)
	if err != nil {
		// 1062 = MySQL duplicate entry on the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile overwrites the mutable profile fields of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, firstName, lastName string, phone, address, city, state, postalCode *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET first_name=?, last_name=?, phone_number=?, address=?,
		 city=?, state=?, postal_code=? WHERE id=?`,
		firstName, lastName, phone, address, city, state, postalCode, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and an unchanged row, so
		// confirm existence before reporting not-found.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetResetToken stores the SHA-256 digest of a freshly issued password-reset
// token together with its expiry, replacing any previous token.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, tokenHash string, expires time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=?, reset_token_expires=? WHERE id=?",
		tokenHash, expires, id)
	return err
}

// GetByResetTokenHash finds the user holding the given reset-token digest.
// Expiry is checked by the caller so that expired and unknown tokens produce
// the same error.
func (r *UserRepo) GetByResetTokenHash(ctx context.Context, tokenHash string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE reset_token_hash=? LIMIT 1", tokenHash))
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// UpdatePassword replaces the password hash and clears any active reset token.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_token_hash=NULL, reset_token_expires=NULL WHERE id=?",
		passwordHash, id)
	return err
}

// CountAll returns the total number of users.
func (r *UserRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// UserWithRole pairs a user row with its effective role for admin listings.
// The effective role is the lowest role id among the user's rows; an empty
// Role means the user holds no roles and is deactivated.
type UserWithRole struct {
	ID          uint64  `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Role        string  `json:"role"`
}

// ListPaged returns a page of users with their effective roles, ordered by id.
func (r *UserRepo) ListPaged(ctx context.Context, offset, limit int) ([]UserWithRole, error) {
	const q = `SELECT u.id, u.first_name, u.last_name, u.email, u.phone_number,
	                  COALESCE((SELECT ro.name FROM user_roles ur
	                            JOIN roles ro ON ro.id = ur.role_id
	                            WHERE ur.user_id = u.id
	                            ORDER BY ur.role_id LIMIT 1), '') AS role
	           FROM users u
	           ORDER BY u.id
	           LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]UserWithRole, 0)
	for rows.Next() {
		var u UserWithRole
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
