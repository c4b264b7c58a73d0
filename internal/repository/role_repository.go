package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roadready/roadready-api/internal/model"
)

// ErrRoleNotFound is returned when a role name has no row in the roles table.
var ErrRoleNotFound = errors.New("role not found")

// RoleRepo manages the roles lookup table and the user_roles join table. A
// user's effective role is the row with the lowest role id; deleting every
// row deactivates the account.
type RoleRepo struct {
	db *sql.DB
}

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{db: db} }

// GetByName fetches a role by its exact name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (model.Role, error) {
	var role model.Role
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM roles WHERE name=? LIMIT 1", name).Scan(&role.ID, &role.Name)
	if err == sql.ErrNoRows {
		return model.Role{}, ErrRoleNotFound
	}
	return role, err
}

// EffectiveRole returns the name of the user's effective role, or "" when the
// user holds no roles (deactivated).
func (r *RoleRepo) EffectiveRole(ctx context.Context, userID uint64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT ro.name FROM user_roles ur
		 JOIN roles ro ON ro.id = ur.role_id
		 WHERE ur.user_id = ?
		 ORDER BY ur.role_id LIMIT 1`, userID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return name, err
}

// Assign inserts a user_roles row. The insert is idempotent for an
// already-assigned role.
func (r *RoleRepo) Assign(ctx context.Context, userID uint64, roleID uint8) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO user_roles (user_id, role_id) VALUES (?,?)", userID, roleID)
	return err
}

// ReplaceTx deletes every role of the user and assigns the single new one,
// inside an existing transaction. There is no audit trail of prior roles.
func (r *RoleRepo) ReplaceTx(ctx context.Context, tx *sql.Tx, userID uint64, roleID uint8) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_roles WHERE user_id=?", userID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES (?,?)", userID, roleID)
	return err
}

// RemoveAll deletes every role of the user. A user with zero roles is the
// deactivated representation; no flag is flipped on the users row.
func (r *RoleRepo) RemoveAll(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM user_roles WHERE user_id=?", userID)
	return err
}
