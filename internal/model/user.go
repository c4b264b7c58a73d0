package model

import "time"

// User represents a row in the `users` table. Credentials are stored as a
// bcrypt hash; password-reset tokens are stored only as SHA-256 digests with
// an expiry. Profile fields beyond the name and email are nullable — a user
// may register with a minimal profile, but an address is required before a
// booking can be initiated.
//
// Fields:
//  ID                – primary key identifier of the user.
//  FirstName         – given name.
//  LastName          – family name.
//  Email             – unique email address (stored lower-cased).
//  PasswordHash      – bcrypt hashed password.
//  PhoneNumber       – optional contact number.
//  Address           – optional street address; required for booking.
//  City              – optional city.
//  State             – optional state.
//  PostalCode        – optional postal code.
//  ResetTokenHash    – SHA-256 hex digest of the active password-reset token, if any.
//  ResetTokenExpires – expiry of the active reset token, if any.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type User struct {
	ID                uint64     // users.id
	FirstName         string     // users.first_name
	LastName          string     // users.last_name
	Email             string     // users.email
	PasswordHash      string     // users.password_hash
	PhoneNumber       *string    // users.phone_number (nullable)
	Address           *string    // users.address (nullable)
	City              *string    // users.city (nullable)
	State             *string    // users.state (nullable)
	PostalCode        *string    // users.postal_code (nullable)
	ResetTokenHash    *string    // users.reset_token_hash (nullable)
	ResetTokenExpires *time.Time // users.reset_token_expires (nullable)
	CreatedAt         time.Time  // users.created_at
	UpdatedAt         time.Time  // users.updated_at
}

// Role represents a row in the `roles` table. Users are linked to roles
// through the user_roles join table; a user with zero rows is considered
// deactivated.
type Role struct {
	ID   uint8  // roles.id
	Name string // roles.name (Admin, Customer, Rental Agent)
}

// Role names seeded at startup. The effective role of a user with multiple
// rows is the one with the lowest role id.
const (
	RoleAdmin       = "Admin"
	RoleCustomer    = "Customer"
	RoleRentalAgent = "Rental Agent"
)

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the raw token is persisted.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
