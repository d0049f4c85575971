package user

import "context"

// Repository defines data access for users.
type Repository interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByID retrieves a user by UUID.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// ListUsers returns a page of users matching the query plus the total
	// number of matches.
	ListUsers(ctx context.Context, q ListQuery) ([]*User, int, error)

	// UpdateProfile updates the mutable profile fields (name, role).
	UpdateProfile(ctx context.Context, u *User) error

	// UpdateRefreshTokenHash stores (or clears, with "") the bcrypt hash of
	// the user's current refresh token.
	UpdateRefreshTokenHash(ctx context.Context, id string, hash string) error

	// DeleteUser removes a user account.
	DeleteUser(ctx context.Context, id string) error
}
