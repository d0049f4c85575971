package auth

import (
	"context"
	"errors"

	"github.com/serdarakin/shoply-backend/internal/modules/user"
)

// ErrInvalidCredentials is returned for any login/refresh failure that must
// not reveal whether the account exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned when registering with an email already in use.
var ErrEmailTaken = errors.New("email already in use")

// Session is the result of a successful login: an access token for the
// Authorization header and a refresh token destined for an httpOnly cookie.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *user.User
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Register(ctx context.Context, name, email, password string) (*user.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)

	// Refresh validates a refresh token against the stored hash and issues a
	// new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// Logout invalidates the stored refresh token hash. An unparseable token
	// is not an error: the cookie is cleared either way.
	Logout(ctx context.Context, refreshToken string) error
}
