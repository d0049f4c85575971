package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	ListUsers(ctx context.Context, q ListQuery) (*ListResult, error)
	GetUser(ctx context.Context, id string) (*User, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error)

	// DeleteUser removes a user. callerID is the authenticated user making
	// the request: users cannot delete their own account.
	DeleteUser(ctx context.Context, callerID, id string) error
}
