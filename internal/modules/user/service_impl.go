package user

import (
	"context"
	"errors"
	"fmt"
)

// ErrSelfDelete is returned when a user attempts to delete their own account.
var ErrSelfDelete = errors.New("you cannot delete yourself")

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListUsers(ctx context.Context, q ListQuery) (*ListResult, error) {
	items, total, err := s.repo.ListUsers(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*User{}
	}
	return &ListResult{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: (total + q.Limit - 1) / q.Limit,
		Q:          q.Q,
		Items:      items,
	}, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	if req.Name == nil && req.Role == nil {
		return nil, fmt.Errorf("at least one field required")
	}

	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Role != nil {
		role, ok := ParseRole(*req.Role)
		if !ok {
			return nil, fmt.Errorf("invalid role %q", *req.Role)
		}
		u.Role = role
	}
	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) DeleteUser(ctx context.Context, callerID, id string) error {
	if callerID == id {
		return ErrSelfDelete
	}
	return s.repo.DeleteUser(ctx, id)
}
