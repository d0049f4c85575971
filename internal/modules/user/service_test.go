package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeRepo struct {
	users   map[string]*User
	deleted []string
	total   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (f *fakeRepo) seed(role Role) *User {
	u := &User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Role: role}
	f.users[u.ID.String()] = u
	return u
}

func (f *fakeRepo) CreateUser(ctx context.Context, u *User) error {
	f.users[u.ID.String()] = u
	return nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) ListUsers(ctx context.Context, q ListQuery) ([]*User, int, error) {
	var out []*User
	for _, u := range f.users {
		out = append(out, u)
	}
	total := f.total
	if total == 0 {
		total = len(out)
	}
	return out, total, nil
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, u *User) error {
	if _, ok := f.users[u.ID.String()]; !ok {
		return ErrNotFound
	}
	f.users[u.ID.String()] = u
	return nil
}

func (f *fakeRepo) UpdateRefreshTokenHash(ctx context.Context, id, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func (f *fakeRepo) DeleteUser(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return ErrNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	repo := newFakeRepo()
	u := repo.seed(RoleAdmin)
	svc := NewService(repo)

	err := svc.DeleteUser(context.Background(), u.ID.String(), u.ID.String())
	if !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("err = %v, want ErrSelfDelete", err)
	}
	if len(repo.deleted) != 0 {
		t.Errorf("delete reached repository despite self-delete guard")
	}
}

func TestDeleteUserOther(t *testing.T) {
	repo := newFakeRepo()
	target := repo.seed(RoleUser)
	svc := NewService(repo)

	if err := svc.DeleteUser(context.Background(), uuid.New().String(), target.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != target.ID.String() {
		t.Errorf("deleted = %v, want [%s]", repo.deleted, target.ID)
	}
}

func TestUpdateUserRejectsUnknownRole(t *testing.T) {
	repo := newFakeRepo()
	u := repo.seed(RoleUser)
	svc := NewService(repo)

	bogus := "superadmin"
	if _, err := svc.UpdateUser(context.Background(), u.ID.String(), UpdateUserRequest{Role: &bogus}); err == nil {
		t.Fatal("expected error for unknown role")
	}
	got, _ := repo.GetUserByID(context.Background(), u.ID.String())
	if got.Role != RoleUser {
		t.Errorf("role = %s, stored role must not change", got.Role)
	}
}

func TestUpdateUserPromotesRole(t *testing.T) {
	repo := newFakeRepo()
	u := repo.seed(RoleUser)
	svc := NewService(repo)

	role := "manager"
	updated, err := svc.UpdateUser(context.Background(), u.ID.String(), UpdateUserRequest{Role: &role})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role != RoleManager {
		t.Errorf("role = %s, want manager", updated.Role)
	}
}

func TestUpdateUserRequiresField(t *testing.T) {
	repo := newFakeRepo()
	u := repo.seed(RoleUser)
	svc := NewService(repo)

	if _, err := svc.UpdateUser(context.Background(), u.ID.String(), UpdateUserRequest{}); err == nil {
		t.Fatal("expected error for empty update")
	}
}

func TestListUsersTotalPages(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(RoleUser)
	repo.total = 25
	svc := NewService(repo)

	res, err := svc.ListUsers(context.Background(), ListQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", res.TotalPages)
	}
	if res.Total != 25 {
		t.Errorf("total = %d, want 25", res.Total)
	}
}
