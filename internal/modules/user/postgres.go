package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no user matches the given identifier.
var ErrNotFound = errors.New("user not found")

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, refresh_token_hash, created_at, updated_at`

func (r *postgresRepository) CreateUser(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role)
	return err
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uid))
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *postgresRepository) ListUsers(ctx context.Context, q ListQuery) ([]*User, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if q.Role != "" {
		args = append(args, q.Role)
		where += fmt.Sprintf(` AND role = $%d`, len(args))
	}
	if q.Q != "" {
		args = append(args, "%"+q.Q+"%")
		where += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d)`, len(args), len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// SortBy/SortOrder come from an allowlist, never from raw input.
	query := `SELECT ` + userColumns + ` FROM users` + where +
		fmt.Sprintf(` ORDER BY %s %s LIMIT $%d OFFSET $%d`, q.SortBy, q.SortOrder, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u := &User{}
		var refreshHash sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&refreshHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		u.RefreshTokenHash = refreshHash.String
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, u *User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name=$1, role=$2, updated_at=$3 WHERE id=$4`,
		u.Name, u.Role, time.Now(), u.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postgresRepository) UpdateRefreshTokenHash(ctx context.Context, id string, hash string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	var stored interface{}
	if hash != "" {
		stored = hash
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash=$1, updated_at=$2 WHERE id=$3`,
		stored, time.Now(), uid)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postgresRepository) DeleteUser(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postgresRepository) scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	var refreshHash sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&refreshHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.RefreshTokenHash = refreshHash.String
	return u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
