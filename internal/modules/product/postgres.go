package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrNotFound is returned when no product matches the given identifier.
var ErrNotFound = errors.New("product not found")

// ErrSKUExists is returned when creating or updating a product with a SKU
// already in use.
var ErrSKUExists = errors.New("sku already exists")

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL product repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id, title, sku, description, price, cost, currency,
	category, tags, stock, status, images, sold_count, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, title, sku, description, price, cost, currency, category, tags, stock, status, images, sold_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.Title, p.SKU, p.Description, p.Price, p.Cost, p.Currency,
		p.Category, pq.Array(p.Tags), p.Stock, p.Status, pq.Array(p.Images), p.SoldCount)
	return mapUniqueViolation(err)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, uid))
}

func (r *postgresRepo) List(ctx context.Context, q ListQuery) ([]*Product, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	add := func(clause string, v interface{}) {
		args = append(args, v)
		where += fmt.Sprintf(clause, len(args))
	}

	if q.Status != "" {
		add(` AND status = $%d`, q.Status)
	}
	if q.Category != "" {
		add(` AND category = $%d`, q.Category)
	}
	if q.MinPrice != nil {
		add(` AND price >= $%d`, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		add(` AND price <= $%d`, *q.MaxPrice)
	}
	if q.MinStock != nil {
		add(` AND stock >= $%d`, *q.MinStock)
	}
	if q.MaxStock != nil {
		add(` AND stock <= $%d`, *q.MaxStock)
	}
	if len(q.Tags) > 0 {
		add(` AND tags && $%d`, pq.Array(q.Tags))
	}
	if q.Q != "" {
		args = append(args, "%"+q.Q+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d OR sku ILIKE $%d OR category ILIKE $%d)`, n, n, n, n)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// SortBy/SortOrder come from an allowlist, never from raw input.
	query := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(` ORDER BY %s %s LIMIT $%d OFFSET $%d`, q.SortBy, q.SortOrder, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET
		  title=$1, sku=$2, description=$3, price=$4, cost=$5, currency=$6,
		  category=$7, tags=$8, stock=$9, status=$10, images=$11, sold_count=$12, updated_at=$13
		WHERE id=$14`,
		p.Title, p.SKU, p.Description, p.Price, p.Cost, p.Currency,
		p.Category, pq.Array(p.Tags), p.Stock, p.Status, pq.Array(p.Images),
		p.SoldCount, time.Now(), p.ID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row *sql.Row) (*Product, error) {
	p, err := scanProductRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func scanProductRow(row rowScanner) (*Product, error) {
	p := &Product{}
	if err := row.Scan(&p.ID, &p.Title, &p.SKU, &p.Description, &p.Price, &p.Cost,
		&p.Currency, &p.Category, pq.Array(&p.Tags), &p.Stock, &p.Status,
		pq.Array(&p.Images), &p.SoldCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// mapUniqueViolation translates the postgres unique_violation code on the
// products SKU index into ErrSKUExists.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrSKUExists
	}
	return err
}
