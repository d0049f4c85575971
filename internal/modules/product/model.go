package product

import (
	"time"

	"github.com/google/uuid"
)

// Status is the catalog lifecycle state of a product.
type Status string

const (
	StatusActive   Status = "active"
	StatusDraft    Status = "draft"
	StatusArchived Status = "archived"
)

// Currency values accepted by the catalog.
const (
	CurrencyTRY = "TRY"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// ValidCurrency reports whether c is one of the accepted currencies.
func ValidCurrency(c string) bool {
	return c == CurrencyTRY || c == CurrencyUSD || c == CurrencyEUR
}

// Product is a catalog item. Stock is the only field the order workflow
// mutates; everything else belongs to catalog management.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	SKU         string    `json:"sku"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Cost        float64   `json:"cost"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Stock       int       `json:"stock"`
	Status      Status    `json:"status"`
	Images      []string  `json:"images"`
	SoldCount   int       `json:"sold_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductRequest is the payload for creating a catalog product.
type CreateProductRequest struct {
	Title       string   `json:"title"`
	SKU         string   `json:"sku"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Cost        float64  `json:"cost"`
	Currency    string   `json:"currency"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Stock       int      `json:"stock"`
	Status      string   `json:"status"`
	Images      []string `json:"images"`
}

// UpdateProductRequest is a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Title       *string   `json:"title,omitempty"`
	SKU         *string   `json:"sku,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Cost        *float64  `json:"cost,omitempty"`
	Currency    *string   `json:"currency,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Stock       *int      `json:"stock,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	SoldCount   *int      `json:"sold_count,omitempty"`
}

// ListResult is a page of products plus pagination metadata.
type ListResult struct {
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`
	Q          string     `json:"q,omitempty"`
	Items      []*Product `json:"items"`
}
