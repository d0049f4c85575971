package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, q ListQuery) (*ListResult, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type service struct{ repo Repository }

// NewService creates a new product service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if len(req.Title) < 2 {
		return nil, fmt.Errorf("title must be at least 2 characters")
	}
	if len(req.SKU) < 2 {
		return nil, fmt.Errorf("sku must be at least 2 characters")
	}
	if req.Price < 0 || req.Cost < 0 {
		return nil, fmt.Errorf("price and cost must be non-negative")
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("stock must be non-negative")
	}

	currency := req.Currency
	if currency == "" {
		currency = CurrencyTRY
	}
	if !ValidCurrency(currency) {
		return nil, fmt.Errorf("invalid currency %q", currency)
	}

	status := Status(req.Status)
	if status == "" {
		status = StatusActive
	}
	if status != StatusActive && status != StatusDraft && status != StatusArchived {
		return nil, fmt.Errorf("invalid status %q", req.Status)
	}

	category := req.Category
	if category == "" {
		category = "general"
	}

	p := &Product{
		ID:          uuid.New(),
		Title:       req.Title,
		SKU:         req.SKU,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Currency:    currency,
		Category:    category,
		Tags:        req.Tags,
		Stock:       req.Stock,
		Status:      status,
		Images:      req.Images,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, q ListQuery) (*ListResult, error) {
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Product{}
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

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if len(*req.Title) < 2 {
			return nil, fmt.Errorf("title must be at least 2 characters")
		}
		p.Title = *req.Title
	}
	if req.SKU != nil {
		if len(*req.SKU) < 2 {
			return nil, fmt.Errorf("sku must be at least 2 characters")
		}
		p.SKU = *req.SKU
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("price must be non-negative")
		}
		p.Price = *req.Price
	}
	if req.Cost != nil {
		if *req.Cost < 0 {
			return nil, fmt.Errorf("cost must be non-negative")
		}
		p.Cost = *req.Cost
	}
	if req.Currency != nil {
		if !ValidCurrency(*req.Currency) {
			return nil, fmt.Errorf("invalid currency %q", *req.Currency)
		}
		p.Currency = *req.Currency
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("stock must be non-negative")
		}
		p.Stock = *req.Stock
	}
	if req.Status != nil {
		status := Status(*req.Status)
		if status != StatusActive && status != StatusDraft && status != StatusArchived {
			return nil, fmt.Errorf("invalid status %q", *req.Status)
		}
		p.Status = status
	}
	if req.Images != nil {
		p.Images = *req.Images
	}
	if req.SoldCount != nil {
		if *req.SoldCount < 0 {
			return nil, fmt.Errorf("sold_count must be non-negative")
		}
		p.SoldCount = *req.SoldCount
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
