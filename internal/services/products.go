package services

import (
	"context"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/ports"
	"strings"

	"github.com/google/uuid"
)

// ProductInput is the editable part of a catalog entry.
type ProductInput struct {
	Name        string
	Price       int
	Unit        string
	Description string
	Image       string
	Stock       int
	Category    string
}

func (in ProductInput) validate() error {
	errs := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if in.Price < 0 {
		errs["price"] = "price cannot be negative"
	}
	if in.Stock < 0 {
		errs["stock"] = "stock cannot be negative"
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Fields: errs}
	}
	return nil
}

type ProductService struct {
	products ports.ProductRepository
}

func NewProductService(products ports.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Unit:        in.Unit,
		Description: in.Description,
		Image:       in.Image,
		Stock:       in.Stock,
		Category:    in.Category,
	}
	if err := s.products.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.products.GetProduct(ctx, p.ID)
}

func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &domain.Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Unit:        in.Unit,
		Description: in.Description,
		Image:       in.Image,
		Stock:       in.Stock,
		Category:    in.Category,
	}
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return s.products.GetProduct(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.DeleteProduct(ctx, id)
}
