package dto

import (
	"storefront-delivery-service/internal/domain"
	"time"
)

type ProductRequest struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
}

type ProductResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Price       int        `json:"price"`
	Unit        string     `json:"unit"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	Stock       int        `json:"stock"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Unit:        p.Unit,
		Description: p.Description,
		Image:       p.Image,
		Stock:       p.Stock,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
