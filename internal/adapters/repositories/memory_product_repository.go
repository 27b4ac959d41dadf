package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"storefront-delivery-service/internal/domain"
	"strings"
	"sync"
	"time"
)

// MemoryProductRepository is the in-memory product catalog.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	now      func() time.Time
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: map[string]*domain.Product{},
		now:      time.Now,
	}
}

func cloneProduct(p *domain.Product) *domain.Product {
	c := *p
	if p.UpdatedAt != nil {
		u := *p.UpdatedAt
		c.UpdatedAt = &u
	}
	return &c
}

// ListProducts returns the catalog ordered by category, then name.
func (r *MemoryProductRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryProductRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("get product %q: %w", id, domain.ErrNotFound)
	}
	return cloneProduct(p), nil
}

func (r *MemoryProductRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("create product: missing id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[p.ID]; exists {
		return fmt.Errorf("create product: id %q already exists", p.ID)
	}
	c := cloneProduct(p)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now()
	}
	r.products[p.ID] = c
	return nil
}

// UpdateProduct replaces the stored product with the same id, keeping its
// creation time.
func (r *MemoryProductRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("update product: nil product")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.products[p.ID]
	if !ok {
		return fmt.Errorf("update product %q: %w", p.ID, domain.ErrNotFound)
	}
	c := cloneProduct(p)
	c.CreatedAt = old.CreatedAt
	now := r.now()
	c.UpdatedAt = &now
	r.products[p.ID] = c
	return nil
}

func (r *MemoryProductRepository) DeleteProduct(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("delete product %q: %w", id, domain.ErrNotFound)
	}
	delete(r.products, id)
	return p, nil
}

type ProductSeed struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
}

// DefaultProducts is the catalog used when no seed file is configured.
func DefaultProducts() []ProductSeed {
	return []ProductSeed{
		{ID: "1", Name: "Bayam Organik", Price: 6000, Unit: "ikat", Description: "Bayam segar organik dari kebun lokal", Image: "bayam.jpg", Stock: 50, Category: "Sayuran Hijau"},
		{ID: "2", Name: "Kangkung", Price: 4500, Unit: "ikat", Description: "Kangkung segar siap masak", Image: "kangkung.jpg", Stock: 40, Category: "Sayuran Hijau"},
		{ID: "3", Name: "Cabai Merah", Price: 30000, Unit: "kg", Description: "Cabai merah keriting pilihan", Image: "cabai.jpg", Stock: 20, Category: "Bumbu"},
	}
}

// Seed validates rows and inserts them into the repository.
func (r *MemoryProductRepository) Seed(ctx context.Context, rows []ProductSeed) error {
	for i, item := range rows {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return fmt.Errorf("seed products: item at index %d: id cannot be empty", i+1)
		}
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed products: item at index %d: name cannot be empty", i+1)
		}
		if item.Price < 0 || item.Stock < 0 {
			return fmt.Errorf("seed products: item at index %d: negative price or stock", i+1)
		}

		p := &domain.Product{
			ID:          id,
			Name:        name,
			Price:       item.Price,
			Unit:        item.Unit,
			Description: item.Description,
			Image:       item.Image,
			Stock:       item.Stock,
			Category:    item.Category,
		}
		if err := r.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}
	return nil
}

// SeedFromJSON populates the catalog from a JSON array file.
func (r *MemoryProductRepository) SeedFromJSON(ctx context.Context, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed products: read %q: %w", jsonPath, err)
	}

	var data []ProductSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed products: parse json: %w", err)
	}

	return r.Seed(ctx, data)
}
