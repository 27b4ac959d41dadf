package ports

import (
	"context"
	"storefront-delivery-service/internal/domain"
)

// Port: a boundary for storing and retrieving orders.
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) (*domain.Order, error)
}

// Port: a boundary for the product catalog.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Receives order lifecycle events for out-of-band processing.
type OrderNotifier interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
}
