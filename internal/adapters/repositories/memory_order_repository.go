package repositories

import (
	"context"
	"fmt"
	"sort"
	"storefront-delivery-service/internal/domain"
	"sync"
	"time"
)

// MemoryOrderRepository keeps orders in process memory. Orders are lost on
// restart.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	now    func() time.Time
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: map[string]*domain.Order{},
		now:    time.Now,
	}
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	if o.Location != nil {
		loc := *o.Location
		c.Location = &loc
	}
	if o.DistanceMeters != nil {
		d := *o.DistanceMeters
		c.DistanceMeters = &d
	}
	if o.InRange != nil {
		r := *o.InRange
		c.InRange = &r
	}
	if o.UpdatedAt != nil {
		u := *o.UpdatedAt
		c.UpdatedAt = &u
	}
	return &c
}

// ListOrders returns every order, newest first.
func (r *MemoryOrderRepository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].OrderDate.After(out[j].OrderDate)
	})
	return out, nil
}

func (r *MemoryOrderRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("get order %q: %w", id, domain.ErrNotFound)
	}
	return cloneOrder(o), nil
}

func (r *MemoryOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if order == nil || order.ID == "" {
		return fmt.Errorf("create order: missing id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("create order: id %q already exists", order.ID)
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *MemoryOrderRepository) UpdateOrderStatus(
	ctx context.Context,
	id string,
	status domain.OrderStatus,
) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("update order %q: unknown status %q", id, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("update order %q: %w", id, domain.ErrNotFound)
	}
	now := r.now()
	o.Status = status
	o.UpdatedAt = &now
	return cloneOrder(o), nil
}

func (r *MemoryOrderRepository) DeleteOrder(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("delete order %q: %w", id, domain.ErrNotFound)
	}
	delete(r.orders, id)
	return o, nil
}
