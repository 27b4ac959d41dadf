package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CustomProductOption is the product choice that turns an order into a
// free-text request for something not in the catalog.
const CustomProductOption = "Lainnya"

// Represents a customer order as kept by the order store.
// Location and the derived delivery fields are only set when the customer
// picked a point on the map.
type Order struct {
	ID              string
	Name            string
	Product         string
	Qty             int
	Address         string
	Location        *Coordinates
	IsCustomRequest bool
	Status          OrderStatus
	CustomerEmail   string
	DistanceMeters  *int
	InRange         *bool
	OrderDate       time.Time
	UpdatedAt       *time.Time
}
