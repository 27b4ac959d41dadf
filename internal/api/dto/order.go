package dto

import (
	"storefront-delivery-service/internal/domain"
	"time"
)

type OrderResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Product         string     `json:"product"`
	Qty             int        `json:"qty"`
	Address         string     `json:"address"`
	Lat             *float64   `json:"lat"`
	Lng             *float64   `json:"lng"`
	IsCustomRequest bool       `json:"isCustomRequest"`
	Status          string     `json:"status"`
	CustomerEmail   string     `json:"customerEmail,omitempty"`
	DistanceMeters  *int       `json:"distanceMeters,omitempty"`
	InRange         *bool      `json:"inRange,omitempty"`
	OrderDate       time.Time  `json:"orderDate"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

func NewOrderResponse(o *domain.Order) OrderResponse {
	res := OrderResponse{
		ID:              o.ID,
		Name:            o.Name,
		Product:         o.Product,
		Qty:             o.Qty,
		Address:         o.Address,
		IsCustomRequest: o.IsCustomRequest,
		Status:          string(o.Status),
		CustomerEmail:   o.CustomerEmail,
		DistanceMeters:  o.DistanceMeters,
		InRange:         o.InRange,
		OrderDate:       o.OrderDate,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.Location != nil {
		lat, lng := o.Location.Lat, o.Location.Lon
		res.Lat, res.Lng = &lat, &lng
	}
	return res
}

type CreateOrderResponse struct {
	Message string        `json:"message"`
	OrderID string        `json:"orderId"`
	Order   OrderResponse `json:"order"`
}

type UpdateOrderRequest struct {
	Status string `json:"status"`
}

type OrderMessageResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}
