package ports

import "context"

// OrderPayload is the body the storefront posts to the order store.
type OrderPayload struct {
	Name            string   `json:"name"`
	Product         string   `json:"product"`
	Qty             int      `json:"qty"`
	Address         string   `json:"address"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	IsCustomRequest bool     `json:"isCustomRequest"`
}

// Contract for the order store as seen from the order form.
type OrderSubmitter interface {
	// SubmitOrder posts the payload with the bearer token and returns the new order id.
	SubmitOrder(ctx context.Context, token string, payload OrderPayload) (string, error)
}
