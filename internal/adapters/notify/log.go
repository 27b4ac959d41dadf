package notify

import (
	"context"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
)

// LogNotifier writes order events to the process log. Used when no Kafka
// brokers are configured.
type LogNotifier struct{}

func (LogNotifier) OrderCreated(ctx context.Context, order *domain.Order) error {
	entry := obs.FromContext(ctx).
		WithField("event", EventOrderCreated).
		WithField("order_id", order.ID).
		WithField("product", order.Product).
		WithField("qty", order.Qty)
	if order.InRange != nil {
		entry = entry.WithField("in_range", *order.InRange)
	}
	entry.Info("order created")
	return nil
}
