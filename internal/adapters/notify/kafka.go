package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"time"

	"github.com/Shopify/sarama"
)

const EventOrderCreated = "order_created"

// OrderEvent is the message published for order lifecycle changes.
type OrderEvent struct {
	Event           string   `json:"event"`
	OrderID         string   `json:"order_id"`
	Name            string   `json:"name"`
	Product         string   `json:"product"`
	Qty             int      `json:"qty"`
	Address         string   `json:"address"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	IsCustomRequest bool     `json:"is_custom_request"`
	DistanceMeters  *int     `json:"distance_meters,omitempty"`
	InRange         *bool    `json:"in_range,omitempty"`
	Timestamp       int64    `json:"timestamp"`
}

func newOrderEvent(event string, o *domain.Order, now time.Time) OrderEvent {
	e := OrderEvent{
		Event:           event,
		OrderID:         o.ID,
		Name:            o.Name,
		Product:         o.Product,
		Qty:             o.Qty,
		Address:         o.Address,
		IsCustomRequest: o.IsCustomRequest,
		DistanceMeters:  o.DistanceMeters,
		InRange:         o.InRange,
		Timestamp:       now.Unix(),
	}
	if o.Location != nil {
		lat, lng := o.Location.Lat, o.Location.Lon
		e.Lat, e.Lng = &lat, &lng
	}
	return e
}

// KafkaNotifier publishes order events to a Kafka topic, keyed by order id.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
}

// NewKafkaProducer dials brokers with a producer that waits for acks.
func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: create producer: %w", err)
	}
	return producer, nil
}

func NewKafkaNotifier(producer sarama.SyncProducer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic, now: time.Now}
}

func (k *KafkaNotifier) OrderCreated(ctx context.Context, order *domain.Order) (err error) {
	defer obs.Time(ctx, "kafka.OrderCreated")(&err)

	data, err := json.Marshal(newOrderEvent(EventOrderCreated, order, k.now()))
	if err != nil {
		return fmt.Errorf("order created event: encode: %w", err)
	}

	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(order.ID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("order created event: send to %s: %w", k.topic, err)
	}

	obs.FromContext(ctx).WithField("order_id", order.ID).
		WithField("partition", partition).
		WithField("offset", offset).
		Debug("order event published")
	return nil
}

func (k *KafkaNotifier) Close() error {
	return k.producer.Close()
}
