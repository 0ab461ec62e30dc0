package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/youneszerotohero-coder/mb-backend/internal/order/domain"
	pkgkafka "github.com/youneszerotohero-coder/mb-backend/pkg/kafka"
)

// Kafka topic constants for order domain events.
const (
	TopicOrderCreated       = "store.order.created"
	TopicOrderStatusChanged = "store.order.status_changed"
)

// Aggregate type constant.
const AggregateTypeOrder = "order"

// Source identifier for events originating from the order module.
const SourceOrder = "order"

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	Source      string          `json:"source"`
	Subtotal    int64           `json:"subtotal"`
	DeliveryFee int64           `json:"delivery_fee"`
	Discount    int64           `json:"discount"`
	TotalAmount int64           `json:"total_amount"`
	Items       []OrderItemData `json:"items"`
}

// OrderItemData is the line item payload inside an order.created event.
type OrderItemData struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// StatusChangedData is the payload for an order.status_changed event.
type StatusChangedData struct {
	ID         string `json:"id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Reason     string `json:"reason,omitempty"`
}

// Producer publishes order domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the order module.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	items := make([]OrderItemData, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, OrderItemData{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	data := OrderCreatedData{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Source:      order.Source,
		Subtotal:    order.Subtotal,
		DeliveryFee: order.DeliveryFee,
		Discount:    order.DiscountAmount,
		TotalAmount: order.TotalAmount,
		Items:       items,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceOrder, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order event",
		slog.String("topic", TopicOrderCreated),
		slog.String("order_id", order.ID),
		slog.String("source", order.Source),
	)

	return nil
}

// PublishStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishStatusChanged(ctx context.Context, orderID, from, to, reason string) error {
	data := StatusChangedData{ID: orderID, FromStatus: from, ToStatus: to, Reason: reason}

	event, err := pkgkafka.NewEvent(TopicOrderStatusChanged, orderID, AggregateTypeOrder, SourceOrder, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, event); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order event",
		slog.String("topic", TopicOrderStatusChanged),
		slog.String("order_id", orderID),
		slog.String("to_status", to),
	)

	return nil
}
