package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
	pkgkafka "github.com/youneszerotohero-coder/mb-backend/pkg/kafka"
)

// Kafka topic constants for catalog domain events.
const (
	TopicProductCreated = "store.catalog.product.created"
	TopicProductUpdated = "store.catalog.product.updated"
	TopicProductDeleted = "store.catalog.product.deleted"
	TopicStockAdjusted  = "store.catalog.stock.adjusted"
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from the catalog module.
const SourceCatalog = "catalog"

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Brand         string  `json:"brand,omitempty"`
	CategoryID    *string `json:"category_id,omitempty"`
	Price         int64   `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	IsActive      bool    `json:"is_active"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// StockAdjustedData is the payload for a stock.adjusted event.
type StockAdjustedData struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	Remaining int    `json:"remaining"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog module.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Brand:         p.Brand,
		CategoryID:    p.CategoryID,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductUpdated, product)
}

func (p *Producer) publishProduct(ctx context.Context, topic string, product *domain.Product) error {
	event, err := pkgkafka.NewEvent(topic, product.ID, AggregateTypeProduct, SourceCatalog, productData(product))
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published catalog event",
		slog.String("topic", topic),
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	event, err := pkgkafka.NewEvent(TopicProductDeleted, id, AggregateTypeProduct, SourceCatalog, ProductDeletedData{ID: id})
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published catalog event",
		slog.String("topic", TopicProductDeleted),
		slog.String("product_id", id),
	)

	return nil
}

// PublishStockAdjusted publishes a stock.adjusted event.
func (p *Producer) PublishStockAdjusted(ctx context.Context, productID string, delta, remaining int) error {
	data := StockAdjustedData{ProductID: productID, Delta: delta, Remaining: remaining}

	event, err := pkgkafka.NewEvent(TopicStockAdjusted, productID, AggregateTypeProduct, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create stock.adjusted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicStockAdjusted, event); err != nil {
		return fmt.Errorf("publish stock.adjusted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published catalog event",
		slog.String("topic", TopicStockAdjusted),
		slog.String("product_id", productID),
		slog.Int("delta", delta),
		slog.Int("remaining", remaining),
	)

	return nil
}
