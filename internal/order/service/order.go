package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/order/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/order/event"
	"github.com/youneszerotohero-coder/mb-backend/internal/order/repository"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
)

// ProductCatalog is the slice of the catalog service the order module needs:
// price and stock snapshots at order time, and stock adjustment afterwards.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (int, error)
}

// OrderService implements the business logic for order operations.
type OrderService struct {
	repo        repository.OrderRepository
	catalog     ProductCatalog
	producer    *event.Producer
	logger      *slog.Logger
	deliveryFee int64
}

// NewOrderService creates a new order service. deliveryFee is the flat fee
// applied to website orders, in minor units.
func NewOrderService(repo repository.OrderRepository, catalog ProductCatalog, producer *event.Producer, logger *slog.Logger, deliveryFee int64) *OrderService {
	return &OrderService{
		repo:        repo,
		catalog:     catalog,
		producer:    producer,
		logger:      logger,
		deliveryFee: deliveryFee,
	}
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID     string
	Quantity      int
	SelectedSize  string
	SelectedColor string
}

// CreateOrderInput holds the parameters for creating an order.
type CreateOrderInput struct {
	Source          string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Notes           string
	DiscountAmount  int64
	Items           []OrderItemInput
}

// CreateOrder validates the requested lines against the catalog, snapshots
// prices, computes totals, and persists the order. Website orders carry the
// configured flat delivery fee; POS orders never do. Stock is decremented
// after the order is stored.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*domain.Order, error) {
	if !domain.IsValidSource(input.Source) {
		return nil, apperrors.InvalidInput("order source must be website or pos")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, apperrors.InvalidInput("customer name is required")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one item")
	}
	if input.DiscountAmount < 0 {
		return nil, apperrors.InvalidInput("discount must not be negative")
	}
	if input.Source == domain.OrderSourceWebsite && strings.TrimSpace(input.CustomerAddress) == "" {
		return nil, apperrors.InvalidInput("customer address is required for website orders")
	}

	orderID := uuid.New().String()
	items := make([]domain.OrderItem, 0, len(input.Items))

	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, apperrors.InvalidInput("item quantity must be at least 1")
		}

		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product %s: %w", line.ProductID, err)
		}
		if !product.IsActive {
			return nil, apperrors.InvalidInput(fmt.Sprintf("product %s is not available", product.SKU))
		}
		if product.StockQuantity < line.Quantity {
			return nil, apperrors.Conflict(fmt.Sprintf("insufficient stock for %s: %d available", product.SKU, product.StockQuantity))
		}

		items = append(items, domain.OrderItem{
			ID:            uuid.New().String(),
			OrderID:       orderID,
			ProductID:     product.ID,
			Name:          product.Name,
			SKU:           product.SKU,
			Price:         product.Price,
			Quantity:      line.Quantity,
			SelectedSize:  catalogdomain.NormalizeToken(line.SelectedSize),
			SelectedColor: catalogdomain.NormalizeToken(line.SelectedColor),
		})
	}

	deliveryFee := s.deliveryFeeFor(input.Source, items)
	totals := domain.ComputeTotals(items, deliveryFee, input.DiscountAmount)

	now := time.Now().UTC()
	order := &domain.Order{
		ID:              orderID,
		OrderNumber:     newOrderNumber(now),
		Status:          domain.OrderStatusPending,
		Source:          input.Source,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		CustomerAddress: strings.TrimSpace(input.CustomerAddress),
		Items:           items,
		Subtotal:        totals.Subtotal,
		DeliveryFee:     totals.DeliveryFee,
		DiscountAmount:  totals.Discount,
		TotalAmount:     totals.Total,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The adjustment floors at zero, so a concurrent sale cannot drive stock
	// negative. Failures are logged, not returned: the order is already
	// committed.
	for i := range order.Items {
		item := &order.Items[i]
		if _, err := s.catalog.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			s.logger.ErrorContext(ctx, "failed to decrement stock for order item",
				slog.String("order_id", order.ID),
				slog.String("product_id", item.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("source", order.Source),
		slog.Int64("total_amount", order.TotalAmount),
	)

	return order, nil
}

// GetOrder retrieves an order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return order, nil
}

// ListOrders returns a paginated order list for the back office.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	if filter.Status != nil && !domain.IsValidStatus(*filter.Status) {
		return nil, 0, apperrors.InvalidInput("unknown order status: " + *filter.Status)
	}
	if filter.Source != nil && !domain.IsValidSource(*filter.Source) {
		return nil, 0, apperrors.InvalidInput("unknown order source: " + *filter.Source)
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// UpdateOrderStatus moves an order to a new status. Delivered and refunded
// orders are frozen. Cancelling an order restocks its items.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, status, reason string) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput("unknown order status: " + status)
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	if !order.CanTransitionTo(status) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot change order status from %s to %s", order.Status, status))
	}

	if status != domain.OrderStatusCancelled {
		reason = ""
	}

	if err := s.repo.UpdateStatus(ctx, id, status, reason); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if status == domain.OrderStatusCancelled {
		for i := range order.Items {
			item := &order.Items[i]
			if _, err := s.catalog.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				s.logger.ErrorContext(ctx, "failed to restock cancelled order item",
					slog.String("order_id", order.ID),
					slog.String("product_id", item.ProductID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	if err := s.producer.PublishStatusChanged(ctx, id, order.Status, status, reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", id),
		slog.String("from_status", order.Status),
		slog.String("to_status", status),
	)

	order.Status = status
	order.CancelledReason = reason
	order.UpdatedAt = time.Now().UTC()

	return order, nil
}

// CancelOrder cancels an order with the given reason. It is a shorthand for
// a transition to cancelled and follows the same rules.
func (s *OrderService) CancelOrder(ctx context.Context, id, reason string) (*domain.Order, error) {
	return s.UpdateOrderStatus(ctx, id, domain.OrderStatusCancelled, reason)
}

// deliveryFeeFor returns the delivery fee for a new order. POS orders are
// handed over in store; website orders pay the flat fee unless the order is
// free anyway.
func (s *OrderService) deliveryFeeFor(source string, items []domain.OrderItem) int64 {
	if source == domain.OrderSourcePOS {
		return 0
	}

	var subtotal int64
	for i := range items {
		subtotal += items[i].LineTotal()
	}
	if subtotal == 0 {
		return 0
	}

	return s.deliveryFee
}

// newOrderNumber builds a human-readable order reference like
// ORD-20250615-1A2B3C4D.
func newOrderNumber(ts time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("ORD-%s-%s", ts.Format("20060102"), suffix)
}
