package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/youneszerotohero-coder/mb-backend/internal/cart/domain"
	"github.com/youneszerotohero-coder/mb-backend/internal/cart/repository"
	catalogdomain "github.com/youneszerotohero-coder/mb-backend/internal/catalog/domain"
	apperrors "github.com/youneszerotohero-coder/mb-backend/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single cart item.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct items allowed in a cart.
	MaxItemsPerCart = 50
)

// ProductProvider supplies product snapshots for stock checks and price
// capture. The catalog service satisfies this.
type ProductProvider interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*catalogdomain.Product, error)
}

// AddItemInput holds the parameters for adding an item to the cart.
type AddItemInput struct {
	ProductID     string
	Quantity      int
	SelectedSize  string
	SelectedColor string
}

// CartService implements the business logic for cart operations.
type CartService struct {
	repo     repository.CartRepository
	products ProductProvider
	logger   *slog.Logger
	cartTTL  time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, products ProductProvider, logger *slog.Logger, cartTTL time.Duration) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		logger:   logger,
		cartTTL:  cartTTL,
	}
}

// GetCart retrieves the cart for a session. If no cart exists, returns an
// empty cart.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds an item to the session's cart, merging quantities when the
// same product and variant selection is already present. The stock guard is
// consulted against the product's current stock before the quantity grows.
// Uses optimistic locking to prevent races on concurrent cart modifications.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Cart, *domain.StockDecision, error) {
	if sessionID == "" {
		return nil, nil, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity <= 0 {
		return nil, nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if input.Quantity > MaxQuantityPerItem {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	product, err := s.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("get product for cart: %w", err)
	}

	return s.addProduct(ctx, sessionID, product, input)
}

// ScanItem adds one unit of the product identified by the scanned SKU. The
// POS scan path goes through the same stock guard as a manual add.
func (s *CartService) ScanItem(ctx context.Context, sessionID, sku string) (*domain.Cart, *domain.StockDecision, error) {
	if sessionID == "" {
		return nil, nil, apperrors.InvalidInput("session id is required")
	}
	if sku == "" {
		return nil, nil, apperrors.InvalidInput("sku is required")
	}

	product, err := s.products.GetProductBySKU(ctx, sku)
	if err != nil {
		return nil, nil, fmt.Errorf("get product by sku for cart: %w", err)
	}

	return s.addProduct(ctx, sessionID, product, AddItemInput{
		ProductID: product.ID,
		Quantity:  1,
	})
}

func (s *CartService) addProduct(ctx context.Context, sessionID string, product *catalogdomain.Product, input AddItemInput) (*domain.Cart, *domain.StockDecision, error) {
	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	decision := domain.CanAdd(cart.QuantityOf(product.ID), input.Quantity, product.StockQuantity)
	if !decision.Allowed {
		return cart, &decision, nil
	}

	expectedVersion := cart.Version
	size := catalogdomain.NormalizeToken(input.SelectedSize)
	color := catalogdomain.NormalizeToken(input.SelectedColor)

	if idx := cart.FindItemIndex(product.ID, size, color); idx >= 0 {
		newQty := cart.Items[idx].Quantity + input.Quantity
		if newQty > MaxQuantityPerItem {
			return nil, nil, apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
		}
		cart.Items[idx].Quantity = newQty
		// Refresh the snapshot in case price or naming changed.
		cart.Items[idx].Price = product.Price
		cart.Items[idx].Name = product.Name
		cart.Items[idx].SKU = product.SKU
	} else {
		if len(cart.Items) >= MaxItemsPerCart {
			return nil, nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
		}
		item := domain.CartItem{
			ProductID:     product.ID,
			Name:          product.Name,
			SKU:           product.SKU,
			Price:         product.Price,
			Quantity:      input.Quantity,
			SelectedSize:  size,
			SelectedColor: color,
		}
		if img := product.PrimaryImage(); img != nil {
			item.ImageURL = img.URL
		}
		cart.Items = append(cart.Items, item)
	}

	if err := s.saveCart(ctx, cart, expectedVersion); err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", product.ID),
		slog.Int("quantity", input.Quantity),
	)

	return cart, &decision, nil
}

// UpdateItemQuantity sets the quantity of a cart line. A quantity of 0
// removes the line. Increases consult the stock guard; decreases never do.
func (s *CartService) UpdateItemQuantity(ctx context.Context, sessionID, productID, selectedSize, selectedColor string, quantity int) (*domain.Cart, *domain.StockDecision, error) {
	if sessionID == "" {
		return nil, nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, nil, apperrors.InvalidInput("product id is required")
	}
	if quantity < 0 {
		return nil, nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if quantity > MaxQuantityPerItem {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("get cart for update: %w", err)
	}

	size := catalogdomain.NormalizeToken(selectedSize)
	color := catalogdomain.NormalizeToken(selectedColor)

	idx := cart.FindItemIndex(productID, size, color)
	if idx < 0 {
		return nil, nil, apperrors.NotFound("cart item", productID)
	}

	expectedVersion := cart.Version
	current := cart.Items[idx].Quantity

	if quantity > current {
		product, err := s.products.GetProduct(ctx, productID)
		if err != nil {
			return nil, nil, fmt.Errorf("get product for quantity update: %w", err)
		}

		othersInCart := cart.QuantityOf(productID) - current
		decision := domain.CanAdd(othersInCart+current, quantity-current, product.StockQuantity)
		if !decision.Allowed {
			return cart, &decision, nil
		}
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	if err := s.saveCart(ctx, cart, expectedVersion); err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil, nil
}

// RemoveItem removes a specific line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID, selectedSize, selectedColor string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart for remove: %w", err)
	}

	size := catalogdomain.NormalizeToken(selectedSize)
	color := catalogdomain.NormalizeToken(selectedColor)

	idx := cart.FindItemIndex(productID, size, color)
	if idx < 0 {
		return nil, apperrors.NotFound("cart item", productID)
	}

	expectedVersion := cart.Version
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.saveCart(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// ClearCart removes all items from the session's cart.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

func (s *CartService) saveCart(ctx context.Context, cart *domain.Cart, expectedVersion int) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.cartTTL)

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return apperrors.Conflict("cart was modified concurrently, please retry")
	}
	return nil
}

// getOrCreateCart retrieves the cart for a session, creating an empty one if
// it does not exist.
func (s *CartService) getOrCreateCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// newEmptyCart creates a new empty cart for the given session.
func (s *CartService) newEmptyCart(sessionID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Items:     []domain.CartItem{},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cartTTL),
	}
}
