package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/youneszerotohero-coder/mb-backend/internal/cart/service"
)

// RegisterRoutes mounts the cart endpoints on the given router.
func RegisterRoutes(r chi.Router, cartSvc *service.CartService, logger *slog.Logger) {
	handler := NewCartHandler(cartSvc, logger)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddItem)
		r.Post("/scan", handler.ScanItem)
		r.Put("/items/{productId}", handler.UpdateItemQuantity)
		r.Delete("/items/{productId}", handler.RemoveItem)
	})
}
