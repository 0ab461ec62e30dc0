package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/youneszerotohero-coder/mb-backend/internal/order/service"
)

// RegisterRoutes mounts the order endpoints on the given router.
func RegisterRoutes(r chi.Router, orderSvc *service.OrderService, logger *slog.Logger) {
	handler := NewOrderHandler(orderSvc, logger)

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", handler.ListOrders)
		r.Post("/", handler.CreateOrder)
		r.Get("/statuses", handler.ListStatuses)
		r.Get("/{id}", handler.GetOrder)
		r.Put("/{id}/status", handler.UpdateStatus)
		r.Post("/{id}/cancel", handler.CancelOrder)
	})
}
