package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/youneszerotohero-coder/mb-backend/internal/catalog/service"
)

// RegisterRoutes mounts the catalog endpoints on the given router.
func RegisterRoutes(r chi.Router, productSvc *service.ProductService, categorySvc *service.CategoryService, logger *slog.Logger) {
	productHandler := NewProductHandler(productSvc, logger)
	categoryHandler := NewCategoryHandler(categorySvc, logger)

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", productHandler.QueryCatalog)
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)
		r.Post("/", productHandler.CreateProduct)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
		r.Post("/{id}/stock", productHandler.AdjustStock)
		r.Put("/{id}/images", productHandler.ReplaceImages)
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.ListCategories)
		r.Get("/{id}", categoryHandler.GetCategory)
		r.Post("/", categoryHandler.CreateCategory)
		r.Put("/{id}", categoryHandler.UpdateCategory)
		r.Delete("/{id}", categoryHandler.DeleteCategory)
	})
}
