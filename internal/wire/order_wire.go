package wire

import (
	"order-upload/internal/adaptor"
	"order-upload/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireOrder mounts seller order management and the public verify check.
func wireOrder(r chi.Router, orderHandler *adaptor.OrderHandler, log *zap.Logger) {
	r.With(middleware.Seller(log)).Route("/api/orders", func(r chi.Router) {
		r.Post("/", orderHandler.CreateOrder)
		r.Get("/", orderHandler.ListOrders)
		r.Delete("/{orderNumber}", orderHandler.DeleteOrder)
	})

	// Knowing the order number is the only credential here.
	r.Post("/api/verify-order", orderHandler.VerifyOrder)
}
