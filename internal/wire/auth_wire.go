package wire

import (
	"order-upload/internal/adaptor"
	"order-upload/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, log *zap.Logger) {
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	r.With(middleware.RequireAuth(log)).Group(func(r chi.Router) {
		r.Post("/api/logout", authHandler.Logout)
		r.Get("/api/user", authHandler.Me)
	})
}
