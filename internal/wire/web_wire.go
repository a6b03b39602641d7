package wire

import (
	"order-upload/internal/web"

	"github.com/go-chi/chi/v5"
)

func wireWeb(r chi.Router, pages *web.Pages) {
	r.Get("/", pages.Home)
	r.Get("/upload/{orderNumber}", pages.Upload)
	r.Get("/success", pages.Success)
	r.Get("/auth", pages.Auth)
	r.Get("/dashboard", pages.Dashboard)
	r.Handle("/static/*", pages.Static())
}
