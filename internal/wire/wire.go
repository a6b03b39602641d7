package wire

import (
	"net/http"

	"order-upload/internal/adaptor"
	"order-upload/internal/data/repository"
	"order-upload/internal/usecase"
	"order-upload/internal/web"
	"order-upload/pkg/metrics"
	"order-upload/pkg/middleware"
	"order-upload/pkg/storage"
	"order-upload/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes from the repositories and
// object store the caller constructed.
func Wiring(repo *repository.Repository, store storage.ObjectStore, config *utils.Config, logger *zap.Logger) (*App, error) {
	service := usecase.NewService(repo, store, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	pages, err := web.NewPages(config.App.Name, config.Upload, logger)
	if err != nil {
		return nil, err
	}

	router := setupRouter(handler, service, pages, store, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	pages *web.Pages,
	store storage.ObjectStore,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.App.AllowedOrigins)))
	r.Use(middleware.LoadSession(service.Auth, config.Session.CookieName, logger))

	wireAuth(r, handler.Auth, logger)
	wireOrder(r, handler.Order, logger)
	wireUpload(r, handler.Upload)
	wireWeb(r, pages)

	// The local driver serves its own files; S3 URLs point at the bucket.
	if files, ok := store.(http.Handler); ok {
		r.Handle("/files/*", http.StripPrefix("/files", files))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})
	r.Handle("/metrics", metrics.Handler())

	return r
}
