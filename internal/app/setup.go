// Package app contains the application setup for the bookstore service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/bookstore/internal/catalog"
	"github.com/abgdnv/bookstore/internal/config"
	"github.com/abgdnv/bookstore/internal/order/service"
	"github.com/abgdnv/bookstore/internal/order/store"
	"github.com/abgdnv/bookstore/internal/transport/rest"
	"github.com/abgdnv/bookstore/pkg/messaging"
	"github.com/abgdnv/bookstore/pkg/server"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	OrderService service.OrderService
	Logger       *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	orderService := service.NewService(store.NewPgStore(dbPool), catalog.NewPgStore(dbPool), publisher)

	return &Dependencies{
		OrderService: orderService,
		Logger:       logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the bookstore application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the bookstore application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	orderHandler := rest.NewHandler(deps.OrderService, deps.Logger)
	orderHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the bookstore application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {

	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
