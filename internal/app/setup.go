// Package app wires the console and the dev API from configuration.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/productctl/internal/client"
	"github.com/abgdnv/productctl/internal/config"
	"github.com/abgdnv/productctl/internal/controller"
	"github.com/abgdnv/productctl/internal/devapi"
	"github.com/abgdnv/productctl/internal/notify"
	"github.com/abgdnv/productctl/internal/product"
	"github.com/abgdnv/productctl/internal/transport/console"
	pkgconfig "github.com/abgdnv/productctl/pkg/config"
	"github.com/abgdnv/productctl/pkg/server"
	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	Client *client.Client
	Logger *slog.Logger
}

// SetupDependencies builds the products API client from cfg.
func SetupDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	httpClient := client.NewHTTPClient(cfg.API.Timeout, cfg.Resilience.CircuitBreaker)
	return &Dependencies{
		Client: client.New(cfg.API.BaseURL, client.WithHTTPClient(httpClient), client.WithLogger(logger)),
		Logger: logger,
	}
}

// SetupConsoleHandler builds the web console with its own notification board and list view.
// Used by tests to exercise the console without a listener.
func SetupConsoleHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	board := notify.NewBoard(cfg.Notifier.Duration)
	view := console.NewListView()
	ctrl := controller.New(deps.Client, view, board, console.ContextConfirmer{}, deps.Logger)

	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, console.NewHandler(ctrl, board, view, deps.Logger))
	return mux
}

// SetupConsoleServer creates the HTTP server of the web console.
func SetupConsoleServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, "console", SetupConsoleHandler(deps, cfg))
}

// SetupDevAPIHandler serves store with json-server semantics.
func SetupDevAPIHandler(store *devapi.Store, logger *slog.Logger) http.Handler {
	mux := server.NewChiRouter(logger)
	wireRoutes(mux, devapi.NewHandler(store, logger))
	return mux
}

// SetupDevAPIServer creates the HTTP server of the dev API. It shares the console's
// timeouts and listens on devapi.port.
func SetupDevAPIServer(cfg *config.Config, logger *slog.Logger) *http.Server {
	var seed []product.Product
	if cfg.DevAPI.Seed {
		seed = devapi.SeedProducts()
	}
	httpCfg := cfg.HTTPServer
	httpCfg.Port = cfg.DevAPI.Port
	return server.NewHTTPServer(httpCfg, "devapi", SetupDevAPIHandler(devapi.NewStore(seed...), logger))
}

// PProfServer serves the handlers registered on http.DefaultServeMux by net/http/pprof.
func PProfServer(cfg pkgconfig.PProfConfig) *http.Server {
	return &http.Server{
		Addr: cfg.Addr,
	}
}

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

func wireRoutes(mux *chi.Mux, handlers ...routeRegistrar) {
	for _, h := range handlers {
		h.RegisterRoutes(mux)
	}
}
