// Package ui exposes the wrangling pipeline over HTTP. It carries structured
// results only: tables, reports and ranked series, never rendering.
package ui

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wrangle/app"
)

// App represents the HTTP application
type App struct {
	router      *chi.Mux
	service     *app.WrangleService
	maxFileSize int64
	server      *http.Server
}

// Config holds HTTP application configuration
type Config struct {
	Port        string
	MaxFileSize int64
}

// NewApp creates the HTTP application over a wrangle service
func NewApp(config Config, service *app.WrangleService) *App {
	a := &App{
		router:      chi.NewRouter(),
		service:     service,
		maxFileSize: config.MaxFileSize,
	}

	a.setupMiddleware()
	a.setupRoutes()

	a.server = &http.Server{
		Addr:              ":" + config.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

// setupRoutes configures the endpoint table
func (a *App) setupRoutes() {
	a.router.Post("/overview", a.handleOverview)
	a.router.Post("/missing-values", a.handleMissingValues)
	a.router.Post("/clean-data", a.handleCleanData)
	a.router.Post("/visualize", a.handleVisualize)

	a.router.Get("/relations", a.handleListRelations)
	a.router.Get("/relations/{name}", a.handleGetRelation)
	a.router.Get("/relations/{name}/verify", a.handleVerifyRelation)
}

// Start runs the HTTP server until the listener fails or Shutdown is called
func (a *App) Start() error {
	log.Printf("[UI] Listening on %s", a.server.Addr)
	err := a.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server gracefully
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Router exposes the mux for tests
func (a *App) Router() http.Handler {
	return a.router
}
