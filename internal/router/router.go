// Package router wires handlers and middleware into the chi router used by
// both the Lambda and the local server entry points.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/swaggo/swag"
	"go.uber.org/zap"

	"todo-backend/internal/handlers"
	"todo-backend/internal/middleware"
	"todo-backend/internal/observability"
	"todo-backend/pkg/api"
	"todo-backend/pkg/auth"

	// Registers the OpenAPI document with swag.
	_ "todo-backend/docs"
)

// Options toggles optional router features.
type Options struct {
	// BasePath mounts the API a second time under this prefix, e.g. "/dev".
	BasePath string
	// ExposeMetrics serves the Prometheus registry on /metrics.
	ExposeMetrics bool
	// CircuitBreaker guards the todo routes with a breaker.
	CircuitBreaker bool
}

// Router creates and configures the HTTP router
type Router struct {
	todoHandler   *handlers.TodoHandler
	healthHandler *handlers.HealthHandler
	collector     *observability.Collector
	verifier      *auth.JWTValidator
	logger        *zap.Logger
	options       Options
}

// NewRouter creates a new router instance. collector and verifier may be
// nil to disable metrics and in-process token verification.
func NewRouter(
	todoHandler *handlers.TodoHandler,
	healthHandler *handlers.HealthHandler,
	collector *observability.Collector,
	verifier *auth.JWTValidator,
	logger *zap.Logger,
	options Options,
) *Router {
	return &Router{
		todoHandler:   todoHandler,
		healthHandler: healthHandler,
		collector:     collector,
		verifier:      verifier,
		logger:        logger,
		options:       options,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(rt.logger))
	router.Use(middleware.Logger(rt.logger))
	if rt.collector != nil {
		router.Use(middleware.Metrics(rt.collector))
	}

	// Any origin may call the API. Callers authenticate with a bearer header,
	// never cookies, and browsers refuse credentials with a wildcard origin.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Get("/health", rt.healthHandler.Check)
	router.Get("/docs/openapi.json", rt.openAPI)
	if rt.options.ExposeMetrics && rt.collector != nil {
		router.Method(http.MethodGet, "/metrics", rt.collector.Handler())
	}

	router.Group(rt.todoRoutes)
	if rt.options.BasePath != "" && rt.options.BasePath != "/" {
		router.Route(rt.options.BasePath, func(r chi.Router) {
			r.Get("/health", rt.healthHandler.Check)
			r.Group(rt.todoRoutes)
		})
	}

	return router
}

func (rt *Router) todoRoutes(r chi.Router) {
	if rt.options.CircuitBreaker {
		r.Use(middleware.CircuitBreaker(middleware.DefaultCircuitBreakerConfig("todos"), rt.logger))
	}
	if rt.verifier != nil {
		r.Use(middleware.Verify(rt.verifier, rt.logger))
	}
	r.Use(middleware.Authenticate(rt.logger))

	r.Route("/todos", func(r chi.Router) {
		r.Post("/", rt.todoHandler.Create)
		r.Get("/", rt.todoHandler.List)
		r.Patch("/{todoId}", rt.todoHandler.Update)
		r.Patch("/{todoId}/note", rt.todoHandler.UpdateNote)
		r.Delete("/{todoId}", rt.todoHandler.Delete)
	})
}

// openAPI serves the registered OpenAPI document.
func (rt *Router) openAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		rt.logger.Error("openapi document unavailable", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write([]byte(doc))
}
