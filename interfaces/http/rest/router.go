package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"pipeline-builder/application/commands/bus"
	querybus "pipeline-builder/application/queries/bus"
	"pipeline-builder/interfaces/http/rest/handlers"
	"pipeline-builder/interfaces/http/rest/middleware"
	v1 "pipeline-builder/interfaces/http/rest/v1"
	pkgerrors "pipeline-builder/pkg/errors"
	"pipeline-builder/pkg/observability"
)

// RouterConfig holds the options of the HTTP surface
type RouterConfig struct {
	CORSOrigins []string
	// Debug exposes internal error messages in responses
	Debug bool
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	metrics    *observability.Collector
	config     RouterConfig
	logger     *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil, in which case
// /metrics is not served.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	metrics *observability.Collector,
	config RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		metrics:    metrics,
		config:     config,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()
	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.config.Debug)

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	router.Use(errorHandler.Middleware)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "Traceparent"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	router.Get("/health", handlers.Health)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	// Validation service
	pipelineHandler := handlers.NewPipelineHandler(rt.queryBus, errorHandler, rt.logger)
	router.Get("/", pipelineHandler.Ping)
	router.Post("/pipelines/parse", pipelineHandler.Parse)

	// Editor API
	router.Mount("/api/v1", v1.NewRouter(
		handlers.NewNodeHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger),
		handlers.NewEdgeHandler(rt.commandBus, errorHandler, rt.logger),
		handlers.NewGraphHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger),
	))

	return router
}
