package rest

import (
	"net/http"

	"visitdesk-backend/interfaces/http/rest/handlers"
	"visitdesk-backend/interfaces/http/rest/middleware"
	appErrors "visitdesk-backend/pkg/errors"
	"visitdesk-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	service    handlers.AppointmentService
	metrics    *observability.Metrics
	logger     *zap.Logger
	enableCORS bool
}

// NewRouter creates a new router instance
func NewRouter(
	service handlers.AppointmentService,
	metrics *observability.Metrics,
	logger *zap.Logger,
	enableCORS bool,
) *Router {
	return &Router{
		service:    service,
		metrics:    metrics,
		logger:     logger,
		enableCORS: enableCORS,
	}
}

// Setup configures all routes and middleware. The appointment route strings
// are part of the public contract; clients depend on them verbatim.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	handler := handlers.NewAppointmentHandler(rt.service, appErrors.NewErrorHandler(rt.logger), rt.logger)

	router.Route("/appointments", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
		r.Put("/{id}/location", handler.UpdateLocation)
	})
	router.Get("/appointments-by-email/{email}", handler.ListByEmail)

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
