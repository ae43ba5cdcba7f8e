package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/pkg/logger"
)

// RouterOptions carries the cross-cutting middleware settings
type RouterOptions struct {
	RateLimiter  *RateLimiter // nil disables rate limiting
	MaxBodyBytes int64        // 0 = unlimited
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(kpiHandler *handlers.KPIHandler, log *logger.Logger, opts RouterOptions) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API
	api := r.PathPrefix("/api").Subrouter()

	// KPI catalog
	api.HandleFunc("/kpi/definitions", kpiHandler.ListDefinitions).Methods("GET")
	api.HandleFunc("/kpi/definitions/{id}", kpiHandler.GetDefinition).Methods("GET")
	api.HandleFunc("/kpi/group-fields", kpiHandler.ListGroupFields).Methods("GET")

	// KPI computation
	api.HandleFunc("/kpi/compute", kpiHandler.Compute).Methods("POST")
	api.HandleFunc("/kpi/group", kpiHandler.Group).Methods("POST")

	if opts.RateLimiter != nil {
		api.Use(rateLimitMiddleware(opts.RateLimiter))
	}
	api.Use(bodyLimitMiddleware(opts.MaxBodyBytes))

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Apply middleware (outermost first)
	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "tradejournal-kpi-api",
	})
}
