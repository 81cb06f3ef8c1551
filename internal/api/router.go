package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/tradex/internal/api/handlers"
	"github.com/wonny/tradex/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	pipelineHandler *handlers.PipelineHandler,
	sentimentHandler *handlers.SentimentHandler,
	tradingHandler *handlers.TradingHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Pipeline
	api.HandleFunc("/pipeline/cycle", pipelineHandler.RunCycle).Methods("POST")

	// Sentiment
	api.HandleFunc("/posts", sentimentHandler.ListPosts).Methods("GET")
	api.HandleFunc("/sentiments", sentimentHandler.ListResults).Methods("GET")
	api.HandleFunc("/analyze", sentimentHandler.Analyze).Methods("POST")

	// Trading
	api.HandleFunc("/decisions", tradingHandler.ListDecisions).Methods("GET")
	api.HandleFunc("/orders", tradingHandler.ListOrders).Methods("GET")
	api.HandleFunc("/positions", tradingHandler.ListPositions).Methods("GET")
	api.HandleFunc("/account", tradingHandler.GetAccount).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "tradex-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
