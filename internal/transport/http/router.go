package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter configures HTTP routes, metrics and rate limiting.
func NewRouter(handler *Handler, limiter *RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(Metrics)
	r.HandleFunc("/", handler.Root).Methods("GET")
	r.Handle("/fetch", limiter.Middleware(http.HandlerFunc(handler.Fetch))).Methods("POST")
	r.HandleFunc("/download/{filename}", handler.Download).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return r
}
