// Package server provides HTTP server lifecycle management.
package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/charmkar/workflow/internal/core/api"
	"github.com/charmkar/workflow/internal/core/config"
)

// HTTPServer manages the event-intake server lifecycle.
type HTTPServer struct {
	server *http.Server
	config *config.ServiceConfig
}

// NewHTTPServer builds the chi router and server around the API service.
// apiToken, when non-empty, guards /v1 routes with a static bearer token.
func NewHTTPServer(cfg *config.ServiceConfig, service *api.Service, apiToken string) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/healthz", service.HandleHealth)

	r.Route("/v1", func(r chi.Router) {
		if apiToken != "" {
			r.Use(bearerAuth(apiToken))
		}
		r.Post("/events", service.HandleEvent)
	})

	return &HTTPServer{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		config: cfg,
	}, nil
}

// Start serves HTTP requests until Shutdown is called.
func (s *HTTPServer) Start(ctx context.Context) error {
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// bearerAuth rejects requests without the expected static bearer token.
func bearerAuth(token string) func(http.Handler) http.Handler {
	expected := "Bearer " + token
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("Authorization")
			if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
