// Package httpapi assembles the HTTP surface: shared middleware, the public
// and authenticated route groups, and the operational endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"algowatch/internal/platform/middleware"
	"algowatch/pkg/platform/httputil"
	"algowatch/pkg/platform/middleware/auth"
	"algowatch/pkg/platform/middleware/requesttime"
)

// Registrar mounts a context's routes on a router.
type Registrar interface {
	Register(r chi.Router)
}

// RegistrarFunc adapts a plain function, such as a handler's secondary
// registration method, to Registrar.
type RegistrarFunc func(r chi.Router)

func (f RegistrarFunc) Register(r chi.Router) { f(r) }

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds everything the router mounts.
type Config struct {
	Logger    *slog.Logger
	Observer  middleware.DurationObserver
	Validator auth.JWTValidator

	// Public routes need no bearer token.
	Public []Registrar
	// Protected routes run behind RequireAuth.
	Protected []Registrar

	Health         map[string]HealthCheck
	MetricsHandler http.Handler
}

const healthTimeout = 2 * time.Second

// NewRouter builds the application router.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger, cfg.Observer))
	r.Use(middleware.CORS)

	r.Get("/health", healthHandler(cfg.Health))
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		for _, reg := range cfg.Public {
			reg.Register(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.Validator, logger))
		for _, reg := range cfg.Protected {
			reg.Register(r)
		}
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
