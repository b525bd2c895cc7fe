package http

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"unify-backend/internal/config"
	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/metrics"
	"unify-backend/internal/security"
)

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// CORS answers preflight requests with 204 and decorates every response. An
// empty allow list reflects any origin.
func CORS(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case origin == "":
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case len(allowed) == 0 || slices.Contains(allowed, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Recover turns a handler panic into a 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "Handler panicked", "method", r.Method, "path", r.URL.Path, "panic", rec)
				writeError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Observe logs each request and records its latency under the route template.
func Observe(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			route := routeTemplate(r)
			m.ObserveRequest(route, r.Method, strconv.Itoa(rec.status), duration)
			logger.InfoContext(r.Context(), "Request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", rec.status,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// Authenticate enforces the security level of the matched route and puts the
// caller's identity into the request context.
func Authenticate(decoder security.TokenDecoder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			level := config.GetSecurityLevel(r.Method, routeTemplate(r))

			// Public endpoint - skip auth
			if level == config.SecurityPublic {
				next.ServeHTTP(w, r)
				return
			}

			token, err := security.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				logger.WarnContext(r.Context(), "Unauthorized access - missing token", "path", r.URL.Path)
				writeError(w, r, err)
				return
			}
			id, err := decoder.Decode(r.Context(), token)
			if err != nil {
				logger.WarnContext(r.Context(), "Unauthorized access - invalid token", "path", r.URL.Path, "error", err)
				writeError(w, r, err)
				return
			}

			if err := checkSecurityLevel(level, id); err != nil {
				logger.WarnContext(r.Context(), "Forbidden", "path", r.URL.Path, "email", id.Email, "groups", id.Groups)
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
		})
	}
}

func checkSecurityLevel(level config.SecurityLevel, id *domain.Identity) error {
	switch level {
	case config.SecurityChapterHead:
		if !id.HasRole(domain.RoleChapterHead) {
			return fmt.Errorf("chapter head role required: %w", domain.ErrForbidden)
		}
	case config.SecurityAdmin:
		if !id.HasRole(domain.RoleAdmin) {
			return fmt.Errorf("admin role required: %w", domain.ErrForbidden)
		}
	}
	return nil
}
