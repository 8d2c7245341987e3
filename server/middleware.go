package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/nomis52/signupboard/config"
)

// quietPaths are polled often and logged at debug level.
var quietPaths = map[string]bool{
	"/health":               true,
	"/metrics":              true,
	"/fragments/activities": true,
}

// accessLog logs one line per request.
func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("component", "http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			if quietPaths[r.URL.Path] {
				level = slog.LevelDebug
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// csrfProtect guards form posts with a CSRF token. Without secure cookies
// requests are treated as plain HTTP so the origin check does not demand
// HTTPS.
func csrfProtect(sec config.SecurityConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	secure := sec.SecureCookies()
	protect := csrf.Protect([]byte(sec.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed", "reason", csrf.FailureReason(r), "path", r.URL.Path)
			http.Error(w, "forbidden", http.StatusForbidden)
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}
