// Package cors allows a single browser origin to call the JSON API.
package cors

import (
	"net/http"
	"strings"
)

// Config holds CORS configuration.
type Config struct {
	// AllowedOrigin is echoed back when it matches the request Origin.
	// "*" allows any origin.
	AllowedOrigin  string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         string
}

// DefaultConfig returns the settings for the budget front-end.
func DefaultConfig(origin string) Config {
	return Config{
		AllowedOrigin:  origin,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         "3600",
	}
}

// Middleware answers preflight requests with 204 and decorates responses to
// the allowed origin. Other origins get no CORS headers, so browsers block them.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()
			h.Add("Vary", "Origin")

			allowed := origin != "" && (cfg.AllowedOrigin == "*" || origin == cfg.AllowedOrigin)
			if allowed {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Expose-Headers", "X-Request-ID")
				if cfg.MaxAge != "" {
					h.Set("Access-Control-Max-Age", cfg.MaxAge)
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
