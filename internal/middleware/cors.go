// Package middleware provides reusable HTTP middleware for the nightcrew API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// EntitlementHeader carries the caller's plan ("premium" unlocks group links).
const EntitlementHeader = "X-Entitlement"

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// PATCH is allowed for draft edits; X-Entitlement must be allowed for the
// web build of the app to send it.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", EntitlementHeader},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	return c.Handler
}
