package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS wraps an http.Handler with cross-origin support for browser clients.
func CORS(handler http.Handler, allowedOrigins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", TraceIDHeader, TraceParentHeader},
		ExposedHeaders: []string{TraceIDHeader},
		MaxAge:         600,
	}).Handler(handler)
}
