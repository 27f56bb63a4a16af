package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the marketing site and local dev frontends to hit the
// public endpoints directly.
func CORS(publicOrigin string) func(http.Handler) http.Handler {
	origins := []string{"http://localhost:3000"}
	if publicOrigin != "" {
		origins = append(origins, publicOrigin)
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler
}
