package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows browser front ends on the given origins to call the API.
// An empty list or a "*" entry allows every origin. Credentials are never
// allowed since the API authenticates with a bearer key, not cookies.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	})
}
