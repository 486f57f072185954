package middleware

import (
	"net/http"

	"github.com/cloo-solutions/vigilai/internal/api"
)

// MaxBodyBytes caps request body size. Raw shift handoffs are short
// text; anything near the cap is a client bug, so oversized declared
// lengths are rejected up front and chunked bodies are capped by a
// MaxBytesReader.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength != -1 && r.ContentLength > limit {
				api.Error(w, http.StatusRequestEntityTooLarge, "request body exceeds limit")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
