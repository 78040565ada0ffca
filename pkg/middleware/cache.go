package middleware

import (
	"fmt"
	"net/http"
)

// CacheControl marks GET/HEAD responses as publicly cacheable for maxAge
// seconds, serving stale content for up to swr seconds while revalidating.
func CacheControl(maxAge, swr int) func(http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", maxAge)
	if swr > 0 {
		value += fmt.Sprintf(", stale-while-revalidate=%d", swr)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NoStore forbids caching, for admin and status endpoints.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
