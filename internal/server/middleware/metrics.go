package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/celar/internal/server/metrics"
)

// UnmatchedRoute - label для запросов, не совпавших ни с одним шаблоном (404/405)
const UnmatchedRoute = "unmatched"

// MetricsMiddleware считает запросы и их длительность по маршрутам.
// Должен стоять непосредственно перед ServeMux: label берется из r.Pattern,
// который mux выставляет на переданном ему запросе
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrap(w)

		next.ServeHTTP(wrapped, r)

		metrics.ObserveRequest(r.Method, routeLabel(r.Pattern), wrapped.statusCode, time.Since(start))
	})
}

// routeLabel отрезает метод от шаблона ServeMux: "POST /posts/{id}/like" -> "/posts/{id}/like"
func routeLabel(pattern string) string {
	if pattern == "" {
		return UnmatchedRoute
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
