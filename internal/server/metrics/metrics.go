// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Значения label result
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "celar_http_requests_total",
		Help: "Number of HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status_code"})

	httpLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "celar_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "celar_registrations_total",
		Help: "Registration attempts by result.",
	}, []string{"result"})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "celar_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	postsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "celar_posts_created_total",
		Help: "Number of accepted posts.",
	})

	postsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "celar_posts_deleted_total",
		Help: "Number of deleted posts.",
	})

	likeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "celar_like_operations_total",
		Help: "Like ledger mutations by operation.",
	}, []string{"operation"})
)

// Handler returns the /metrics endpoint handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one served HTTP request
func ObserveRequest(method, route string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRegistration counts a registration attempt
func RecordRegistration(result string) {
	registrations.WithLabelValues(result).Inc()
}

// RecordLogin counts a login attempt
func RecordLogin(result string) {
	logins.WithLabelValues(result).Inc()
}

func RecordPostCreated() {
	postsCreated.Inc()
}

func RecordPostDeleted() {
	postsDeleted.Inc()
}

// RecordLikeOperation counts toggle/like/unlike mutations
func RecordLikeOperation(operation string) {
	likeOperations.WithLabelValues(operation).Inc()
}

// Result переводит ошибку в значение label result
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
