// Package metrics provides Prometheus metrics for the blog frontend.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pencilpost"

var (
	// RequestsTotal counts served pages by route template and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"route", "method", "status"},
	)

	// RequestDuration measures page latency, API round trips included.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// APIRequestsTotal counts content API calls by endpoint and outcome.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of content API requests",
		},
		[]string{"endpoint", "method", "outcome"},
	)

	// APIRequestDuration measures content API latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of content API requests in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// SiteFileRefreshTotal counts scheduled sitemap/robots refreshes.
	SiteFileRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "site_file_refresh_total",
			Help:      "Total number of site file refreshes",
		},
		[]string{"file", "status"},
	)
)

// RecordRequest records one served request. Unmatched routes share a label.
func RecordRequest(route, method string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordAPICall records one content API round trip. outcome is "ok" or the
// error kind.
func RecordAPICall(path, method, outcome string, d time.Duration) {
	endpoint := Endpoint(path)
	APIRequestsTotal.WithLabelValues(endpoint, method, outcome).Inc()
	APIRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordSiteFileRefresh records one refresh attempt.
func RecordSiteFileRefresh(file string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SiteFileRefreshTotal.WithLabelValues(file, status).Inc()
}

// Endpoint reduces an API path to a low-cardinality label: the first segment,
// plus the second under /admin. Slugs and ids never become labels.
func Endpoint(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "/"
	}
	if parts[0] == "admin" && len(parts) > 1 {
		return "/admin/" + parts[1]
	}
	return "/" + parts[0]
}
