package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// MessagesPosted counts messages accepted through either surface.
	MessagesPosted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "minitwit_messages_posted_total",
			Help: "Total number of messages posted",
		},
	)

	// UsersRegistered counts successful registrations.
	UsersRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "minitwit_users_registered_total",
			Help: "Total number of users registered",
		},
	)

	// FollowEvents counts follow-graph mutations by action (follow, unfollow).
	FollowEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minitwit_follow_events_total",
			Help: "Total number of follow and unfollow operations",
		},
		[]string{"action"},
	)

	// LatestCommandID mirrors the simulator's latest processed command id.
	LatestCommandID = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "minitwit_latest_command_id",
			Help: "Latest command id recorded by the simulator harness",
		},
	)
)

var (
	numericPathSegment  = regexp.MustCompile(`/[0-9]+(/|$)`)
	usernamePathSegment = regexp.MustCompile(`^(/api/(?:msgs|fllws))/[^/?]+`)
	initOnce            sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration, RequestTotal,
			MessagesPosted, UsersRegistered, FollowEvents, LatestCommandID,
		)
	})
}

// NormalizePath reduces label cardinality: numeric segments become {id} and
// the username segment of /api/msgs/... and /api/fllws/... becomes {username}.
func NormalizePath(path string) string {
	path = usernamePathSegment.ReplaceAllString(path, "$1/{username}")
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}
