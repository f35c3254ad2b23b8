// Package observability holds the Prometheus metrics exported on /metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "connect3"

// Feed request outcomes used as the status label.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Metrics groups every collector the service exports. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	// FeedRequestsTotal counts feed builds by outcome.
	// Labels: status (ok, not_found, error)
	FeedRequestsTotal *prometheus.CounterVec

	// FeedBuildSeconds measures the time spent building one feed.
	FeedBuildSeconds prometheus.Histogram

	// FeedVisitedUsers is the number of users reached by the feed traversal.
	FeedVisitedUsers prometheus.Histogram

	// FeedPostsReturned is the number of posts in a built feed.
	FeedPostsReturned prometheus.Histogram

	// ConnectionsCreatedTotal counts new connections; repeated connects are not counted.
	ConnectionsCreatedTotal prometheus.Counter

	// LiveSubscribers is the number of open feed streams.
	LiveSubscribers prometheus.Gauge
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FeedRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "feed_requests_total",
				Help:      "Total feed requests by status",
			},
			[]string{"status"},
		),

		FeedBuildSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "feed_build_seconds",
			Help:      "Time spent building a feed in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		FeedVisitedUsers: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "feed_visited_users",
			Help:      "Users reached by the feed traversal",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),

		FeedPostsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "feed_posts_returned",
			Help:      "Posts returned per feed",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),

		ConnectionsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "connections_created_total",
			Help:      "Total new connections between users",
		}),

		LiveSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "live_subscribers",
			Help:      "Number of open live feed streams",
		}),
	}
}

// RecordFeed records one feed build.
func (m *Metrics) RecordFeed(status string, elapsed time.Duration, visited, returned int) {
	if m == nil {
		return
	}
	m.FeedRequestsTotal.WithLabelValues(status).Inc()
	if status != StatusOK {
		return
	}
	m.FeedBuildSeconds.Observe(elapsed.Seconds())
	m.FeedVisitedUsers.Observe(float64(visited))
	m.FeedPostsReturned.Observe(float64(returned))
}

// ConnectionCreated counts one new connection.
func (m *Metrics) ConnectionCreated() {
	if m == nil {
		return
	}
	m.ConnectionsCreatedTotal.Inc()
}

// SubscriberAdded and SubscriberRemoved track open live streams.
func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.LiveSubscribers.Inc()
}

func (m *Metrics) SubscriberRemoved() {
	if m == nil {
		return
	}
	m.LiveSubscribers.Dec()
}
