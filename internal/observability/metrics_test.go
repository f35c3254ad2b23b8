package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewMetrics(reg), reg
}

func TestRecordFeed(t *testing.T) {
	t.Run("successful build observes sizes", func(t *testing.T) {
		m, reg := newTestMetrics(t)

		m.RecordFeed(StatusOK, 20*time.Millisecond, 5, 3)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedRequestsTotal.WithLabelValues(StatusOK)))
		n, err := testutil.GatherAndCount(reg, "connect3_feed_posts_returned")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("failures only count the request", func(t *testing.T) {
		m, reg := newTestMetrics(t)

		m.RecordFeed(StatusNotFound, time.Millisecond, 0, 0)
		m.RecordFeed(StatusError, time.Millisecond, 0, 0)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedRequestsTotal.WithLabelValues(StatusNotFound)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedRequestsTotal.WithLabelValues(StatusError)))

		families, err := reg.Gather()
		require.NoError(t, err)
		for _, mf := range families {
			if mf.GetName() == "connect3_feed_build_seconds" {
				assert.Zero(t, mf.GetMetric()[0].GetHistogram().GetSampleCount())
			}
		}
	})
}

func TestConnectionsAndSubscribers(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.ConnectionCreated()
	m.ConnectionCreated()
	m.SubscriberAdded()
	m.SubscriberAdded()
	m.SubscriberRemoved()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConnectionsCreatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LiveSubscribers))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordFeed(StatusOK, time.Second, 1, 1)
		m.ConnectionCreated()
		m.SubscriberAdded()
		m.SubscriberRemoved()
	})
}
