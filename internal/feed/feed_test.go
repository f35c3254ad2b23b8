package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"connect3/backend/internal/graph"
	"connect3/backend/internal/models"
	"connect3/backend/internal/observability"
	"connect3/backend/internal/store"
	"connect3/backend/internal/store/memstore"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var base = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	store *memstore.Store
}

func newFixture(t *testing.T, users ...string) *fixture {
	t.Helper()
	f := &fixture{t: t, store: memstore.New()}
	for _, id := range users {
		require.NoError(t, f.store.CreateUser(context.Background(), &models.User{
			ID: id, Name: id, Email: id + "@example.com",
		}))
	}
	return f
}

func (f *fixture) connect(a, b string) {
	f.t.Helper()
	_, err := f.store.Connect(context.Background(), a, b)
	require.NoError(f.t, err)
}

func (f *fixture) post(id, author string, degree int, at time.Time) {
	f.t.Helper()
	require.NoError(f.t, f.store.CreatePost(context.Background(), &models.Post{
		ID: id, AuthorID: author, Content: "post " + id, VisibilityDegree: degree, Timestamp: at,
	}))
}

func ids(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("degree zero is visible only to the author", func(t *testing.T) {
		f := newFixture(t, "a", "b")
		f.connect("a", "b")
		f.post("p1", "a", 0, base)
		sel := NewSelector(f.store, nil, nil)

		own, err := sel.Feed(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, ids(own))

		friend, err := sel.Feed(ctx, "b")
		require.NoError(t, err)
		assert.Empty(t, friend)
	})

	t.Run("viewer beyond the degree is excluded", func(t *testing.T) {
		// a - b - c - d: d is three hops from a
		f := newFixture(t, "a", "b", "c", "d")
		f.connect("a", "b")
		f.connect("b", "c")
		f.connect("c", "d")
		f.post("p1", "a", 2, base)
		sel := NewSelector(f.store, nil, nil)

		far, err := sel.Feed(ctx, "d")
		require.NoError(t, err)
		assert.Empty(t, far)

		near, err := sel.Feed(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, ids(near))
	})

	t.Run("newest first", func(t *testing.T) {
		f := newFixture(t, "a", "b")
		f.connect("a", "b")
		f.post("t1", "b", 1, base)
		f.post("t3", "b", 1, base.Add(2*time.Minute))
		f.post("t2", "a", 0, base.Add(time.Minute))

		got, err := NewSelector(f.store, nil, nil).Feed(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []string{"t3", "t2", "t1"}, ids(got))
	})

	t.Run("equal timestamps are ordered by id", func(t *testing.T) {
		f := newFixture(t, "a")
		f.post("p-b", "a", 0, base)
		f.post("p-c", "a", 0, base)
		f.post("p-a", "a", 0, base)

		got, err := NewSelector(f.store, nil, nil).Feed(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []string{"p-a", "p-b", "p-c"}, ids(got))
	})

	t.Run("connected and unconnected users", func(t *testing.T) {
		f := newFixture(t, "u1", "u2")
		f.connect("u1", "u2")
		f.post("p1", "u2", 1, base)
		require.NoError(t, f.store.CreateUser(ctx, &models.User{ID: "u3", Name: "u3", Email: "u3@example.com"}))
		sel := NewSelector(f.store, nil, nil)

		got, err := sel.Feed(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, ids(got))

		got, err = sel.Feed(ctx, "u3")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("no posts gives an empty feed", func(t *testing.T) {
		f := newFixture(t, "a")

		got, err := NewSelector(f.store, nil, nil).Feed(ctx, "a")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("unknown requester", func(t *testing.T) {
		f := newFixture(t)

		_, err := NewSelector(f.store, nil, nil).Feed(ctx, "ghost")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestFeed_MetricsAndTracing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "a", "b")
	f.connect("a", "b")
	f.post("p1", "b", 1, base)

	m := observability.NewMetrics(prometheus.NewRegistry())
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	sel := NewSelector(f.store, m, tp.Tracer("test"))

	_, err := sel.Feed(ctx, "a")
	require.NoError(t, err)
	_, err = sel.Feed(ctx, "ghost")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedRequestsTotal.WithLabelValues(observability.StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedRequestsTotal.WithLabelValues(observability.StatusNotFound)))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "feed.Build", spans[0].Name())
}

// failingStore fails every adjacency lookup inside a snapshot.
type failingStore struct {
	*memstore.Store
	err error
}

func (s failingStore) View(ctx context.Context, fn func(r store.Reader) error) error {
	return s.Store.View(ctx, func(r store.Reader) error {
		return fn(failingReader{Reader: r, err: s.err})
	})
}

type failingReader struct {
	store.Reader
	err error
}

func (r failingReader) Neighbors(context.Context, []string) (map[string][]string, error) {
	return nil, r.err
}

func TestFeed_StoreFailure(t *testing.T) {
	f := newFixture(t, "a")
	f.post("p1", "a", 1, base)
	boom := errors.New("connection reset")

	got, err := NewSelector(failingStore{Store: f.store, err: boom}, nil, nil).Feed(context.Background(), "a")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestAudience(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "a", "b", "c", "z")
	f.connect("a", "b")
	f.connect("b", "c")
	sel := NewSelector(f.store, nil, nil)

	got, err := sel.Audience(ctx, models.Post{ID: "p", AuthorID: "a", VisibilityDegree: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = sel.Audience(ctx, models.Post{ID: "p", AuthorID: "a", VisibilityDegree: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestVisible(t *testing.T) {
	posts := []models.Post{
		{ID: "orphan", AuthorID: "gone", VisibilityDegree: 9, Timestamp: base},
		{ID: "edge", AuthorID: "x", VisibilityDegree: 2, Timestamp: base},
	}

	got := Visible(posts, graph.Distances{"me": 0, "x": 2})
	assert.Equal(t, []string{"edge"}, ids(got))
	assert.Equal(t, 9, MaxDegree(posts))
	assert.Zero(t, MaxDegree(nil))
}
