// Package feed selects the posts a user may see. A post is visible to a viewer
// when the viewer is within post.VisibilityDegree hops of its author.
package feed

import (
	"context"
	"errors"
	"sort"
	"time"

	"connect3/backend/internal/graph"
	"connect3/backend/internal/models"
	"connect3/backend/internal/observability"
	"connect3/backend/internal/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "connect3/backend/internal/feed"

// Selector builds feeds against a Graph Store.
type Selector struct {
	store   store.Store
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// NewSelector returns a Selector. metrics may be nil; a nil tracer falls back
// to the global provider.
func NewSelector(s store.Store, metrics *observability.Metrics, tracer trace.Tracer) *Selector {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Selector{store: s, metrics: metrics, tracer: tracer}
}

// Feed returns every post visible to requesterID, newest first with ties
// broken by post ID. All reads happen inside one store snapshot. The result
// is never nil.
func (s *Selector) Feed(ctx context.Context, requesterID string) ([]models.Post, error) {
	ctx, span := s.tracer.Start(ctx, "feed.Build", trace.WithAttributes(
		attribute.String("feed.requester_id", requesterID)))
	defer span.End()

	start := time.Now()
	var (
		visible []models.Post
		visited int
	)
	err := s.store.View(ctx, func(r store.Reader) error {
		if _, err := r.GetUser(ctx, requesterID); err != nil {
			return err
		}
		posts, err := r.ListPosts(ctx)
		if err != nil {
			return err
		}

		dist, err := graph.From(ctx, r, requesterID, MaxDegree(posts))
		if err != nil {
			return err
		}
		visited = dist.Visited()
		visible = Visible(posts, dist)
		return nil
	})

	switch {
	case err == nil:
		s.metrics.RecordFeed(observability.StatusOK, time.Since(start), visited, len(visible))
	case errors.Is(err, store.ErrNotFound):
		s.metrics.RecordFeed(observability.StatusNotFound, time.Since(start), 0, 0)
	default:
		s.metrics.RecordFeed(observability.StatusError, time.Since(start), 0, 0)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("feed.visited_users", visited),
		attribute.Int("feed.posts_returned", len(visible)),
	)
	return visible, nil
}

// Audience returns the IDs of every user allowed to see post, the author
// included. Distance is symmetric, so this is a single traversal from the
// author bounded by the post's visibility degree.
func (s *Selector) Audience(ctx context.Context, post models.Post) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "feed.Audience", trace.WithAttributes(
		attribute.String("feed.post_id", post.ID)))
	defer span.End()

	var dist graph.Distances
	err := s.store.View(ctx, func(r store.Reader) error {
		var err error
		dist, err = graph.From(ctx, r, post.AuthorID, post.VisibilityDegree)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ids := make([]string, 0, len(dist))
	for id := range dist {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// MaxDegree is the largest visibility degree among posts, or 0 when there are none.
func MaxDegree(posts []models.Post) int {
	highest := 0
	for _, p := range posts {
		highest = max(highest, p.VisibilityDegree)
	}
	return highest
}

// Visible keeps the posts whose author is within the post's degree according
// to dist, sorted by timestamp descending then ID ascending. Posts by authors
// absent from dist are unreachable and dropped.
func Visible(posts []models.Post, dist graph.Distances) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		d, ok := dist.Lookup(p.AuthorID)
		if ok && d <= p.VisibilityDegree {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
