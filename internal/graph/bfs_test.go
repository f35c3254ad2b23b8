package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adjacency is an undirected test graph that records every lookup.
type adjacency struct {
	edges map[string][]string
	calls int
	fail  error
}

func newAdjacency(pairs ...[2]string) *adjacency {
	a := &adjacency{edges: make(map[string][]string)}
	for _, p := range pairs {
		a.edges[p[0]] = append(a.edges[p[0]], p[1])
		a.edges[p[1]] = append(a.edges[p[1]], p[0])
	}
	return a
}

func (a *adjacency) Neighbors(_ context.Context, ids []string) (map[string][]string, error) {
	a.calls++
	if a.fail != nil {
		return nil, a.fail
	}
	out := make(map[string][]string, len(ids))
	for _, id := range ids {
		if n, ok := a.edges[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

// chain: a - b - c - d, plus a shortcut a - e - d and an isolated user z.
func sampleGraph() *adjacency {
	return newAdjacency(
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"c", "d"},
		[2]string{"a", "e"},
		[2]string{"e", "d"},
	)
}

func TestFrom(t *testing.T) {
	ctx := context.Background()

	t.Run("source is at distance zero", func(t *testing.T) {
		dist, err := From(ctx, sampleGraph(), "a", Unbounded)
		require.NoError(t, err)

		d, ok := dist.Lookup("a")
		assert.True(t, ok)
		assert.Equal(t, 0, d)
	})

	t.Run("shortest path wins over longer ones", func(t *testing.T) {
		dist, err := From(ctx, sampleGraph(), "a", Unbounded)
		require.NoError(t, err)

		assert.Equal(t, Distances{"a": 0, "b": 1, "e": 1, "c": 2, "d": 2}, dist)
	})

	t.Run("unreachable users are absent", func(t *testing.T) {
		dist, err := From(ctx, sampleGraph(), "a", Unbounded)
		require.NoError(t, err)

		_, ok := dist.Lookup("z")
		assert.False(t, ok)
	})

	t.Run("isolated source only reaches itself", func(t *testing.T) {
		dist, err := From(ctx, sampleGraph(), "z", Unbounded)
		require.NoError(t, err)

		assert.Equal(t, 1, dist.Visited())
	})

	t.Run("depth limit stops the search", func(t *testing.T) {
		g := sampleGraph()
		dist, err := From(ctx, g, "b", 1)
		require.NoError(t, err)

		assert.Equal(t, Distances{"b": 0, "a": 1, "c": 1}, dist)
		assert.Equal(t, 1, g.calls)
	})

	t.Run("depth zero performs no lookups", func(t *testing.T) {
		g := sampleGraph()
		dist, err := From(ctx, g, "a", 0)
		require.NoError(t, err)

		assert.Equal(t, Distances{"a": 0}, dist)
		assert.Zero(t, g.calls)
	})

	t.Run("one lookup per layer", func(t *testing.T) {
		g := sampleGraph()
		_, err := From(ctx, g, "a", Unbounded)
		require.NoError(t, err)

		// layers {a}, {b,e}, {c,d}; the last expansion finds nothing new
		assert.Equal(t, 3, g.calls)
	})

	t.Run("store failure aborts without a mapping", func(t *testing.T) {
		g := sampleGraph()
		boom := errors.New("connection reset")
		g.fail = boom

		dist, err := From(ctx, g, "a", Unbounded)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, dist)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		dist, err := From(cctx, sampleGraph(), "a", Unbounded)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, dist)
	})
}

func TestDistance(t *testing.T) {
	ctx := context.Background()
	g := sampleGraph()
	users := []string{"a", "b", "c", "d", "e"}

	t.Run("distance to self is zero", func(t *testing.T) {
		for _, u := range users {
			d, ok, err := Distance(ctx, g, u, u)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 0, d)
		}
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		for _, x := range users {
			for _, y := range users {
				dxy, okxy, err := Distance(ctx, g, x, y)
				require.NoError(t, err)
				dyx, okyx, err := Distance(ctx, g, y, x)
				require.NoError(t, err)

				assert.Equal(t, okxy, okyx, "%s<->%s", x, y)
				assert.Equal(t, dxy, dyx, "%s<->%s", x, y)
			}
		}
	})

	t.Run("matches the full traversal", func(t *testing.T) {
		dist, err := From(ctx, g, "b", Unbounded)
		require.NoError(t, err)

		for _, u := range users {
			d, ok, err := Distance(ctx, g, "b", u)
			require.NoError(t, err)
			want, wantOK := dist.Lookup(u)
			assert.Equal(t, wantOK, ok)
			assert.Equal(t, want, d)
		}
	})

	t.Run("no path", func(t *testing.T) {
		d, ok, err := Distance(ctx, g, "a", "z")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, d)
	})
}
