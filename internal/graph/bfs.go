// Package graph computes degrees of separation over the CONNECTED_TO relation.
//
// The traversal is an unweighted breadth-first search. Every layer of the
// search is expanded with a single batched adjacency lookup, so a BFS of depth
// d costs d round-trips to the store regardless of how many users it reaches.
package graph

import (
	"context"
	"fmt"
)

// Unbounded disables the depth limit of a traversal.
const Unbounded = -1

// Neighborer exposes adjacency lookups. store.Reader satisfies it.
type Neighborer interface {
	Neighbors(ctx context.Context, ids []string) (map[string][]string, error)
}

// Distances maps every reached user ID to its hop count from the source.
// Users that were not reached are absent.
type Distances map[string]int

// Lookup returns the distance to id and whether id was reached.
func (d Distances) Lookup(id string) (int, bool) {
	hops, ok := d[id]
	return hops, ok
}

// Visited returns the number of users reached, the source included.
func (d Distances) Visited() int {
	return len(d)
}

// From runs a breadth-first search from source and returns the distance to
// every user reachable within maxDepth hops. Pass Unbounded to explore the
// whole connected component.
//
// The source is always present with distance 0, even when it has no edges or
// does not exist in the store; callers validate existence beforehand.
// A failed adjacency lookup aborts the search and no mapping is returned.
func From(ctx context.Context, g Neighborer, source string, maxDepth int) (Distances, error) {
	dist := Distances{source: 0}
	frontier := []string{source}

	for depth := 0; len(frontier) > 0; depth++ {
		if maxDepth >= 0 && depth >= maxDepth {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		adjacency, err := g.Neighbors(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("expanding layer %d: %w", depth+1, err)
		}

		var next []string
		for _, id := range frontier {
			for _, neighbor := range adjacency[id] {
				if _, seen := dist[neighbor]; seen {
					continue
				}
				dist[neighbor] = depth + 1
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return dist, nil
}

// Distance returns the length of the shortest path between a and b, or false
// when b cannot be reached from a. The search stops at the layer where b is
// first discovered.
func Distance(ctx context.Context, g Neighborer, a, b string) (int, bool, error) {
	if a == b {
		return 0, true, nil
	}

	seen := map[string]struct{}{a: {}}
	frontier := []string{a}

	for depth := 1; len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}

		adjacency, err := g.Neighbors(ctx, frontier)
		if err != nil {
			return 0, false, fmt.Errorf("expanding layer %d: %w", depth, err)
		}

		var next []string
		for _, id := range frontier {
			for _, neighbor := range adjacency[id] {
				if neighbor == b {
					return depth, true, nil
				}
				if _, ok := seen[neighbor]; ok {
					continue
				}
				seen[neighbor] = struct{}{}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return 0, false, nil
}
