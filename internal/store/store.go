// Package store defines the Graph Store used by Connect3: user and post nodes,
// CONNECTED_TO edge pairs, and read snapshots for traversals.
//
// Implementations live in sub-packages (gormstore, neo4jstore, memstore). All of
// them report failures through the sentinel errors in this package so callers
// can classify them with errors.Is.
package store

import (
	"context"

	"connect3/backend/internal/models"
)

// Reader is the read side of the store. A Reader obtained from Store.View sees
// a single consistent snapshot of the graph.
type Reader interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListPosts(ctx context.Context) ([]models.Post, error)

	// Neighbors returns the adjacency of each requested user. Users with no
	// edges, or that do not exist, are simply absent from the result.
	Neighbors(ctx context.Context, ids []string) (map[string][]string, error)
}

// Store is the full Graph Store.
type Store interface {
	Reader

	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	ListConnections(ctx context.Context, id string) ([]models.User, error)

	// CreateUser inserts a new user with a zero connection count. It returns
	// ErrConflict when the email or ID is already taken and ErrNotFound when
	// InvitedBy references an unknown user.
	CreateUser(ctx context.Context, user *models.User) error

	// Connect links a and b with a pair of directed edges and increments both
	// connection counters, all in one transaction. Re-connecting an existing
	// pair is a no-op reported as created == false.
	Connect(ctx context.Context, a, b string) (created bool, err error)

	// CreateUserAndConnect creates user and connects it to existingID
	// atomically. Nothing is written when either step fails.
	CreateUserAndConnect(ctx context.Context, user *models.User, existingID string) error

	// CreatePost stores post. The author must exist.
	CreatePost(ctx context.Context, post *models.Post) error

	// View runs fn against a read-only snapshot.
	View(ctx context.Context, fn func(r Reader) error) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
