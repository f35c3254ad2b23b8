// Package memstore is an in-process Graph Store. It backs the "memory"
// backend for local development and serves as the store in handler and feed
// tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"connect3/backend/internal/models"
	"connect3/backend/internal/store"
)

// Store keeps the whole graph in maps guarded by a single RWMutex.
// Writes take the write lock for their full duration, which makes every
// operation atomic; View holds the read lock so a traversal sees one snapshot.
type Store struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
	edges   map[string]map[string]struct{}
	posts   map[string]models.Post
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
		edges:   make(map[string]map[string]struct{}),
		posts:   make(map[string]models.Post),
	}
}

// GetUser implements store.Reader.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getUser(id)
}

func (s *Store) getUser(id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	return &u, nil
}

// GetUserByEmail implements store.Store.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, store.ErrNotFound)
	}
	return s.getUser(id)
}

// GetUserByName implements store.Store. Names are not unique; the earliest
// created user with the name wins, ties broken by ID.
func (s *Store) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.User
	for _, u := range s.users {
		if u.Name != name {
			continue
		}
		if found == nil || u.CreatedAt.Before(found.CreatedAt) ||
			(u.CreatedAt.Equal(found.CreatedAt) && u.ID < found.ID) {
			match := u
			found = &match
		}
	}
	if found == nil {
		return nil, fmt.Errorf("user named %s: %w", name, store.ErrNotFound)
	}
	return found, nil
}

// ListConnections implements store.Store.
func (s *Store) ListConnections(ctx context.Context, id string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.getUser(id); err != nil {
		return nil, err
	}

	connections := make([]models.User, 0, len(s.edges[id]))
	for other := range s.edges[id] {
		if u, ok := s.users[other]; ok {
			connections = append(connections, u)
		}
	}
	sort.Slice(connections, func(i, j int) bool { return connections[i].ID < connections[j].ID })
	return connections, nil
}

// CreateUser implements store.Store.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createUser(user)
}

func (s *Store) createUser(user *models.User) error {
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, store.ErrConflict)
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return fmt.Errorf("user with email %s: %w", user.Email, store.ErrConflict)
	}
	if user.InvitedBy != nil {
		if _, ok := s.users[*user.InvitedBy]; !ok {
			return fmt.Errorf("inviter %s: %w", *user.InvitedBy, store.ErrNotFound)
		}
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.NumOfConnections = 0
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

// Connect implements store.Store.
func (s *Store) Connect(ctx context.Context, a, b string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connect(a, b)
}

func (s *Store) connect(a, b string) (bool, error) {
	if a == b {
		return false, store.ErrSelfConnection
	}
	for _, id := range []string{a, b} {
		if _, ok := s.users[id]; !ok {
			return false, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
		}
	}
	if _, ok := s.edges[a][b]; ok {
		s.link(b, a)
		return false, nil
	}

	s.link(a, b)
	s.link(b, a)
	for _, id := range []string{a, b} {
		u := s.users[id]
		u.NumOfConnections++
		s.users[id] = u
	}
	return true, nil
}

func (s *Store) link(from, to string) {
	if s.edges[from] == nil {
		s.edges[from] = make(map[string]struct{})
	}
	s.edges[from][to] = struct{}{}
}

// CreateUserAndConnect implements store.Store.
func (s *Store) CreateUserAndConnect(ctx context.Context, user *models.User, existingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[existingID]; !ok {
		return fmt.Errorf("user %s: %w", existingID, store.ErrNotFound)
	}
	if err := s.createUser(user); err != nil {
		return err
	}
	if _, err := s.connect(existingID, user.ID); err != nil {
		// undo the insert so the pair of steps stays all-or-nothing
		delete(s.users, user.ID)
		delete(s.byEmail, user.Email)
		return err
	}
	user.NumOfConnections = s.users[user.ID].NumOfConnections
	return nil
}

// CreatePost implements store.Store.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return fmt.Errorf("author %s: %w", post.AuthorID, store.ErrNotFound)
	}
	if _, ok := s.posts[post.ID]; ok {
		return fmt.Errorf("post %s: %w", post.ID, store.ErrConflict)
	}
	s.posts[post.ID] = *post
	return nil
}

// ListPosts implements store.Reader.
func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPosts(), nil
}

func (s *Store) listPosts() []models.Post {
	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	return posts
}

// Neighbors implements store.Reader.
func (s *Store) Neighbors(ctx context.Context, ids []string) (map[string][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.neighbors(ids), nil
}

func (s *Store) neighbors(ids []string) map[string][]string {
	out := make(map[string][]string, len(ids))
	for _, id := range ids {
		edges := s.edges[id]
		if len(edges) == 0 {
			continue
		}
		list := make([]string, 0, len(edges))
		for to := range edges {
			list = append(list, to)
		}
		sort.Strings(list)
		out[id] = list
	}
	return out
}

// View implements store.Store. fn runs under the read lock, so it must not
// call back into s; it receives a lock-free snapshot reader instead.
func (s *Store) View(ctx context.Context, fn func(r store.Reader) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(snapshot{s})
}

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Close implements store.Store.
func (s *Store) Close(ctx context.Context) error { return nil }

// snapshot reads s without locking; the caller holds the read lock.
type snapshot struct{ s *Store }

func (v snapshot) GetUser(ctx context.Context, id string) (*models.User, error) {
	return v.s.getUser(id)
}

func (v snapshot) ListPosts(ctx context.Context) ([]models.Post, error) {
	return v.s.listPosts(), nil
}

func (v snapshot) Neighbors(ctx context.Context, ids []string) (map[string][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.s.neighbors(ids), nil
}
