// Package neo4jstore implements the Graph Store on Neo4j. Users and posts are
// nodes; a connection is a pair of CONNECTED_TO relationships and every post
// points at its author through POSTED_BY.
package neo4jstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connect3/backend/internal/models"
	"connect3/backend/internal/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Store is a store.Store backed by a Neo4j driver. Sessions are opened per
// operation and always closed before returning.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to uri with basic auth and verifies the server is reachable.
// An empty database selects the server default.
func Open(ctx context.Context, uri, user, password, database string, logger *zap.Logger) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, classify(err, "verify connectivity")
	}

	logger.Info("connected to neo4j", zap.String("uri", uri), zap.String("database", database))
	return &Store{driver: driver, database: database, logger: logger}, nil
}

var schema = []string{
	"CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
	"CREATE CONSTRAINT user_email IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE",
	"CREATE CONSTRAINT post_id IF NOT EXISTS FOR (p:Post) REQUIRE p.id IS UNIQUE",
	"CREATE INDEX user_name IF NOT EXISTS FOR (u:User) ON (u.name)",
}

// EnsureSchema creates the uniqueness constraints and indexes the store relies on.
func (s *Store) EnsureSchema(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, stmt := range schema {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return classify(err, "ensure schema")
		}
	}
	return nil
}

func (s *Store) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

func (s *Store) read(ctx context.Context, op string, work func(r txReader) error) error {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, work(txReader{tx})
	})
	return classify(err, op)
}

func (s *Store) write(ctx context.Context, op string, work func(tx neo4j.ManagedTransaction) error) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, work(tx)
	})
	return classify(err, op)
}

// GetUser implements store.Reader.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user *models.User
	err := s.read(ctx, "get user "+id, func(r txReader) error {
		var err error
		user, err = r.GetUser(ctx, id)
		return err
	})
	return user, err
}

// ListPosts implements store.Reader.
func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.read(ctx, "list posts", func(r txReader) error {
		var err error
		posts, err = r.ListPosts(ctx)
		return err
	})
	return posts, err
}

// Neighbors implements store.Reader.
func (s *Store) Neighbors(ctx context.Context, ids []string) (map[string][]string, error) {
	var adjacency map[string][]string
	err := s.read(ctx, "list neighbors", func(r txReader) error {
		var err error
		adjacency, err = r.Neighbors(ctx, ids)
		return err
	})
	return adjacency, err
}

// GetUserByEmail implements store.Store.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := s.read(ctx, "get user by email", func(r txReader) error {
		var err error
		user, err = r.oneUser(ctx, "user with email "+email, "MATCH (u:User {email: $email}) RETURN u", map[string]any{"email": email})
		return err
	})
	return user, err
}

// GetUserByName implements store.Store. Names are not unique; the earliest
// created user with the name wins.
func (s *Store) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	var user *models.User
	err := s.read(ctx, "get user by name", func(r txReader) error {
		var err error
		user, err = r.oneUser(ctx, "user named "+name, `
			MATCH (u:User {name: $name})
			RETURN u ORDER BY u.created_at ASC, u.id ASC LIMIT 1`,
			map[string]any{"name": name})
		return err
	})
	return user, err
}

// ListConnections implements store.Store.
func (s *Store) ListConnections(ctx context.Context, id string) ([]models.User, error) {
	var users []models.User
	err := s.read(ctx, "list connections of "+id, func(r txReader) error {
		if _, err := r.GetUser(ctx, id); err != nil {
			return err
		}
		records, err := r.collect(ctx, `
			MATCH (:User {id: $id})-[:CONNECTED_TO]->(c:User)
			RETURN DISTINCT c AS u ORDER BY c.id`,
			map[string]any{"id": id})
		if err != nil {
			return err
		}
		users = make([]models.User, 0, len(records))
		for _, rec := range records {
			u, err := userFromRecord(rec)
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		return nil
	})
	return users, err
}

// CreateUser implements store.Store.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.write(ctx, "create user", func(tx neo4j.ManagedTransaction) error {
		return createUser(ctx, tx, user)
	})
}

// Connect implements store.Store.
func (s *Store) Connect(ctx context.Context, a, b string) (bool, error) {
	if a == b {
		return false, store.ErrSelfConnection
	}

	var created bool
	err := s.write(ctx, "connect users", func(tx neo4j.ManagedTransaction) error {
		var err error
		created, err = connect(ctx, tx, a, b)
		return err
	})
	if err != nil {
		return false, err
	}
	if created {
		s.logger.Debug("users connected", zap.String("user1", a), zap.String("user2", b))
	}
	return created, nil
}

// CreateUserAndConnect implements store.Store.
func (s *Store) CreateUserAndConnect(ctx context.Context, user *models.User, existingID string) error {
	if user.ID == existingID {
		return store.ErrSelfConnection
	}

	return s.write(ctx, "create and connect user", func(tx neo4j.ManagedTransaction) error {
		if _, err := (txReader{tx}).GetUser(ctx, existingID); err != nil {
			return err
		}
		if err := createUser(ctx, tx, user); err != nil {
			return err
		}
		if _, err := connect(ctx, tx, existingID, user.ID); err != nil {
			return err
		}
		user.NumOfConnections = 1
		return nil
	})
}

// CreatePost implements store.Store.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return s.write(ctx, "create post", func(tx neo4j.ManagedTransaction) error {
		taken, err := count(ctx, tx, "MATCH (p:Post {id: $id}) RETURN count(p) AS n", map[string]any{"id": post.ID})
		if err != nil {
			return err
		}
		if taken > 0 {
			return fmt.Errorf("post %s: %w", post.ID, store.ErrConflict)
		}

		created, err := count(ctx, tx, `
			MATCH (a:User {id: $author_id})
			CREATE (p:Post {
				id: $id,
				content: $content,
				author_id: $author_id,
				visibility_degree: $visibility_degree,
				timestamp: $timestamp
			})-[:POSTED_BY]->(a)
			RETURN count(p) AS n`,
			map[string]any{
				"id":                post.ID,
				"content":           post.Content,
				"author_id":         post.AuthorID,
				"visibility_degree": int64(post.VisibilityDegree),
				"timestamp":         post.Timestamp.UTC(),
			})
		if err != nil {
			return err
		}
		if created == 0 {
			return fmt.Errorf("author %s: %w", post.AuthorID, store.ErrNotFound)
		}
		return nil
	})
}

// View implements store.Store. fn runs inside one read transaction; the
// driver may re-run it when the transaction fails with a transient error.
func (s *Store) View(ctx context.Context, fn func(r store.Reader) error) error {
	return s.read(ctx, "read snapshot", func(r txReader) error {
		return fn(r)
	})
}

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error {
	return classify(s.driver.VerifyConnectivity(ctx), "ping")
}

// Close implements store.Store.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func createUser(ctx context.Context, tx neo4j.ManagedTransaction, user *models.User) error {
	taken, err := count(ctx, tx,
		"MATCH (u:User) WHERE u.id = $id OR u.email = $email RETURN count(u) AS n",
		map[string]any{"id": user.ID, "email": user.Email})
	if err != nil {
		return err
	}
	if taken > 0 {
		return fmt.Errorf("user %s <%s>: %w", user.ID, user.Email, store.ErrConflict)
	}

	var invitedBy any
	if user.InvitedBy != nil {
		inviters, err := count(ctx, tx, "MATCH (u:User {id: $id}) RETURN count(u) AS n",
			map[string]any{"id": *user.InvitedBy})
		if err != nil {
			return err
		}
		if inviters == 0 {
			return fmt.Errorf("inviter %s: %w", *user.InvitedBy, store.ErrNotFound)
		}
		invitedBy = *user.InvitedBy
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.NumOfConnections = 0

	_, err = tx.Run(ctx, `
		CREATE (u:User {
			id: $id,
			name: $name,
			email: $email,
			school_year: $school_year,
			num_of_connections: 0,
			invited_by: $invited_by,
			created_at: $created_at
		})`,
		map[string]any{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"school_year": int64(user.SchoolYear),
			"invited_by":  invitedBy,
			"created_at":  user.CreatedAt.UTC(),
		})
	return err
}

// connect merges the relationship pair and bumps both counters only when the
// users were not connected in either direction. Writing both nodes first takes
// their locks, so a concurrent connect of the same pair waits and then sees
// the committed relationships.
func connect(ctx context.Context, tx neo4j.ManagedTransaction, a, b string) (bool, error) {
	if a > b {
		a, b = b, a
	}

	records, err := collect(ctx, tx, `
		MATCH (a:User {id: $a}), (b:User {id: $b})
		SET a.num_of_connections = coalesce(a.num_of_connections, 0),
		    b.num_of_connections = coalesce(b.num_of_connections, 0)
		WITH a, b
		OPTIONAL MATCH (a)-[e:CONNECTED_TO]-(b)
		WITH a, b, count(e) = 0 AS fresh
		MERGE (a)-[:CONNECTED_TO]->(b)
		MERGE (b)-[:CONNECTED_TO]->(a)
		FOREACH (ignored IN CASE WHEN fresh THEN [1] ELSE [] END |
			SET a.num_of_connections = a.num_of_connections + 1,
			    b.num_of_connections = b.num_of_connections + 1)
		RETURN fresh`,
		map[string]any{"a": a, "b": b})
	if err != nil {
		return false, err
	}
	if len(records) == 0 {
		return false, fmt.Errorf("users %s, %s: %w", a, b, store.ErrNotFound)
	}

	fresh, _, err := neo4j.GetRecordValue[bool](records[0], "fresh")
	if err != nil {
		return false, fmt.Errorf("decoding connect result: %w", err)
	}
	return fresh, nil
}

// classify maps driver failures onto the store sentinels.
func classify(err error, op string) error {
	var neoErr *neo4j.Neo4jError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrInternal), errors.Is(err, store.ErrSelfConnection),
		errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%s: %w", op, err)
	case errors.As(err, &neoErr) && neoErr.Code == "Neo.ClientError.Schema.ConstraintValidationFailed":
		return fmt.Errorf("%s: %w: %w", op, store.ErrConflict, err)
	case neo4j.IsConnectivityError(err), errors.Is(err, context.DeadlineExceeded), store.IsTransient(err):
		return fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
