// Package gormstore implements the Graph Store on a relational database via
// gorm. Users and posts are rows; every friendship is a pair of directed rows
// in the connections table.
package gormstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"connect3/backend/internal/models"
	"connect3/backend/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// neighborBatch bounds the number of IDs bound into a single IN clause.
const neighborBatch = 500

// Store is a store.Store backed by gorm.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open gorm connection. Tables must already be migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// reader runs the read queries on either the pool or a snapshot transaction.
type reader struct {
	db *gorm.DB
}

func (r reader) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, classify(err, "get user "+id)
	}
	return &user, nil
}

func (r reader) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "timestamp"}, Desc: true},
		{Column: clause.Column{Name: "id"}},
	}}).Find(&posts).Error
	if err != nil {
		return nil, classify(err, "list posts")
	}
	return posts, nil
}

func (r reader) Neighbors(ctx context.Context, ids []string) (map[string][]string, error) {
	adjacency := make(map[string][]string, len(ids))
	for start := 0; start < len(ids); start += neighborBatch {
		end := min(start+neighborBatch, len(ids))

		var edges []models.Connection
		err := r.db.WithContext(ctx).
			Select("from_user_id", "to_user_id").
			Where("from_user_id IN ?", ids[start:end]).
			Order("from_user_id, to_user_id").
			Find(&edges).Error
		if err != nil {
			return nil, classify(err, "list neighbors")
		}
		for _, e := range edges {
			adjacency[e.FromUserID] = append(adjacency[e.FromUserID], e.ToUserID)
		}
	}
	return adjacency, nil
}

// GetUser implements store.Reader.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return reader{s.db}.GetUser(ctx, id)
}

// ListPosts implements store.Reader.
func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	return reader{s.db}.ListPosts(ctx)
}

// Neighbors implements store.Reader.
func (s *Store) Neighbors(ctx context.Context, ids []string) (map[string][]string, error) {
	return reader{s.db}.Neighbors(ctx, ids)
}

// GetUserByEmail implements store.Store.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, classify(err, "get user by email")
	}
	return &user, nil
}

// GetUserByName implements store.Store. Names are not unique; the earliest
// created user with the name wins.
func (s *Store) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC, id ASC").
		First(&user).Error
	if err != nil {
		return nil, classify(err, "get user by name")
	}
	return &user, nil
}

// ListConnections implements store.Store.
func (s *Store) ListConnections(ctx context.Context, id string) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := (reader{tx}).GetUser(ctx, id); err != nil {
			return err
		}
		return tx.Select("users.*").
			Joins("JOIN connections ON connections.to_user_id = users.id").
			Where("connections.from_user_id = ?", id).
			Order("users.id").
			Find(&users).Error
	}, s.readOptions()...)
	if err != nil {
		return nil, classify(err, "list connections of "+id)
	}
	return users, nil
}

// CreateUser implements store.Store.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createUser(tx, user)
	})
	return classify(err, "create user")
}

// Connect implements store.Store.
func (s *Store) Connect(ctx context.Context, a, b string) (bool, error) {
	if a == b {
		return false, store.ErrSelfConnection
	}

	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = connect(tx, a, b)
		return err
	})
	if err != nil {
		return false, classify(err, "connect users")
	}
	return created, nil
}

// CreateUserAndConnect implements store.Store.
func (s *Store) CreateUserAndConnect(ctx context.Context, user *models.User, existingID string) error {
	if user.ID == existingID {
		return store.ErrSelfConnection
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := (reader{tx}).GetUser(ctx, existingID); err != nil {
			return err
		}
		if err := createUser(tx, user); err != nil {
			return err
		}
		if _, err := connect(tx, existingID, user.ID); err != nil {
			return err
		}
		user.NumOfConnections = 1
		return nil
	})
	return classify(err, "create and connect user")
}

// CreatePost implements store.Store.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := (reader{tx}).GetUser(ctx, post.AuthorID); err != nil {
			return fmt.Errorf("author: %w", err)
		}
		return tx.Omit(clause.Associations).Create(post).Error
	})
	return classify(err, "create post")
}

// View implements store.Store. On Postgres the snapshot is a read-only
// REPEATABLE READ transaction, so every query inside fn sees the same data.
func (s *Store) View(ctx context.Context, fn func(r store.Reader) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reader{tx})
	}, s.readOptions()...)
	return classify(err, "read snapshot")
}

func (s *Store) readOptions() []*sql.TxOptions {
	if s.db.Dialector.Name() != "postgres" {
		return nil
	}
	return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead, ReadOnly: true}}
}

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return classify(sqlDB.PingContext(ctx), "ping")
}

// Close implements store.Store.
func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func createUser(tx *gorm.DB, user *models.User) error {
	var taken int64
	err := tx.Model(&models.User{}).
		Where("id = ? OR email = ?", user.ID, user.Email).
		Count(&taken).Error
	if err != nil {
		return err
	}
	if taken > 0 {
		return fmt.Errorf("user %s <%s>: %w", user.ID, user.Email, store.ErrConflict)
	}

	if user.InvitedBy != nil {
		var inviters int64
		if err := tx.Model(&models.User{}).Where("id = ?", *user.InvitedBy).Count(&inviters).Error; err != nil {
			return err
		}
		if inviters == 0 {
			return fmt.Errorf("inviter %s: %w", *user.InvitedBy, store.ErrNotFound)
		}
	}

	user.NumOfConnections = 0
	res := tx.Create(user)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("user %s was not created: %w", user.ID, store.ErrInternal)
	}
	return nil
}

// connect inserts the edge pair if absent and bumps both counters only when
// the pair is new. The primary key on (from_user_id, to_user_id) makes a
// concurrent duplicate insert wait for the first transaction and then do nothing.
// Endpoints are ordered first so connect(a, b) and connect(b, a) take the row
// locks in the same order and cannot deadlock.
func connect(tx *gorm.DB, a, b string) (bool, error) {
	if a > b {
		a, b = b, a
	}
	ids := []string{a, b}

	var found int64
	if err := tx.Model(&models.User{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return false, err
	}
	if found != 2 {
		return false, fmt.Errorf("users %s, %s: %w", a, b, store.ErrNotFound)
	}

	pair := models.ConnectionPair(a, b)
	res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&pair)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected != int64(len(pair)) {
		// zero: already connected. one: half a pair existed and has been repaired;
		// its counters were bumped when it was first created.
		return false, nil
	}

	res = tx.Model(&models.User{}).
		Where("id IN ?", ids).
		UpdateColumn("num_of_connections", gorm.Expr("num_of_connections + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected != 2 {
		return false, fmt.Errorf("connection counters of %s, %s: %w", a, b, store.ErrInternal)
	}
	return true, nil
}

// classify maps gorm and driver failures onto the store sentinels.
func classify(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrInternal), errors.Is(err, store.ErrSelfConnection),
		errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, store.ErrConflict)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded), store.IsTransient(err):
		return fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
