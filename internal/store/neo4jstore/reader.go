package neo4jstore

import (
	"context"
	"fmt"
	"time"

	"connect3/backend/internal/models"
	"connect3/backend/internal/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// txReader answers store.Reader queries inside one managed transaction.
type txReader struct {
	tx neo4j.ManagedTransaction
}

func (r txReader) GetUser(ctx context.Context, id string) (*models.User, error) {
	return r.oneUser(ctx, "user "+id, "MATCH (u:User {id: $id}) RETURN u", map[string]any{"id": id})
}

func (r txReader) ListPosts(ctx context.Context) ([]models.Post, error) {
	records, err := r.collect(ctx, `
		MATCH (p:Post)-[:POSTED_BY]->(a:User)
		RETURN p.id AS id, p.content AS content, a.id AS author_id,
		       p.visibility_degree AS visibility_degree, p.timestamp AS timestamp
		ORDER BY p.timestamp DESC, p.id ASC`, nil)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(records))
	for _, rec := range records {
		posts = append(posts, models.Post{
			ID:               getString(rec, "id"),
			Content:          getString(rec, "content"),
			AuthorID:         getString(rec, "author_id"),
			VisibilityDegree: getInt(rec, "visibility_degree"),
			Timestamp:        getTime(rec, "timestamp"),
		})
	}
	return posts, nil
}

func (r txReader) Neighbors(ctx context.Context, ids []string) (map[string][]string, error) {
	records, err := r.collect(ctx, `
		UNWIND $ids AS id
		MATCH (:User {id: id})-[:CONNECTED_TO]->(n:User)
		RETURN id, n.id AS neighbor
		ORDER BY id, neighbor`,
		map[string]any{"ids": ids})
	if err != nil {
		return nil, err
	}

	adjacency := make(map[string][]string, len(ids))
	for _, rec := range records {
		from := getString(rec, "id")
		adjacency[from] = append(adjacency[from], getString(rec, "neighbor"))
	}
	return adjacency, nil
}

func (r txReader) oneUser(ctx context.Context, desc, cypher string, params map[string]any) (*models.User, error) {
	records, err := r.collect(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", desc, store.ErrNotFound)
	}
	u, err := userFromRecord(records[0])
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r txReader) collect(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	return collect(ctx, r.tx, cypher, params)
}

func collect(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	result, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return result.Collect(ctx)
}

func count(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) (int64, error) {
	records, err := collect(ctx, tx, cypher, params)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	n, _, err := neo4j.GetRecordValue[int64](records[0], "n")
	return n, err
}

// userFromRecord decodes the node bound to "u".
func userFromRecord(rec *neo4j.Record) (models.User, error) {
	node, _, err := neo4j.GetRecordValue[neo4j.Node](rec, "u")
	if err != nil {
		return models.User{}, fmt.Errorf("decoding user: %w", err)
	}
	return userFromProps(node.Props), nil
}

func userFromProps(props map[string]any) models.User {
	u := models.User{
		ID:               propString(props, "id"),
		Name:             propString(props, "name"),
		Email:            propString(props, "email"),
		SchoolYear:       propInt(props, "school_year"),
		NumOfConnections: propInt(props, "num_of_connections"),
		CreatedAt:        propTime(props, "created_at"),
	}
	if inviter := propString(props, "invited_by"); inviter != "" {
		u.InvitedBy = &inviter
	}
	return u
}

func getString(rec *neo4j.Record, key string) string {
	val, _ := rec.Get(key)
	return asString(val)
}

func getInt(rec *neo4j.Record, key string) int {
	val, _ := rec.Get(key)
	return asInt(val)
}

func getTime(rec *neo4j.Record, key string) time.Time {
	val, _ := rec.Get(key)
	return asTime(val)
}

func propString(props map[string]any, key string) string { return asString(props[key]) }
func propInt(props map[string]any, key string) int       { return asInt(props[key]) }
func propTime(props map[string]any, key string) time.Time {
	return asTime(props[key])
}

func asString(val any) string {
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

func asInt(val any) int {
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func asTime(val any) time.Time {
	switch v := val.(type) {
	case time.Time:
		return v.UTC()
	case neo4j.LocalDateTime:
		return v.Time().UTC()
	}
	return time.Time{}
}
