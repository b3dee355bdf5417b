// Package drafts keeps document drafts between editor mounts.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chronicle/anchoring/internal/anchor"
	"chronicle/anchoring/internal/prosemirror"
)

// DefaultTTL is how long a draft survives without being saved again.
const DefaultTTL = 7 * 24 * time.Hour

// ErrNotFound indicates there is no draft for the document, or it expired.
var ErrNotFound = errors.New("draft not found")

// Draft is a saved document.
type Draft struct {
	DocumentID string
	Doc        *prosemirror.Node
	SavedAt    time.Time
}

type storedDraft struct {
	DocumentID string          `json:"document_id"`
	Doc        json.RawMessage `json:"doc"`
	SavedAt    time.Time       `json:"saved_at"`
}

// RedisStore implements draft storage using Redis
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to redisURL and checks the connection
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisStoreWithClient(client, ttl), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		prefix: "draft:",
		ttl:    ttl,
	}
}

func (s *RedisStore) key(documentID string) string {
	return s.prefix + documentID
}

// Save stores doc for documentID. Comment anchors are stripped first: they
// live only in the editing session and are rebuilt by rehydration.
func (s *RedisStore) Save(ctx context.Context, documentID string, doc *prosemirror.Node) error {
	clean, err := anchor.StripAnchors(doc)
	if err != nil {
		return fmt.Errorf("strip anchors: %w", err)
	}
	docJSON, err := json.Marshal(clean)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	data, err := json.Marshal(storedDraft{DocumentID: documentID, Doc: docJSON, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, s.key(documentID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load returns the draft for documentID
func (s *RedisStore) Load(ctx context.Context, documentID string) (Draft, error) {
	data, err := s.client.Get(ctx, s.key(documentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("load draft: %w", err)
	}
	var stored storedDraft
	if err := json.Unmarshal(data, &stored); err != nil {
		return Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	doc, err := prosemirror.ParseJSON(stored.Doc)
	if err != nil {
		return Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return Draft{DocumentID: stored.DocumentID, Doc: doc, SavedAt: stored.SavedAt}, nil
}

// Delete removes a draft. Deleting a missing draft is not an error.
func (s *RedisStore) Delete(ctx context.Context, documentID string) error {
	if err := s.client.Del(ctx, s.key(documentID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
