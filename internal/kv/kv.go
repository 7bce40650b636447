package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pixelpal/pixelpal-service/internal/config"
)

// Store is the key-value port every directory service runs on. A missing
// key is not an error: Get returns (nil, nil). Values are opaque bytes;
// callers encode whole collections as JSON under fixed keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Collection keys. Each key holds a JSON-encoded sequence of records.
const (
	KeyUsers       = "users"
	KeyPosts       = "posts"
	KeyCurrentUser = "current_user"
)

// PostLikesKey returns the key holding the set of user ids that have
// liked the given post.
func PostLikesKey(postID string) string {
	return "post_likes:" + postID
}

// ChatIndexKey returns the key holding the peer ids a user has
// conversations with.
func ChatIndexKey(userID string) string {
	return "chat:index:" + userID
}

// ChatMessagesKey returns the key holding the message sequence between
// two users. The pair is ordered so both participants resolve the same key.
func ChatMessagesKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return "chat:msgs:" + userA + ":" + userB
}

// New builds a Store from the configured backend.
func New(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.Storage.FilePath)
	case "redis":
		return NewRedis(cfg.Redis)
	case "postgres":
		return NewPostgres(cfg.Storage.PGSQL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// GetJSON decodes the value under key into out. It reports whether the
// key was present; out is left untouched when it was not.
func GetJSON(ctx context.Context, s Store, key string, out interface{}) (bool, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
