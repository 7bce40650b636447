// Package seed populates an empty store with the demo fixtures.
// Seeding is an explicit startup step, never a side effect of a read:
// cmd/pixelpal-service runs it once before serving, and cmd/seedctl
// runs it standalone.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/types"
	"github.com/pixelpal/pixelpal-service/internal/types/users"
)

// Fixtures is the static demo data set. A zero Fixtures seeds nothing,
// which tests use to start from a clean store.
type Fixtures struct {
	Users         []users.User
	Posts         []types.Post
	PostLikes     map[string][]string // postID -> liker user ids
	Conversations []Conversation
}

// Conversation is a canned message thread between two seed users.
type Conversation struct {
	Messages []types.Message
}

type Seeder struct {
	store    kv.Store
	fixtures Fixtures
}

func New(store kv.Store, fixtures Fixtures) *Seeder {
	return &Seeder{store: store, fixtures: fixtures}
}

// EnsureSeeded writes fixtures for every collection that is still
// absent. Collections that already exist are left alone, so running it
// again is a no-op.
func (s *Seeder) EnsureSeeded(ctx context.Context) error {
	seeded, err := s.ensureCollection(ctx, kv.KeyUsers, nonNil(s.fixtures.Users))
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if seeded {
		slog.Info("Seeded user collection", slog.Int("count", len(s.fixtures.Users)))
	}

	seeded, err = s.ensureCollection(ctx, kv.KeyPosts, nonNil(s.fixtures.Posts))
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	if seeded {
		slog.Info("Seeded post collection", slog.Int("count", len(s.fixtures.Posts)))
	}

	for postID, likers := range s.fixtures.PostLikes {
		if _, err := s.ensureCollection(ctx, kv.PostLikesKey(postID), nonNil(likers)); err != nil {
			return fmt.Errorf("seed likes for post %s: %w", postID, err)
		}
	}

	for _, conv := range s.fixtures.Conversations {
		if err := s.seedConversation(ctx, conv); err != nil {
			return fmt.Errorf("seed conversation: %w", err)
		}
	}

	return nil
}

// nonNil keeps seeded documents shaped like later writes, which always
// store arrays, never null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ensureCollection writes value under key if the key is absent. It
// reports whether a write happened.
func (s *Seeder) ensureCollection(ctx context.Context, key string, value interface{}) (bool, error) {
	existing, err := s.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	return true, kv.SetJSON(ctx, s.store, key, value)
}

func (s *Seeder) seedConversation(ctx context.Context, conv Conversation) error {
	if len(conv.Messages) == 0 {
		return nil
	}
	a, b := conv.Messages[0].SenderID, conv.Messages[0].ReceiverID

	seeded, err := s.ensureCollection(ctx, kv.ChatMessagesKey(a, b), conv.Messages)
	if err != nil || !seeded {
		return err
	}

	for _, userID := range []string{a, b} {
		peer := a
		if userID == a {
			peer = b
		}
		if err := s.addPeer(ctx, userID, peer); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) addPeer(ctx context.Context, userID, peerID string) error {
	var peers []string
	if _, err := kv.GetJSON(ctx, s.store, kv.ChatIndexKey(userID), &peers); err != nil {
		return err
	}
	for _, p := range peers {
		if p == peerID {
			return nil
		}
	}
	return kv.SetJSON(ctx, s.store, kv.ChatIndexKey(userID), append(peers, peerID))
}
