// Package chat is the mock messaging service. Messages live in the
// same store as everything else and are served over plain HTTP; there
// is no delivery transport and no read receipts.
package chat

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/services"
	"github.com/pixelpal/pixelpal-service/internal/services/session"
	"github.com/pixelpal/pixelpal-service/internal/services/users"
	"github.com/pixelpal/pixelpal-service/internal/types"
)

type Service struct {
	store    kv.Store
	users    *users.Service
	sessions *session.Service
}

func New(store kv.Store, userDir *users.Service, sessions *session.Service) *Service {
	return &Service{store: store, users: userDir, sessions: sessions}
}

// Conversations lists the session user's threads, most recent first,
// with a preview of the last message.
func (s *Service) Conversations(ctx context.Context) ([]types.Conversation, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, services.ErrUnauthenticated
	}

	var peers []string
	if _, err := kv.GetJSON(ctx, s.store, kv.ChatIndexKey(current.ID), &peers); err != nil {
		return nil, err
	}

	var convs []types.Conversation
	for _, peerID := range peers {
		peer, err := s.users.FindByID(ctx, peerID)
		if err != nil {
			// Peer records are never deleted in this design, but a
			// dangling index entry should not break the whole list.
			continue
		}

		conv := types.Conversation{
			PeerID:           peer.ID,
			PeerUsername:     peer.Username,
			PeerProfileImage: peer.ProfileImage,
		}

		msgs, err := s.messagesBetween(ctx, current.ID, peerID)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			conv.LastMessage = last.Content
			conv.LastMessageAt = last.SentAt
		}

		convs = append(convs, conv)
	}

	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].LastMessageAt.After(convs[j].LastMessageAt)
	})
	return convs, nil
}

// Messages returns the thread with the given peer, oldest first.
func (s *Service) Messages(ctx context.Context, peerID string) ([]types.Message, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, services.ErrUnauthenticated
	}

	if _, err := s.users.FindByID(ctx, peerID); err != nil {
		return nil, err
	}

	return s.messagesBetween(ctx, current.ID, peerID)
}

// Send appends a message from the session user to the peer and returns
// it.
func (s *Service) Send(ctx context.Context, peerID, content string) (*types.Message, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, services.ErrUnauthenticated
	}

	if _, err := s.users.FindByID(ctx, peerID); err != nil {
		return nil, err
	}

	msgs, err := s.messagesBetween(ctx, current.ID, peerID)
	if err != nil {
		return nil, err
	}

	msg := types.Message{
		ID:         uuid.NewString(),
		SenderID:   current.ID,
		ReceiverID: peerID,
		Content:    content,
		SentAt:     time.Now().UTC(),
	}

	if err := kv.SetJSON(ctx, s.store, kv.ChatMessagesKey(current.ID, peerID), append(msgs, msg)); err != nil {
		return nil, err
	}

	for _, userID := range []string{current.ID, peerID} {
		peer := current.ID
		if userID == current.ID {
			peer = peerID
		}
		if err := s.indexPeer(ctx, userID, peer); err != nil {
			return nil, err
		}
	}

	return &msg, nil
}

func (s *Service) messagesBetween(ctx context.Context, userA, userB string) ([]types.Message, error) {
	var msgs []types.Message
	if _, err := kv.GetJSON(ctx, s.store, kv.ChatMessagesKey(userA, userB), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *Service) indexPeer(ctx context.Context, userID, peerID string) error {
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
