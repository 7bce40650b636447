package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/seed"
	"github.com/pixelpal/pixelpal-service/internal/services"
	"github.com/pixelpal/pixelpal-service/internal/services/session"
	userdir "github.com/pixelpal/pixelpal-service/internal/services/users"
	"github.com/pixelpal/pixelpal-service/internal/types/users"
)

func setupService(t *testing.T) (*Service, *session.Service) {
	t.Helper()
	store := kv.NewMemory()

	seeder := seed.New(store, seed.DefaultFixtures())
	if err := seeder.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	sessions := session.New(store)
	return New(store, userdir.New(store), sessions), sessions
}

func TestConversationsRequireSession(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Conversations(context.Background())
	if !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("Expected ErrUnauthenticated, got %v", err)
	}
}

func TestSeededConversation(t *testing.T) {
	svc, sessions := setupService(t)
	ctx := context.Background()

	if err := sessions.SetCurrent(ctx, users.User{ID: "user-1", Username: "john_doe"}); err != nil {
		t.Fatalf("Failed to set session: %v", err)
	}

	convs, err := svc.Conversations(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("Expected 1 seeded conversation, got %d", len(convs))
	}
	if convs[0].PeerUsername != "jane_smith" {
		t.Fatalf("Expected peer jane_smith, got %s", convs[0].PeerUsername)
	}
	if convs[0].LastMessage != "The project looks great!" {
		t.Fatalf("Expected last message preview, got %q", convs[0].LastMessage)
	}

	msgs, err := svc.Messages(ctx, "user-2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("Expected 3 seeded messages, got %d", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].SentAt.Before(msgs[i-1].SentAt) {
			t.Fatalf("Messages out of order at %d", i)
		}
	}
}

func TestSendMessage(t *testing.T) {
	svc, sessions := setupService(t)
	ctx := context.Background()

	if err := sessions.SetCurrent(ctx, users.User{ID: "user-3", Username: "sam_travels"}); err != nil {
		t.Fatalf("Failed to set session: %v", err)
	}

	msg, err := svc.Send(ctx, "user-1", "Hey John, great shot!")
	if err != nil {
		t.Fatalf("Unexpected error on send: %v", err)
	}
	if msg.SenderID != "user-3" || msg.ReceiverID != "user-1" {
		t.Fatalf("Unexpected message endpoints: %+v", msg)
	}

	// The new thread appears for both participants.
	msgs, err := svc.Messages(ctx, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "Hey John, great shot!" {
		t.Fatalf("Unexpected thread: %+v", msgs)
	}

	if err := sessions.SetCurrent(ctx, users.User{ID: "user-1", Username: "john_doe"}); err != nil {
		t.Fatalf("Failed to switch session: %v", err)
	}
	convs, err := svc.Conversations(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	found := false
	for _, c := range convs {
		if c.PeerID == "user-3" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Expected conversation with user-3 on the receiver side, got %+v", convs)
	}
}

func TestSendToUnknownPeer(t *testing.T) {
	svc, sessions := setupService(t)
	ctx := context.Background()

	if err := sessions.SetCurrent(ctx, users.User{ID: "user-1", Username: "john_doe"}); err != nil {
		t.Fatalf("Failed to set session: %v", err)
	}

	_, err := svc.Send(ctx, "no-such-user", "hello?")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
