package session

import (
	"context"
	"testing"

	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/types/users"
)

func TestSessionLifecycle(t *testing.T) {
	svc := New(kv.NewMemory())
	ctx := context.Background()

	current, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if current != nil {
		t.Fatalf("Expected no session initially, got %+v", current)
	}

	alice := users.User{ID: "u1", Username: "alice", Email: "a@x.com"}
	if err := svc.SetCurrent(ctx, alice); err != nil {
		t.Fatalf("Unexpected error on SetCurrent: %v", err)
	}

	current, err = svc.Current(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if current == nil || current.ID != "u1" {
		t.Fatalf("Expected alice's session, got %+v", current)
	}

	// A later login replaces the record.
	bob := users.User{ID: "u2", Username: "bob", Email: "b@x.com"}
	if err := svc.SetCurrent(ctx, bob); err != nil {
		t.Fatalf("Unexpected error on SetCurrent: %v", err)
	}
	current, _ = svc.Current(ctx)
	if current == nil || current.ID != "u2" {
		t.Fatalf("Expected bob's session, got %+v", current)
	}

	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Unexpected error on Clear: %v", err)
	}
	current, err = svc.Current(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if current != nil {
		t.Fatalf("Expected no session after Clear, got %+v", current)
	}
}
