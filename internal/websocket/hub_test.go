package websocket

import (
	"testing"
	"time"

	"github.com/pixelpal/pixelpal-service/internal/types"
)

// Register and unregister go over unbuffered channels handled one at a
// time by Run, so once a later register send returns, every earlier op
// has been fully applied.

func TestStaleUnregisterKeepsReplacementConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := NewClient(nil, "user-1", hub)
	second := NewClient(nil, "user-1", hub)

	hub.RegisterClient(first)
	hub.RegisterClient(second)

	// The replaced connection's read loop still unregisters itself.
	hub.UnregisterClient(first)
	hub.RegisterClient(NewClient(nil, "user-2", hub))

	hub.BroadcastToUser("user-1", types.NewEvent(types.EventPostLiked, &types.PostLikedEvent{PostID: "post-1"}))

	select {
	case _, ok := <-second.send:
		if !ok {
			t.Fatalf("replacement client's send channel was closed")
		}
	case <-time.After(time.Second):
		t.Fatalf("replacement client did not receive the event")
	}

	// deliver runs in the hub goroutine after the user-2 register body,
	// so receiving the event guarantees all prior ops are applied.
	if !hub.IsUserConnected("user-1") {
		t.Fatalf("replacement connection for user-1 was dropped by a stale unregister")
	}
	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("ClientCount() = %d, want 2", got)
	}
}

func TestReconnectThenDisconnectRemovesUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := NewClient(nil, "user-1", hub)
	second := NewClient(nil, "user-1", hub)

	hub.RegisterClient(first)
	hub.RegisterClient(second)
	hub.UnregisterClient(first)
	hub.UnregisterClient(second)
	hub.RegisterClient(NewClient(nil, "user-2", hub))

	if hub.IsUserConnected("user-1") {
		t.Fatalf("user-1 still connected after its live connection unregistered")
	}

	select {
	case _, ok := <-second.send:
		if ok {
			t.Fatalf("unexpected message on an unregistered client")
		}
	default:
		t.Fatalf("send channel of the unregistered client was left open")
	}
}

func TestSendEventOnSaturatedClientLeavesChannelOpen(t *testing.T) {
	c := NewClient(nil, "user-1", NewHub())
	for i := 0; i < cap(c.send); i++ {
		c.send <- []byte("{}")
	}

	event := types.NewEvent(types.EventPostLiked, &types.PostLikedEvent{PostID: "post-1"})
	if err := c.SendEvent(event); err == nil {
		t.Fatalf("expected an error when the client buffer is full")
	}

	<-c.send
	if err := c.SendEvent(event); err != nil {
		t.Fatalf("SendEvent() after draining: %v", err)
	}
}
