package events

import (
	"time"

	"github.com/pixelpal/pixelpal-service/internal/types"
)

// Publisher interface for publishing events
type Publisher interface {
	PublishPostLiked(postID, userID, username, authorID string) error
}

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastToUser(userID string, event *types.Event)
	IsUserConnected(userID string) bool
}

// EventPublisher implements the Publisher interface
type EventPublisher struct {
	hub WebSocketHub
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishPostLiked notifies a post's author that someone liked their
// post. Authors are not notified about their own likes, and nothing is
// sent when the author is offline.
func (p *EventPublisher) PublishPostLiked(postID, userID, username, authorID string) error {
	if userID == authorID {
		return nil
	}

	if !p.hub.IsUserConnected(authorID) {
		return nil
	}

	eventData := &types.PostLikedEvent{
		PostID:   postID,
		UserID:   userID,
		Username: username,
		LikedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	event := types.NewEvent(types.EventPostLiked, eventData)
	p.hub.BroadcastToUser(authorID, event)

	return nil
}
