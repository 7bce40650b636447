package types

import "time"

// Post is a photo with a caption. The author's username and profile
// image are snapshotted at creation time and intentionally not kept in
// sync with later profile edits.
type Post struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Username         string    `json:"username"`
	UserProfileImage string    `json:"user_profile_image,omitempty"`
	ImageURL         string    `json:"image_url"`
	Caption          string    `json:"caption"`
	Likes            int       `json:"likes"`
	Comments         int       `json:"comments"`
	CreatedAt        time.Time `json:"created_at"`
}

type PostCreateRequest struct {
	ImageURL string `json:"image_url" validate:"required"`
	Caption  string `json:"caption" validate:"max=2200"`
}

// Message is one mock chat message. There is no delivery transport;
// messages only exist in the sender's and receiver's shared store.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
}

type MessageSendRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// Conversation is a chat list entry: the peer plus a preview of the
// most recent message.
type Conversation struct {
	PeerID           string    `json:"peer_id"`
	PeerUsername     string    `json:"peer_username"`
	PeerProfileImage string    `json:"peer_profile_image,omitempty"`
	LastMessage      string    `json:"last_message,omitempty"`
	LastMessageAt    time.Time `json:"last_message_at,omitzero"`
}
