// Package posts is the directory service over the post collection.
//
// Likes are stored as one set of liker ids per post, and the counter on
// a post is the size of that set at read time. The counter can
// therefore never drift from the set, and never go negative.
package posts

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pixelpal/pixelpal-service/internal/events"
	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/services"
	"github.com/pixelpal/pixelpal-service/internal/services/session"
	"github.com/pixelpal/pixelpal-service/internal/types"
)

type Service struct {
	store     kv.Store
	sessions  *session.Service
	publisher events.Publisher
}

func New(store kv.Store, sessions *session.Service) *Service {
	return &Service{store: store, sessions: sessions}
}

// SetPublisher attaches a real-time publisher for like notifications.
// Without one, likes are silent.
func (s *Service) SetPublisher(p events.Publisher) {
	s.publisher = p
}

// ListAll returns every post, newest first. Posts sharing a timestamp
// keep their stored order. Reads never require a session.
func (s *Service) ListAll(ctx context.Context) ([]types.Post, error) {
	var all []types.Post
	if _, err := kv.GetJSON(ctx, s.store, kv.KeyPosts, &all); err != nil {
		return nil, err
	}

	for i := range all {
		likers, err := s.likers(ctx, all[i].ID)
		if err != nil {
			return nil, err
		}
		all[i].Likes = len(likers)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*types.Post, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, services.ErrNotFound
}

// ListByUser returns the user's posts, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]types.Post, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var mine []types.Post
	for _, p := range all {
		if p.UserID == userID {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

// Create appends a new post authored by the session user, with the
// author's username and profile image snapshotted as of now. It fails
// with ErrUnauthenticated when nobody is logged in.
func (s *Service) Create(ctx context.Context, req types.PostCreateRequest) (*types.Post, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, services.ErrUnauthenticated
	}

	var all []types.Post
	if _, err := kv.GetJSON(ctx, s.store, kv.KeyPosts, &all); err != nil {
		return nil, err
	}

	newPost := types.Post{
		ID:               uuid.NewString(),
		UserID:           current.ID,
		Username:         current.Username,
		UserProfileImage: current.ProfileImage,
		ImageURL:         req.ImageURL,
		Caption:          req.Caption,
		CreatedAt:        time.Now().UTC(),
	}

	if err := kv.SetJSON(ctx, s.store, kv.KeyPosts, append(all, newPost)); err != nil {
		return nil, err
	}
	return &newPost, nil
}

// ToggleLike flips the session user's like on the post and returns the
// updated post. Two calls in a row restore the original state. It fails
// with ErrUnauthenticated when nobody is logged in and ErrNotFound when
// the post does not resolve.
func (s *Service) ToggleLike(ctx context.Context, postID string) (*types.Post, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, services.ErrUnauthenticated
	}

	var all []types.Post
	if _, err := kv.GetJSON(ctx, s.store, kv.KeyPosts, &all); err != nil {
		return nil, err
	}

	idx := -1
	for i := range all {
		if all[i].ID == postID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, services.ErrNotFound
	}

	likers, err := s.likers(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked := false
	next := make([]string, 0, len(likers)+1)
	for _, id := range likers {
		if id == current.ID {
			liked = true
			continue
		}
		next = append(next, id)
	}
	if !liked {
		next = append(next, current.ID)
	}

	if err := kv.SetJSON(ctx, s.store, kv.PostLikesKey(postID), next); err != nil {
		return nil, err
	}

	// Keep the stored counter in step with the set for anyone reading
	// the raw collection; reads still derive from the set.
	all[idx].Likes = len(next)
	if err := kv.SetJSON(ctx, s.store, kv.KeyPosts, all); err != nil {
		return nil, err
	}

	if !liked && s.publisher != nil {
		if err := s.publisher.PublishPostLiked(postID, current.ID, current.Username, all[idx].UserID); err != nil {
			slog.Error("Failed to publish like event",
				slog.String("post_id", postID),
				slog.String("error", err.Error()))
		}
	}

	return &all[idx], nil
}

// HasLiked reports whether the session user has liked the post. It is
// false, not an error, when nobody is logged in.
func (s *Service) HasLiked(ctx context.Context, postID string) (bool, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}

	likers, err := s.likers(ctx, postID)
	if err != nil {
		return false, err
	}
	for _, id := range likers {
		if id == current.ID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) likers(ctx context.Context, postID string) ([]string, error) {
	var likers []string
	if _, err := kv.GetJSON(ctx, s.store, kv.PostLikesKey(postID), &likers); err != nil {
		return nil, err
	}
	return likers, nil
}
