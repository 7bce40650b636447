// Package session tracks the locally active user: at most one record,
// created on login or registration and removed on logout. There is no
// expiry and no server-side invalidation.
package session

import (
	"context"

	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/types/users"
)

type Service struct {
	store kv.Store
}

func New(store kv.Store) *Service {
	return &Service{store: store}
}

// SetCurrent persists user as the active session, replacing any
// previous one.
func (s *Service) SetCurrent(ctx context.Context, user users.User) error {
	return kv.SetJSON(ctx, s.store, kv.KeyCurrentUser, user)
}

// Current returns the active session's user, or nil when nobody is
// logged in.
func (s *Service) Current(ctx context.Context) (*users.User, error) {
	var user users.User
	found, err := kv.GetJSON(ctx, s.store, kv.KeyCurrentUser, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// Clear removes the active session.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, kv.KeyCurrentUser)
}
