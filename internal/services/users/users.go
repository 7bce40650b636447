// Package users is the directory service over the user collection.
package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/services"
	"github.com/pixelpal/pixelpal-service/internal/types/users"
	"github.com/pixelpal/pixelpal-service/internal/utils/password"
)

type Service struct {
	store kv.Store
}

func New(store kv.Store) *Service {
	return &Service{store: store}
}

// ListAll returns the full user collection in stored order. The store
// must already be seeded; an absent collection reads as empty.
func (s *Service) ListAll(ctx context.Context) ([]users.User, error) {
	var all []users.User
	if _, err := kv.GetJSON(ctx, s.store, kv.KeyUsers, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*users.User, error) {
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

func (s *Service) FindByUsername(ctx context.Context, username string) (*users.User, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Username == username {
			return &all[i], nil
		}
	}
	return nil, services.ErrNotFound
}

// Search returns users whose username or display name contains the
// query, case-insensitively. An empty query matches nobody.
func (s *Service) Search(ctx context.Context, query string) ([]users.User, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var matches []users.User
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Username), query) ||
			strings.Contains(strings.ToLower(u.DisplayName), query) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

// Authenticate resolves the user by email. Accounts created through
// Register carry a credential hash and the password must match it.
// Seeded demo accounts carry no hash and accept any password.
func (s *Service) Authenticate(ctx context.Context, email, pass string) (*users.User, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].Email != email {
			continue
		}
		if all[i].PasswordHash != "" && !password.CheckPasswordHash(pass, all[i].PasswordHash) {
			return nil, services.ErrNotFound
		}
		return &all[i], nil
	}
	return nil, services.ErrNotFound
}

// Register appends a new user. It fails with ErrAlreadyExists when any
// existing user shares the requested username or email.
func (s *Service) Register(ctx context.Context, req users.RegisterRequest) (*users.User, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range all {
		if u.Username == req.Username || u.Email == req.Email {
			return nil, services.ErrAlreadyExists
		}
	}

	hash, err := password.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newUser := users.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := kv.SetJSON(ctx, s.store, kv.KeyUsers, append(all, newUser)); err != nil {
		return nil, err
	}
	return &newUser, nil
}

// UpdateProfile replaces every mutable field of the user's record.
// Identity fields (id, username, email) and the credential hash are
// kept. Author snapshots on existing posts are deliberately not
// re-synced.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req users.UpdateProfileRequest) (*users.User, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].ID != userID {
			continue
		}
		all[i].DisplayName = req.DisplayName
		all[i].ProfileImage = req.ProfileImage
		all[i].Bio = req.Bio
		all[i].Website = req.Website
		all[i].Location = req.Location

		if err := kv.SetJSON(ctx, s.store, kv.KeyUsers, all); err != nil {
			return nil, err
		}
		return &all[i], nil
	}
	return nil, services.ErrNotFound
}
