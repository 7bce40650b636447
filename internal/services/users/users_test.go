package users

import (
	"context"
	"errors"
	"testing"

	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/seed"
	"github.com/pixelpal/pixelpal-service/internal/services"
	"github.com/pixelpal/pixelpal-service/internal/types/users"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	store := kv.NewMemory()

	seeder := seed.New(store, seed.DefaultFixtures())
	if err := seeder.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	return New(store)
}

func TestRegisterAndFind(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, users.RegisterRequest{
		Username:    "alice",
		DisplayName: "Alice",
		Email:       "a@x.com",
		Password:    "password",
	})
	if err != nil {
		t.Fatalf("Unexpected error on register: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected a non-empty id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("Expected a creation timestamp")
	}

	byUsername, err := svc.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("Unexpected error on FindByUsername: %v", err)
	}
	if byUsername.ID != created.ID || byUsername.Email != "a@x.com" {
		t.Fatalf("FindByUsername returned a different record: %+v", byUsername)
	}

	byID, err := svc.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("Unexpected error on FindByID: %v", err)
	}
	if byID.Username != "alice" {
		t.Fatalf("FindByID returned a different record: %+v", byID)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	before, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := svc.Register(ctx, users.RegisterRequest{
		Username: "carol", DisplayName: "Carol", Email: "c1@x.com", Password: "pw1234",
	}); err != nil {
		t.Fatalf("Unexpected error on first register: %v", err)
	}

	// Same username, different email, twice.
	for i := 0; i < 2; i++ {
		_, err := svc.Register(ctx, users.RegisterRequest{
			Username: "carol", DisplayName: "Carol 2", Email: "c2@x.com", Password: "pw1234",
		})
		if !errors.Is(err, services.ErrAlreadyExists) {
			t.Fatalf("Expected ErrAlreadyExists on attempt %d, got %v", i+1, err)
		}
	}

	after, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("Expected collection to grow by exactly one, got %d -> %d", len(before), len(after))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, users.RegisterRequest{
		Username: "alice", DisplayName: "Alice", Email: "a@x.com", Password: "pw1234",
	}); err != nil {
		t.Fatalf("Unexpected error on register: %v", err)
	}

	before, _ := svc.ListAll(ctx)

	_, err := svc.Register(ctx, users.RegisterRequest{
		Username: "bob", DisplayName: "Bob", Email: "a@x.com", Password: "pw1234",
	})
	if !errors.Is(err, services.ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists, got %v", err)
	}

	after, _ := svc.ListAll(ctx)
	if len(after) != len(before) {
		t.Fatalf("Expected collection length unchanged, got %d -> %d", len(before), len(after))
	}
}

func TestAuthenticate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	// Seed accounts carry no credential hash and accept any password.
	user, err := svc.Authenticate(ctx, "john@example.com", "whatever")
	if err != nil {
		t.Fatalf("Unexpected error authenticating seed account: %v", err)
	}
	if user.Username != "john_doe" {
		t.Fatalf("Expected john_doe, got %s", user.Username)
	}

	// Registered accounts verify the password.
	if _, err := svc.Register(ctx, users.RegisterRequest{
		Username: "alice", DisplayName: "Alice", Email: "a@x.com", Password: "secret1",
	}); err != nil {
		t.Fatalf("Unexpected error on register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "a@x.com", "secret1"); err != nil {
		t.Fatalf("Expected correct password to authenticate, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "a@x.com", "wrong"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Expected wrong password to fail, got %v", err)
	}

	// Unknown email.
	if _, err := svc.Authenticate(ctx, "nobody@x.com", "pw"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown email, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	matches, err := svc.Search(ctx, "JANE")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Username != "jane_smith" {
		t.Fatalf("Expected jane_smith, got %+v", matches)
	}

	// Display name matches too.
	matches, err = svc.Search(ctx, "rivera")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Username != "sam_travels" {
		t.Fatalf("Expected sam_travels, got %+v", matches)
	}

	matches, err = svc.Search(ctx, "  ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("Expected empty query to match nobody, got %+v", matches)
	}
}

func TestUpdateProfileIsFullReplace(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	// john_doe has a bio and location in the fixtures.
	updated, err := svc.UpdateProfile(ctx, "user-1", users.UpdateProfileRequest{
		DisplayName: "Johnny",
		Website:     "https://john.photos",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if updated.DisplayName != "Johnny" || updated.Website != "https://john.photos" {
		t.Fatalf("Expected new fields applied, got %+v", updated)
	}
	if updated.Bio != "" || updated.Location != "" {
		t.Fatalf("Expected omitted fields cleared, got bio=%q location=%q", updated.Bio, updated.Location)
	}
	if updated.Username != "john_doe" || updated.Email != "john@example.com" {
		t.Fatalf("Expected identity fields untouched, got %+v", updated)
	}

	if _, err := svc.UpdateProfile(ctx, "no-such-user", users.UpdateProfileRequest{DisplayName: "X"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
