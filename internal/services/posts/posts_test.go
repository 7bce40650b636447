package posts

import (
	"context"
	"errors"
	"testing"

	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/seed"
	"github.com/pixelpal/pixelpal-service/internal/services"
	"github.com/pixelpal/pixelpal-service/internal/services/session"
	"github.com/pixelpal/pixelpal-service/internal/types"
	"github.com/pixelpal/pixelpal-service/internal/types/users"
)

func setupService(t *testing.T, fixtures seed.Fixtures) (*Service, *session.Service) {
	t.Helper()
	store := kv.NewMemory()

	seeder := seed.New(store, fixtures)
	if err := seeder.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	sessions := session.New(store)
	return New(store, sessions), sessions
}

func login(t *testing.T, sessions *session.Service, user users.User) {
	t.Helper()
	if err := sessions.SetCurrent(context.Background(), user); err != nil {
		t.Fatalf("Failed to set session: %v", err)
	}
}

func TestListAllSortedNewestFirst(t *testing.T) {
	svc, _ := setupService(t, seed.DefaultFixtures())
	ctx := context.Background()

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("Expected seeded posts")
	}

	for i := 1; i < len(all); i++ {
		if all[i-1].CreatedAt.Before(all[i].CreatedAt) {
			t.Fatalf("Feed out of order at %d: %v before %v", i, all[i-1].CreatedAt, all[i].CreatedAt)
		}
	}
}

func TestLikeCountDerivedFromLikerSet(t *testing.T) {
	svc, _ := setupService(t, seed.DefaultFixtures())
	ctx := context.Background()

	// The fixtures store two likers for post-1 and none on the raw
	// counter; the derived count must win.
	post, err := svc.FindByID(ctx, "post-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if post.Likes != 2 {
		t.Fatalf("Expected 2 likes derived from the liker set, got %d", post.Likes)
	}
}

func TestCreateRequiresSession(t *testing.T) {
	svc, _ := setupService(t, seed.Fixtures{})
	ctx := context.Background()

	_, err := svc.Create(ctx, types.PostCreateRequest{ImageURL: "http://img/1.png", Caption: "hi"})
	if !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("Expected ErrUnauthenticated, got %v", err)
	}
}

func TestToggleLikeRequiresSession(t *testing.T) {
	svc, _ := setupService(t, seed.DefaultFixtures())
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, "post-1")
	if !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("Expected ErrUnauthenticated, got %v", err)
	}

	// Reads never require a session.
	if _, err := svc.ListAll(ctx); err != nil {
		t.Fatalf("Unexpected error on ListAll: %v", err)
	}
	if _, err := svc.FindByID(ctx, "post-1"); err != nil {
		t.Fatalf("Unexpected error on FindByID: %v", err)
	}
}

func TestToggleLikeUnknownPost(t *testing.T) {
	svc, sessions := setupService(t, seed.DefaultFixtures())
	login(t, sessions, users.User{ID: "user-1", Username: "john_doe"})

	_, err := svc.ToggleLike(context.Background(), "no-such-post")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDoubleToggleRestoresState(t *testing.T) {
	svc, sessions := setupService(t, seed.DefaultFixtures())
	ctx := context.Background()
	login(t, sessions, users.User{ID: "user-2", Username: "jane_smith"})

	before, err := svc.FindByID(ctx, "post-3")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	likedBefore, _ := svc.HasLiked(ctx, "post-3")

	first, err := svc.ToggleLike(ctx, "post-3")
	if err != nil {
		t.Fatalf("Unexpected error on first toggle: %v", err)
	}
	if first.Likes != before.Likes+1 {
		t.Fatalf("Expected likes %d after first toggle, got %d", before.Likes+1, first.Likes)
	}

	second, err := svc.ToggleLike(ctx, "post-3")
	if err != nil {
		t.Fatalf("Unexpected error on second toggle: %v", err)
	}
	if second.Likes != before.Likes {
		t.Fatalf("Expected likes restored to %d, got %d", before.Likes, second.Likes)
	}

	likedAfter, err := svc.HasLiked(ctx, "post-3")
	if err != nil {
		t.Fatalf("Unexpected error on HasLiked: %v", err)
	}
	if likedAfter != likedBefore {
		t.Fatalf("Expected liked flag restored to %v, got %v", likedBefore, likedAfter)
	}
}

func TestHasLikedWithoutSession(t *testing.T) {
	svc, _ := setupService(t, seed.DefaultFixtures())

	liked, err := svc.HasLiked(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if liked {
		t.Fatal("Expected false with no session")
	}
}

// The end-to-end demo flow: an empty store, a fresh registration, one
// post, one like, one unlike.
func TestRegisterLoginPostLikeScenario(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	sessions := session.New(store)
	svc := New(store, sessions)

	alice := users.User{ID: "alice-id", Username: "alice", DisplayName: "Alice", Email: "a@x.com"}
	login(t, sessions, alice)

	post, err := svc.Create(ctx, types.PostCreateRequest{ImageURL: "http://img/1.png", Caption: "hi"})
	if err != nil {
		t.Fatalf("Unexpected error on create: %v", err)
	}
	if post.Likes != 0 {
		t.Fatalf("Expected a new post with 0 likes, got %d", post.Likes)
	}
	if post.UserID != "alice-id" || post.Username != "alice" {
		t.Fatalf("Expected author snapshot from session, got %+v", post)
	}

	liked, err := svc.ToggleLike(ctx, post.ID)
	if err != nil {
		t.Fatalf("Unexpected error on toggle: %v", err)
	}
	if liked.Likes != 1 {
		t.Fatalf("Expected 1 like, got %d", liked.Likes)
	}
	if has, _ := svc.HasLiked(ctx, post.ID); !has {
		t.Fatal("Expected HasLiked true after like")
	}

	unliked, err := svc.ToggleLike(ctx, post.ID)
	if err != nil {
		t.Fatalf("Unexpected error on second toggle: %v", err)
	}
	if unliked.Likes != 0 {
		t.Fatalf("Expected 0 likes after unlike, got %d", unliked.Likes)
	}
	if has, _ := svc.HasLiked(ctx, post.ID); has {
		t.Fatal("Expected HasLiked false after unlike")
	}
}

func TestAuthorSnapshotNotResynced(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	sessions := session.New(store)
	svc := New(store, sessions)

	login(t, sessions, users.User{ID: "u1", Username: "maya", ProfileImage: "http://img/old.png"})
	post, err := svc.Create(ctx, types.PostCreateRequest{ImageURL: "http://img/p.png"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The session user later changes their avatar; the post keeps the
	// snapshot taken at creation time.
	login(t, sessions, users.User{ID: "u1", Username: "maya", ProfileImage: "http://img/new.png"})

	got, err := svc.FindByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.UserProfileImage != "http://img/old.png" {
		t.Fatalf("Expected snapshot preserved, got %q", got.UserProfileImage)
	}
}

func TestListByUser(t *testing.T) {
	svc, _ := setupService(t, seed.DefaultFixtures())

	mine, err := svc.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, p := range mine {
		if p.UserID != "user-1" {
			t.Fatalf("Expected only user-1 posts, got %+v", p)
		}
	}
	if len(mine) != 1 {
		t.Fatalf("Expected 1 seeded post for user-1, got %d", len(mine))
	}
}
