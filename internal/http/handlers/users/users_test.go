package users_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	userhandlers "github.com/pixelpal/pixelpal-service/internal/http/handlers/users"
	"github.com/pixelpal/pixelpal-service/internal/http/middleware"
	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/seed"
	"github.com/pixelpal/pixelpal-service/internal/services/session"
	userdir "github.com/pixelpal/pixelpal-service/internal/services/users"
	"github.com/pixelpal/pixelpal-service/internal/utils/response"
)

const testJWTSecret = "test_secret"

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := kv.NewMemory()

	seeder := seed.New(store, seed.DefaultFixtures())
	if err := seeder.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	sessions := session.New(store)
	users := userdir.New(store)

	auth := middleware.AuthMiddleware(testJWTSecret)

	router := http.NewServeMux()
	router.HandleFunc("POST /signup", userhandlers.SignUp(users, sessions, testJWTSecret))
	router.HandleFunc("POST /login", userhandlers.Login(users, sessions, testJWTSecret))
	router.Handle("POST /logout", auth(userhandlers.Logout(sessions)))
	router.Handle("GET /me", auth(userhandlers.Me(users)))
	router.Handle("PUT /me", auth(userhandlers.UpdateProfile(users, sessions)))
	router.HandleFunc("GET /users/search", userhandlers.Search(users))
	router.HandleFunc("GET /users/{username}", userhandlers.GetByUsername(users))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, response.Response) {
	t.Helper()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("Failed to encode body: %v", err)
	}

	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope response.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp, envelope
}

func TestSignupRejectsDuplicates(t *testing.T) {
	server := setupServer(t)

	body := map[string]string{
		"username":     "alice",
		"display_name": "Alice",
		"email":        "a@x.com",
		"password":     "password",
	}
	resp, envelope := postJSON(t, server.URL+"/signup", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d (%s)", resp.StatusCode, envelope.Error)
	}

	// Same email, different username.
	body["username"] = "bob"
	resp, envelope = postJSON(t, server.URL+"/signup", body)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("Expected 409, got %d (%s)", resp.StatusCode, envelope.Error)
	}
	if envelope.Status != response.StatusError {
		t.Fatalf("Expected error envelope, got %+v", envelope)
	}
}

func TestSignupValidation(t *testing.T) {
	server := setupServer(t)

	resp, envelope := postJSON(t, server.URL+"/signup", map[string]string{
		"username": "x", // too short
		"email":    "not-an-email",
		"password": "pw",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d (%s)", resp.StatusCode, envelope.Error)
	}
}

func TestLogin(t *testing.T) {
	server := setupServer(t)

	// Seed accounts accept any password.
	resp, envelope := postJSON(t, server.URL+"/login", map[string]string{
		"email":    "john@example.com",
		"password": "anything",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, envelope.Error)
	}

	// Registered accounts verify credentials.
	postJSON(t, server.URL+"/signup", map[string]string{
		"username":     "alice",
		"display_name": "Alice",
		"email":        "a@x.com",
		"password":     "secret1",
	})

	resp, _ = postJSON(t, server.URL+"/login", map[string]string{
		"email":    "a@x.com",
		"password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for wrong password, got %d", resp.StatusCode)
	}

	resp, envelope = postJSON(t, server.URL+"/login", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, envelope.Error)
	}

	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected object data, got %T", envelope.Data)
	}
	user, _ := data["user"].(map[string]interface{})
	if _, exposed := user["password_hash"]; exposed {
		t.Fatal("Expected the credential hash to be stripped from responses")
	}
}

func TestGetByUsername(t *testing.T) {
	server := setupServer(t)

	resp, envelope := get(t, server.URL+"/users/jane_smith")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, envelope.Error)
	}

	resp, _ = get(t, server.URL+"/users/nobody")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestSearchEndpoint(t *testing.T) {
	server := setupServer(t)

	resp, envelope := get(t, server.URL+"/users/search?q=smith")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, envelope.Error)
	}

	results, ok := envelope.Data.([]interface{})
	if !ok {
		t.Fatalf("Expected a result list, got %T", envelope.Data)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 match for smith, got %d", len(results))
	}
}

func get(t *testing.T, url string) (*http.Response, response.Response) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope response.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp, envelope
}
