package users

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pixelpal/pixelpal-service/internal/http/middleware"
	"github.com/pixelpal/pixelpal-service/internal/services/session"
	userdir "github.com/pixelpal/pixelpal-service/internal/services/users"
	"github.com/pixelpal/pixelpal-service/internal/types/users"
	"github.com/pixelpal/pixelpal-service/internal/utils/jwt"
	"github.com/pixelpal/pixelpal-service/internal/utils/response"
)

// SignUp handles user registration
// @Summary Register a new user
// @Description Register a new account; the new user is logged in on success
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.RegisterRequest true "User registration details"
// @Success 201 {object} response.Response "User created"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 409 {object} response.Response "Username or email already exists"
// @Router /signup [post]
func SignUp(userDir *userdir.Service, sessions *session.Service, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.RegisterRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("request body cannot be empty")))
			return
		} else if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		validate := validator.New()
		if err := validate.Struct(req); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		newUser, err := userDir.Register(r.Context(), req)
		if err != nil {
			response.WriteJSON(w, response.ErrorStatus(err), response.GeneralError(err))
			return
		}
		slog.Info("User registered", slog.String("user_id", newUser.ID), slog.String("username", newUser.Username))

		// Registration logs the new user in.
		if err := sessions.SetCurrent(r.Context(), *newUser); err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		token, err := jwt.CreateToken(newUser.ID, jwtSecret)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to generate token")))
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("User created", map[string]interface{}{
			"user":  newUser.Sanitized(),
			"token": token,
		}))
	}
}

// Login handles user authentication
// @Summary Authenticate a user
// @Description Authenticate by email and start the session
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.LoginRequest true "User login details"
// @Success 200 {object} response.Response "User authenticated"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /login [post]
func Login(userDir *userdir.Service, sessions *session.Service, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		validate := validator.New()
		if err := validate.Struct(req); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		user, err := userDir.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("invalid email or password")))
			return
		}

		if err := sessions.SetCurrent(r.Context(), *user); err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		token, err := jwt.CreateToken(user.ID, jwtSecret)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to generate token")))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Logged in", map[string]interface{}{
			"user":  user.Sanitized(),
			"token": token,
		}))
	}
}

// Logout clears the active session.
// @Summary Log out
// @Tags users
// @Security BearerAuth
// @Success 200 {object} response.Response "Logged out"
// @Router /logout [post]
func Logout(sessions *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		if err := sessions.Clear(r.Context()); err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Logged out", nil))
	}
}

// Me returns the session user's profile.
// @Summary Get the logged-in user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Current user"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /me [get]
func Me(userDir *userdir.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		user, err := userDir.FindByID(r.Context(), userID)
		if err != nil {
			response.WriteJSON(w, response.ErrorStatus(err), response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Current user", user.Sanitized()))
	}
}

// UpdateProfile replaces the mutable fields of the session user's
// profile.
// @Summary Edit the logged-in user's profile
// @Description Full replace of the mutable profile fields
// @Tags users
// @Accept json
// @Produce json
// @Param profile body users.UpdateProfileRequest true "New profile fields"
// @Security BearerAuth
// @Success 200 {object} response.Response "Updated user"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /me [put]
func UpdateProfile(userDir *userdir.Service, sessions *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		var req users.UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		validate := validator.New()
		if err := validate.Struct(req); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		updated, err := userDir.UpdateProfile(r.Context(), userID, req)
		if err != nil {
			response.WriteJSON(w, response.ErrorStatus(err), response.GeneralError(err))
			return
		}

		// Keep the session record in step with the edit.
		current, err := sessions.Current(r.Context())
		if err == nil && current != nil && current.ID == updated.ID {
			if err := sessions.SetCurrent(r.Context(), *updated); err != nil {
				slog.Error("Failed to refresh session after profile edit", slog.String("error", err.Error()))
			}
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Profile updated", updated.Sanitized()))
	}
}

// GetByUsername returns a user's public profile.
// @Summary Get a user by username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} response.Response "User"
// @Failure 404 {object} response.Response "User not found"
// @Router /users/{username} [get]
func GetByUsername(userDir *userdir.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")
		if username == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("username is required")))
			return
		}

		user, err := userDir.FindByUsername(r.Context(), username)
		if err != nil {
			response.WriteJSON(w, response.ErrorStatus(err), response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("User found", user.Sanitized()))
	}
}

// Search finds users by username or display name.
// @Summary Search users
// @Tags users
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} response.Response "Matching users"
// @Router /users/search [get]
func Search(userDir *userdir.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")

		matches, err := userDir.Search(r.Context(), query)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		sanitized := make([]users.User, 0, len(matches))
		for _, u := range matches {
			sanitized = append(sanitized, u.Sanitized())
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Search results", sanitized))
	}
}
