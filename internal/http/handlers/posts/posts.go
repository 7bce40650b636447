// Package posts serves the feed and post mutations. A bearer token only
// gates mutating requests; the acting identity is the single current-user
// session record set by the latest login, so the two can diverge.
package posts

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pixelpal/pixelpal-service/internal/cache"
	"github.com/pixelpal/pixelpal-service/internal/http/middleware"
	postdir "github.com/pixelpal/pixelpal-service/internal/services/posts"
	"github.com/pixelpal/pixelpal-service/internal/types"
	"github.com/pixelpal/pixelpal-service/internal/utils/response"
)

// PostWithLiked decorates a post with the viewer's like state.
type PostWithLiked struct {
	types.Post
	Liked bool `json:"liked"`
}

// Feed returns every post, newest first.
// @Summary Get the home feed
// @Description All posts ordered by creation time, newest first
// @Tags posts
// @Produce json
// @Success 200 {object} response.Response "Feed"
// @Router /feed [get]
func Feed(postDir *postdir.Service, feedCache *cache.FeedCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			feed []types.Post
			err  error
		)
		if feedCache != nil {
			feed, err = feedCache.Feed(r.Context())
		} else {
			feed, err = postDir.ListAll(r.Context())
		}
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Feed fetched", feed))
	}
}

// GetPost returns one post with the viewer's like state.
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Response "Post"
// @Failure 404 {object} response.Response "Post not found"
// @Router /posts/{id} [get]
func GetPost(postDir *postdir.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID := r.PathValue("id")
		if postID == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("post ID is required")))
			return
		}

		post, err := postDir.FindByID(r.Context(), postID)
		if err != nil {
			response.WriteJSON(w, response.ErrorStatus(err), response.GeneralError(err))
			return
		}

		liked, err := postDir.HasLiked(r.Context(), postID)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Post fetched", PostWithLiked{Post: *post, Liked: liked}))
	}
}

// UserPosts returns a user's posts, newest first.
// @Summary Get a user's posts
// @Tags posts
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} response.Response "Posts"
// @Router /users/{user_id}/posts [get]
func UserPosts(postDir *postdir.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("user_id")
		if userID == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("user_id is required")))
			return
		}

		mine, err := postDir.ListByUser(r.Context(), userID)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Posts fetched", mine))
	}
}

// CreatePost handles creating a new post
// @Summary Create a new post
// @Description Create a post authored by the logged-in user
// @Tags posts
// @Accept json
// @Produce json
// @Param post body types.PostCreateRequest true "Post content"
// @Success 201 {object} response.Response "Post created"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /posts [post]
func CreatePost(postDir *postdir.Service, feedCache *cache.FeedCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		var req types.PostCreateRequest

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

		post, err := postDir.Create(r.Context(), req)
		if err != nil {
			response.WriteJSON(w, response.ErrorStatus(err), response.GeneralError(err))
			return
		}
		slog.Info("Post created", slog.String("post_id", post.ID), slog.String("user_id", post.UserID))

		if feedCache != nil {
			feedCache.Invalidate(r.Context())
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Post created", post))
	}
}

// ToggleLike flips the viewer's like on a post.
// @Summary Toggle a like
// @Description Like the post, or remove the like if it is already set
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Response "Updated post"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Post not found"
// @Security BearerAuth
// @Router /posts/{id}/like [post]
func ToggleLike(postDir *postdir.Service, feedCache *cache.FeedCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		postID := r.PathValue("id")
		if postID == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("post ID is required")))
			return
		}

		post, err := postDir.ToggleLike(r.Context(), postID)
		if err != nil {
			response.WriteJSON(w, response.ErrorStatus(err), response.GeneralError(err))
			return
		}

		liked, err := postDir.HasLiked(r.Context(), postID)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		if feedCache != nil {
			feedCache.Invalidate(r.Context())
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Like toggled", PostWithLiked{Post: *post, Liked: liked}))
	}
}
