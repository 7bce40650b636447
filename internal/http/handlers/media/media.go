package media

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pixelpal/pixelpal-service/internal/http/middleware"
	mediaService "github.com/pixelpal/pixelpal-service/internal/services/media"
	"github.com/pixelpal/pixelpal-service/internal/utils/response"
)

type MediaHandlers struct {
	mediaService *mediaService.Service
}

type UploadURLRequest struct {
	ContentType string `json:"content_type" validate:"required"`
}

// NewMediaHandlers creates a new media handlers instance
func NewMediaHandlers(svc *mediaService.Service) *MediaHandlers {
	return &MediaHandlers{
		mediaService: svc,
	}
}

// GenerateUploadURL issues a presigned URL for uploading a photo.
// @Summary Generate presigned upload URL
// @Description Generate a presigned URL the client PUTs the photo to; the returned photo_url can be used as a post's image
// @Tags media
// @Accept json
// @Produce json
// @Param request body UploadURLRequest true "Upload URL request"
// @Success 200 {object} response.Response "Upload URL generated"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /media/upload-url [post]
func (h *MediaHandlers) GenerateUploadURL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		var req UploadURLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")))
			return
		}
		if req.ContentType == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("content_type is required")))
			return
		}

		uploadInfo, err := h.mediaService.GeneratePresignedUploadURL(userID, req.ContentType)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Upload URL generated", uploadInfo))
	}
}

// GetPhoto redirects to a short-lived download URL for a stored photo.
// @Summary Download a photo
// @Tags media
// @Param object_key path string true "Object key"
// @Success 307 "Redirect to presigned download URL"
// @Failure 400 {object} response.Response "Bad request"
// @Router /media/{object_key} [get]
func (h *MediaHandlers) GetPhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objectKey := r.PathValue("object_key")
		if objectKey == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("object key is required")))
			return
		}

		url, err := h.mediaService.GeneratePresignedDownloadURL(objectKey, 15*time.Minute)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		http.Redirect(w, r, url.String(), http.StatusTemporaryRedirect)
	}
}
