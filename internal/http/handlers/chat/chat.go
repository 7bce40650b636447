// Package chat serves the mock messaging endpoints. As with posts, the
// bearer token only gates the request; the viewer is whoever holds the
// single current-user session record.
package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pixelpal/pixelpal-service/internal/http/middleware"
	chatsvc "github.com/pixelpal/pixelpal-service/internal/services/chat"
	"github.com/pixelpal/pixelpal-service/internal/types"
	"github.com/pixelpal/pixelpal-service/internal/utils/response"
)

// Conversations lists the viewer's chat threads.
// @Summary List conversations
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Conversations"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /conversations [get]
func Conversations(chat *chatsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		convs, err := chat.Conversations(r.Context())
		if err != nil {
			response.WriteJSON(w, response.ErrorStatus(err), response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Conversations fetched", convs))
	}
}

// Messages returns the thread with one peer, oldest first.
// @Summary List messages with a peer
// @Tags chat
// @Produce json
// @Param peer_id path string true "Peer user ID"
// @Security BearerAuth
// @Success 200 {object} response.Response "Messages"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Peer not found"
// @Router /conversations/{peer_id}/messages [get]
func Messages(chat *chatsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		peerID := r.PathValue("peer_id")
		if peerID == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("peer_id is required")))
			return
		}

		msgs, err := chat.Messages(r.Context(), peerID)
		if err != nil {
			response.WriteJSON(w, response.ErrorStatus(err), response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Messages fetched", msgs))
	}
}

// Send appends a message to the thread with a peer.
// @Summary Send a message
// @Tags chat
// @Accept json
// @Produce json
// @Param peer_id path string true "Peer user ID"
// @Param message body types.MessageSendRequest true "Message content"
// @Security BearerAuth
// @Success 201 {object} response.Response "Message sent"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Peer not found"
// @Router /conversations/{peer_id}/messages [post]
func Send(chat *chatsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		peerID := r.PathValue("peer_id")
		if peerID == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("peer_id is required")))
			return
		}

		var req types.MessageSendRequest
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

		msg, err := chat.Send(r.Context(), peerID, req.Content)
		if err != nil {
			response.WriteJSON(w, response.ErrorStatus(err), response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Message sent", msg))
	}
}
