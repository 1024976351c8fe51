package server

import (
	"net/http"
	"strconv"

	"github.com/MePrince47/JoeZik/logger"
	"github.com/MePrince47/JoeZik/model"
)

// ChatMessagesHandler handles GET /api/chat?limit=. Clients poll this; the
// response is chronological so they can render top to bottom.
func (h *APIHandler) ChatMessagesHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	messages, err := h.chatRepo.ListMessages(r.Context(), limit)
	if err != nil {
		logger.Error("[Chat] list failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// PostChatMessageHandler handles POST /api/chat. Username and avatar are
// copied onto the message at write time.
func (h *APIHandler) PostChatMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  int64  `json:"userId"`
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == 0 || req.Content == "" {
		respondError(w, http.StatusBadRequest, "User ID and content are required")
		return
	}

	user, err := h.userRepo.GetUserByID(req.UserID)
	if err != nil {
		logger.Error("[Chat] user lookup failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to post message")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	msg := &model.ChatMessage{
		UserID:     user.ID,
		Username:   user.Username,
		UserAvatar: user.AvatarURL,
		Content:    req.Content,
	}
	if err := h.chatRepo.CreateMessage(r.Context(), msg); err != nil {
		logger.Error("[Chat] create failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to post message")
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// DeleteChatMessageHandler handles DELETE /api/chat?id=&userId=. Only the
// author may delete their message.
func (h *APIHandler) DeleteChatMessageHandler(w http.ResponseWriter, r *http.Request) {
	msgParam := r.URL.Query().Get("id")
	userParam := r.URL.Query().Get("userId")
	if msgParam == "" || userParam == "" {
		respondError(w, http.StatusBadRequest, "Message ID and user ID are required")
		return
	}
	msgID, err := strconv.ParseInt(msgParam, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}
	userID, err := strconv.ParseInt(userParam, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	msg, err := h.chatRepo.GetMessage(r.Context(), msgID)
	if err != nil {
		logger.Error("[Chat] get failed", logger.Int64("messageId", msgID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete message")
		return
	}
	if msg == nil {
		respondError(w, http.StatusNotFound, "Message not found")
		return
	}
	if msg.UserID != userID {
		respondError(w, http.StatusForbidden, "You are not allowed to delete this message")
		return
	}

	if err := h.chatRepo.DeleteMessage(r.Context(), msgID); err != nil {
		logger.Error("[Chat] delete failed", logger.Int64("messageId", msgID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete message")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
