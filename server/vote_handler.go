package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MePrince47/JoeZik/core/vote"
	"github.com/MePrince47/JoeZik/logger"

	"github.com/gorilla/mux"
)

// VoteTrackHandler handles POST /api/tracks/{id}/vote. The same call adds a
// vote when none exists and removes it otherwise; the response reports which
// happened along with the new score.
func (h *APIHandler) VoteTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == 0 {
		respondError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	result, err := h.voteService.ToggleVote(r.Context(), trackID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, vote.ErrTrackNotFound):
			respondError(w, http.StatusNotFound, "Track not found")
		case errors.Is(err, vote.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		default:
			logger.Error("[Vote] toggle failed",
				logger.Int64("trackId", trackID),
				logger.Int64("userId", req.UserID),
				logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Failed to register vote")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"action":    result.Action,
		"voteScore": result.VoteScore,
	})
}

// UserLikesHandler handles GET /api/users/{id}/likes. With a trackId query
// parameter it answers whether the user likes that track; without one it
// returns the user's whole liked-track set, always derived from the vote
// ledger.
func (h *APIHandler) UserLikesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if trackParam := r.URL.Query().Get("trackId"); trackParam != "" {
		trackID, err := strconv.ParseInt(trackParam, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid track ID")
			return
		}
		liked, err := h.voteService.Liked(r.Context(), userID, trackID)
		if err != nil {
			logger.Error("[Vote] like lookup failed", logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Failed to check like")
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"liked": liked})
		return
	}

	likedTrackIDs, err := h.voteService.LikedTracks(r.Context(), userID)
	if err != nil {
		if errors.Is(err, vote.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("[Vote] liked tracks lookup failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list liked tracks")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"likedTrackIds": likedTrackIDs})
}
