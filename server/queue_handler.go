package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MePrince47/JoeZik/core/queue"
	"github.com/MePrince47/JoeZik/logger"

	"github.com/gorilla/mux"
)

func playlistIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// GetQueueHandler handles GET /api/playlists/{id}/queue.
func (h *APIHandler) GetQueueHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := playlistIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	items, err := h.playQueue.List(r.Context(), playlistID)
	if err != nil {
		logger.Error("[Queue] list failed", logger.Int64("playlistId", playlistID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to get queue")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// AddToQueueHandler handles POST /api/playlists/{id}/queue. The track must
// belong to the playlist.
func (h *APIHandler) AddToQueueHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := playlistIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	var req struct {
		TrackID int64 `json:"trackId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.TrackID == 0 {
		respondError(w, http.StatusBadRequest, "Track ID is required")
		return
	}

	track, err := h.trackRepo.GetTrackByID(req.TrackID)
	if err != nil {
		logger.Error("[Queue] track lookup failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to queue track")
		return
	}
	if track == nil || track.PlaylistID != playlistID {
		respondError(w, http.StatusNotFound, "Track not found in playlist")
		return
	}

	item := queue.Item{
		TrackID:  track.ID,
		Title:    track.Title,
		Artist:   track.Artist,
		CoverURL: track.CoverURL,
	}
	if err := h.playQueue.Add(r.Context(), playlistID, item); err != nil {
		logger.Error("[Queue] add failed", logger.Int64("trackId", track.ID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to queue track")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// RemoveFromQueueHandler handles DELETE /api/playlists/{id}/queue?trackId=.
func (h *APIHandler) RemoveFromQueueHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := playlistIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}
	trackParam := r.URL.Query().Get("trackId")
	if trackParam == "" {
		respondError(w, http.StatusBadRequest, "Track ID is required")
		return
	}
	trackID, err := strconv.ParseInt(trackParam, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	if err := h.playQueue.Remove(r.Context(), playlistID, trackID); err != nil {
		if errors.Is(err, queue.ErrTrackNotQueued) {
			respondError(w, http.StatusNotFound, "Track not in queue")
			return
		}
		logger.Error("[Queue] remove failed", logger.Int64("trackId", trackID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to remove track from queue")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ShuffleQueueHandler handles POST /api/playlists/{id}/queue/shuffle.
func (h *APIHandler) ShuffleQueueHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := playlistIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	if err := h.playQueue.Shuffle(r.Context(), playlistID); err != nil {
		logger.Error("[Queue] shuffle failed", logger.Int64("playlistId", playlistID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to shuffle queue")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ReorderQueueHandler handles PUT /api/playlists/{id}/queue/order with the
// full track order in the body.
func (h *APIHandler) ReorderQueueHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := playlistIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	var req struct {
		TrackIDs []int64 `json:"trackIds"`
	}
	if err := decodeJSON(r, &req); err != nil || len(req.TrackIDs) == 0 {
		respondError(w, http.StatusBadRequest, "Track IDs are required")
		return
	}

	if err := h.playQueue.SetOrder(r.Context(), playlistID, req.TrackIDs); err != nil {
		logger.Error("[Queue] reorder failed", logger.Int64("playlistId", playlistID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to reorder queue")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
