package server

import (
	"net/http"
	"strconv"

	"github.com/MePrince47/JoeZik/logger"
	"github.com/MePrince47/JoeZik/model"

	"github.com/gorilla/mux"
)

// CreatePlaylistRequest represents the playlist creation body.
type CreatePlaylistRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	OwnerID     int64  `json:"ownerId"`
	IsPublic    *bool  `json:"isPublic"`
}

// ListPlaylistsHandler handles GET /api/playlists.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlistRepo.ListPlaylists()
	if err != nil {
		logger.Error("[Playlists] list failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list playlists")
		return
	}
	respondJSON(w, http.StatusOK, playlists)
}

// CreatePlaylistHandler handles POST /api/playlists.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req CreatePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Description == "" || req.OwnerID == 0 {
		respondError(w, http.StatusBadRequest, "Title, description and ownerId are required")
		return
	}

	owner, err := h.userRepo.GetUserByID(req.OwnerID)
	if err != nil {
		logger.Error("[Playlists] owner lookup failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create playlist")
		return
	}
	if owner == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	playlist := &model.Playlist{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		OwnerID:     req.OwnerID,
		IsPublic:    isPublic,
	}

	id, err := h.playlistRepo.CreatePlaylist(playlist)
	if err != nil {
		logger.Error("[Playlists] create failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create playlist")
		return
	}

	created, err := h.playlistRepo.GetPlaylistByID(id)
	if err != nil || created == nil {
		logger.Error("[Playlists] fetch after create failed", logger.Int64("playlistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load created playlist")
		return
	}

	logger.Info("[Playlists] playlist created", logger.Int64("playlistId", id), logger.String("title", created.Title))
	respondJSON(w, http.StatusCreated, created)
}

// GetPlaylistHandler handles GET /api/playlists/{id}.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	playlist, err := h.playlistRepo.GetPlaylistByID(id)
	if err != nil {
		logger.Error("[Playlists] get failed", logger.Int64("playlistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to get playlist")
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return
	}
	respondJSON(w, http.StatusOK, playlist)
}

// UpdatePlaylistHandler handles PATCH /api/playlists/{id}.
func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	var updates map[string]interface{}
	if err := decodeJSON(r, &updates); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	playlist, err := h.playlistRepo.GetPlaylistByID(id)
	if err != nil {
		logger.Error("[Playlists] get failed", logger.Int64("playlistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update playlist")
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	if err := h.playlistRepo.UpdatePlaylist(id, updates); err != nil {
		logger.Error("[Playlists] update failed", logger.Int64("playlistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update playlist")
		return
	}

	updated, err := h.playlistRepo.GetPlaylistByID(id)
	if err != nil {
		logger.Error("[Playlists] fetch after update failed", logger.Int64("playlistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load updated playlist")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeletePlaylistHandler handles DELETE /api/playlists/{id}. Deletion cascades
// to the playlist's tracks and their votes, and drops the play queue.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	deleted, err := h.playlistRepo.DeletePlaylist(id)
	if err != nil {
		logger.Error("[Playlists] delete failed", logger.Int64("playlistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete playlist")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	if h.playQueue != nil {
		if err := h.playQueue.Clear(r.Context(), id); err != nil {
			logger.Warn("[Playlists] failed to clear queue", logger.Int64("playlistId", id), logger.ErrorField(err))
		}
	}

	logger.Info("[Playlists] playlist deleted", logger.Int64("playlistId", id))
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
