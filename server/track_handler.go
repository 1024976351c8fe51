package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MePrince47/JoeZik/logger"
	"github.com/MePrince47/JoeZik/model"
	"github.com/MePrince47/JoeZik/repository"

	"github.com/gorilla/mux"
)

// CreateTrackRequest represents the track creation body.
type CreateTrackRequest struct {
	Title      string            `json:"title"`
	Artist     string            `json:"artist"`
	CoverURL   string            `json:"coverUrl"`
	Duration   int               `json:"duration"`
	Source     model.TrackSource `json:"source"`
	SourceURL  string            `json:"sourceUrl"`
	PlaylistID int64             `json:"playlistId"`
	AddedByID  int64             `json:"addedById"`
	AddedBy    string            `json:"addedBy"`
}

// missingFields lists which required creation fields are absent.
func (req *CreateTrackRequest) missingFields() []string {
	var missing []string
	if req.Title == "" {
		missing = append(missing, "title")
	}
	if req.Artist == "" {
		missing = append(missing, "artist")
	}
	if req.CoverURL == "" {
		missing = append(missing, "coverUrl")
	}
	if req.Duration <= 0 {
		missing = append(missing, "duration")
	}
	if req.Source == "" {
		missing = append(missing, "source")
	}
	if req.SourceURL == "" {
		missing = append(missing, "sourceUrl")
	}
	if req.PlaylistID == 0 {
		missing = append(missing, "playlistId")
	}
	if req.AddedByID == 0 {
		missing = append(missing, "addedById")
	}
	if req.AddedBy == "" {
		missing = append(missing, "addedBy")
	}
	return missing
}

// GetTracksHandler handles GET /api/tracks?playlistId=&sortBy=votes|date.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	playlistParam := r.URL.Query().Get("playlistId")
	if playlistParam == "" {
		respondError(w, http.StatusBadRequest, "playlistId is required")
		return
	}
	playlistID, err := strconv.ParseInt(playlistParam, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	sort := repository.SortByVotes
	if r.URL.Query().Get("sortBy") == string(repository.SortByDate) {
		sort = repository.SortByDate
	}

	tracks, err := h.trackRepo.ListByPlaylist(playlistID, sort)
	if err != nil {
		logger.Error("[Tracks] list failed", logger.Int64("playlistId", playlistID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list tracks")
		return
	}
	respondJSON(w, http.StatusOK, tracks)
}

// CreateTrackHandler handles POST /api/tracks.
func (h *APIHandler) CreateTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if missing := req.missingFields(); len(missing) > 0 {
		respondError(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}
	if !req.Source.Valid() {
		respondError(w, http.StatusBadRequest, "Source must be 'youtube' or 'upload'")
		return
	}

	playlist, err := h.playlistRepo.GetPlaylistByID(req.PlaylistID)
	if err != nil {
		logger.Error("[Tracks] playlist lookup failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create track")
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return
	}

	track := &model.Track{
		Title:       req.Title,
		Artist:      req.Artist,
		CoverURL:    req.CoverURL,
		Duration:    req.Duration,
		Source:      req.Source,
		SourceURL:   req.SourceURL,
		PlaylistID:  req.PlaylistID,
		AddedByID:   req.AddedByID,
		AddedByName: req.AddedBy,
	}

	id, err := h.trackRepo.CreateTrack(track)
	if err != nil {
		logger.Error("[Tracks] create failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create track")
		return
	}

	created, err := h.trackRepo.GetTrackByID(id)
	if err != nil || created == nil {
		logger.Error("[Tracks] fetch after create failed", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load created track")
		return
	}

	logger.Info("[Tracks] track created",
		logger.Int64("trackId", id),
		logger.String("title", created.Title),
		logger.Int64("playlistId", created.PlaylistID))

	respondJSON(w, http.StatusCreated, created)
}

// GetTrackHandler handles GET /api/tracks/{id}.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	track, err := h.trackRepo.GetTrackByID(id)
	if err != nil {
		logger.Error("[Tracks] get failed", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to get track")
		return
	}
	if track == nil {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}
	respondJSON(w, http.StatusOK, track)
}

// UpdateTrackHandler handles PATCH /api/tracks/{id}. Only metadata fields are
// writable; vote scores belong to the voting service.
func (h *APIHandler) UpdateTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	var updates map[string]interface{}
	if err := decodeJSON(r, &updates); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	track, err := h.trackRepo.GetTrackByID(id)
	if err != nil {
		logger.Error("[Tracks] get failed", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update track")
		return
	}
	if track == nil {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	if err := h.trackRepo.UpdateTrack(id, updates); err != nil {
		logger.Error("[Tracks] update failed", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update track")
		return
	}

	updated, err := h.trackRepo.GetTrackByID(id)
	if err != nil {
		logger.Error("[Tracks] fetch after update failed", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load updated track")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteTrackHandler handles DELETE /api/tracks/{id}. Deletion cascades to
// the track's votes and drops it from the play queue.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	track, err := h.trackRepo.GetTrackByID(id)
	if err != nil {
		logger.Error("[Tracks] get failed", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete track")
		return
	}
	if track == nil {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	deleted, err := h.trackRepo.DeleteTrack(id)
	if err != nil {
		logger.Error("[Tracks] delete failed", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete track")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	// Queue state is ephemeral; a failure here doesn't undo the delete.
	if h.playQueue != nil {
		if err := h.playQueue.Remove(r.Context(), track.PlaylistID, id); err != nil {
			logger.Debug("[Tracks] track not in queue on delete", logger.Int64("trackId", id))
		}
	}

	logger.Info("[Tracks] track deleted", logger.Int64("trackId", id))
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
