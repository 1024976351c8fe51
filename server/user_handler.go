package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/MePrince47/JoeZik/logger"
	"github.com/MePrince47/JoeZik/model"

	"github.com/gorilla/mux"
)

// ListUsersHandler handles GET /api/users; returns public profiles only.
func (h *APIHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListUsers()
	if err != nil {
		logger.Error("[Users] list failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	profiles := make([]*model.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}
	respondJSON(w, http.StatusOK, profiles)
}

// GetUserHandler handles GET /api/users/{id}.
func (h *APIHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userRepo.GetUserByID(id)
	if err != nil {
		logger.Error("[Users] get failed", logger.Int64("userId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, user.Profile())
}

// AddPointsHandler handles POST /api/users/{id}/points. Points reward
// activity (adding tracks, voting); the delta may be negative.
func (h *APIHandler) AddPointsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		Points *int `json:"points"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Points == nil {
		respondError(w, http.StatusBadRequest, "Points are required (number)")
		return
	}

	newTotal, err := h.userRepo.AddPoints(id, *req.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("[Users] add points failed", logger.Int64("userId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update points")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"points":  newTotal,
	})
}
