package server

import (
	"encoding/json"
	"net/http"

	"github.com/MePrince47/JoeZik/config"
	"github.com/MePrince47/JoeZik/core/auth"
	"github.com/MePrince47/JoeZik/core/queue"
	"github.com/MePrince47/JoeZik/core/vote"
	"github.com/MePrince47/JoeZik/repository"
)

// APIHandler carries the dependencies of every HTTP handler.
type APIHandler struct {
	userRepo     repository.UserRepository
	trackRepo    repository.TrackRepository
	playlistRepo repository.PlaylistRepository
	voteRepo     repository.VoteRepository
	chatRepo     repository.ChatRepository
	audioRepo    repository.AudioFileRepository
	voteService  vote.Toggler
	playQueue    *queue.Queue
	tokens       *auth.TokenIssuer
	cfg          *config.Config
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	trackRepo repository.TrackRepository,
	playlistRepo repository.PlaylistRepository,
	voteRepo repository.VoteRepository,
	chatRepo repository.ChatRepository,
	audioRepo repository.AudioFileRepository,
	voteService vote.Toggler,
	playQueue *queue.Queue,
	tokens *auth.TokenIssuer,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		trackRepo:    trackRepo,
		playlistRepo: playlistRepo,
		voteRepo:     voteRepo,
		chatRepo:     chatRepo,
		audioRepo:    audioRepo,
		voteService:  voteService,
		playQueue:    playQueue,
		tokens:       tokens,
		cfg:          cfg,
	}
}

// decodeJSON decodes a request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// respondJSON writes payload as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes a JSON error body with the given status.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
