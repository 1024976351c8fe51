package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/MePrince47/JoeZik/core/vote"
	"github.com/MePrince47/JoeZik/model"
)

type stubToggler struct {
	result *model.ToggleResult
	err    error

	liked    bool
	likedIDs []int64
	likedErr error

	lastTrackID int64
	lastUserID  int64
}

func (s *stubToggler) ToggleVote(ctx context.Context, trackID, userID int64) (*model.ToggleResult, error) {
	s.lastTrackID = trackID
	s.lastUserID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubToggler) Liked(ctx context.Context, userID, trackID int64) (bool, error) {
	return s.liked, s.likedErr
}

func (s *stubToggler) LikedTracks(ctx context.Context, userID int64) ([]int64, error) {
	if s.likedErr != nil {
		return nil, s.likedErr
	}
	return s.likedIDs, nil
}

func voteTestRouter(toggler vote.Toggler) *mux.Router {
	h := NewAPIHandler(nil, nil, nil, nil, nil, nil, toggler, nil, nil, nil)
	router := mux.NewRouter()
	router.HandleFunc("/api/tracks/{id}/vote", h.VoteTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/users/{id}/likes", h.UserLikesHandler).Methods(http.MethodGet)
	return router
}

func TestVoteTrackHandlerAdds(t *testing.T) {
	toggler := &stubToggler{result: &model.ToggleResult{Action: model.VoteAdded, VoteScore: 4}}
	router := voteTestRouter(toggler)

	body := bytes.NewBufferString(`{"userId": 3}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tracks/7/vote", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if toggler.lastTrackID != 7 || toggler.lastUserID != 3 {
		t.Fatalf("toggler called with track %d user %d", toggler.lastTrackID, toggler.lastUserID)
	}

	var resp struct {
		Success   bool   `json:"success"`
		Action    string `json:"action"`
		VoteScore int    `json:"voteScore"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Action != "added" || resp.VoteScore != 4 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestVoteTrackHandlerRemoves(t *testing.T) {
	toggler := &stubToggler{result: &model.ToggleResult{Action: model.VoteRemoved, VoteScore: 3}}
	router := voteTestRouter(toggler)

	body := bytes.NewBufferString(`{"userId": 3}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tracks/7/vote", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Action    string `json:"action"`
		VoteScore int    `json:"voteScore"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Action != "removed" || resp.VoteScore != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestVoteTrackHandlerMissingUserID(t *testing.T) {
	router := voteTestRouter(&stubToggler{})

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tracks/7/vote", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVoteTrackHandlerInvalidTrackID(t *testing.T) {
	router := voteTestRouter(&stubToggler{})

	body := bytes.NewBufferString(`{"userId": 3}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tracks/abc/vote", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVoteTrackHandlerNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "track not found", err: vote.ErrTrackNotFound},
		{name: "user not found", err: vote.ErrUserNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			router := voteTestRouter(&stubToggler{err: tc.err})

			body := bytes.NewBufferString(`{"userId": 3}`)
			req := httptest.NewRequest(http.MethodPost, "/api/tracks/7/vote", body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", rec.Code)
			}
		})
	}
}

func TestUserLikesHandlerSingleTrack(t *testing.T) {
	router := voteTestRouter(&stubToggler{liked: true})

	req := httptest.NewRequest(http.MethodGet, "/api/users/3/likes?trackId=7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp["liked"] {
		t.Fatalf("expected liked=true, got %+v", resp)
	}
}

func TestUserLikesHandlerFullSet(t *testing.T) {
	router := voteTestRouter(&stubToggler{likedIDs: []int64{4, 9}})

	req := httptest.NewRequest(http.MethodGet, "/api/users/3/likes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		LikedTrackIDs []int64 `json:"likedTrackIds"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.LikedTrackIDs) != 2 || resp.LikedTrackIDs[0] != 4 || resp.LikedTrackIDs[1] != 9 {
		t.Fatalf("unexpected liked track IDs: %v", resp.LikedTrackIDs)
	}
}

func TestUserLikesHandlerUserNotFound(t *testing.T) {
	router := voteTestRouter(&stubToggler{likedErr: vote.ErrUserNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/users/99/likes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
