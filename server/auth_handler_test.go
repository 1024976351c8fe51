package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MePrince47/JoeZik/core/auth"
	"github.com/MePrince47/JoeZik/model"
)

type stubUserRepository struct {
	byEmail    *model.User
	byUsername *model.User

	createdID   int64
	createdUser *model.User
	createErr   error

	users []*model.User

	points    int
	pointsErr error
}

func (s *stubUserRepository) CreateUser(user *model.User) (int64, error) {
	s.createdUser = user
	if s.createErr != nil {
		return 0, s.createErr
	}
	return s.createdID, nil
}

func (s *stubUserRepository) GetUserByID(id int64) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepository) GetUserByEmail(string) (*model.User, error)    { return s.byEmail, nil }
func (s *stubUserRepository) GetUserByUsername(string) (*model.User, error) { return s.byUsername, nil }
func (s *stubUserRepository) ListUsers() ([]*model.User, error)             { return s.users, nil }
func (s *stubUserRepository) AddPoints(int64, int) (int, error) {
	return s.points, s.pointsErr
}

func loginRequest(email, password string) *http.Request {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	return httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
}

func TestLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	users := &stubUserRepository{
		byEmail: &model.User{ID: 3, Username: "alice", Email: "alice@example.com", PasswordHash: hash},
	}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := NewAPIHandler(users, nil, nil, nil, nil, nil, nil, nil, tokens, nil)

	rec := httptest.NewRecorder()
	h.LoginHandler(rec, loginRequest("alice@example.com", "secret123"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the response")
	}
	if resp.User.ID != 3 || resp.User.Username != "alice" {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}

	claims, err := tokens.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != 3 {
		t.Fatalf("token carries user ID %d, want 3", claims.UserID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	users := &stubUserRepository{
		byEmail: &model.User{ID: 3, Username: "alice", Email: "alice@example.com", PasswordHash: hash},
	}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := NewAPIHandler(users, nil, nil, nil, nil, nil, nil, nil, tokens, nil)

	rec := httptest.NewRecorder()
	h.LoginHandler(rec, loginRequest("alice@example.com", "wrong"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := NewAPIHandler(&stubUserRepository{}, nil, nil, nil, nil, nil, nil, nil, tokens, nil)

	rec := httptest.NewRecorder()
	h.LoginHandler(rec, loginRequest("nobody@example.com", "secret123"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginByUsername(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	// No "@" in the identifier routes the lookup through usernames.
	users := &stubUserRepository{
		byUsername: &model.User{ID: 3, Username: "alice", PasswordHash: hash},
	}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := NewAPIHandler(users, nil, nil, nil, nil, nil, nil, nil, tokens, nil)

	rec := httptest.NewRecorder()
	h.LoginHandler(rec, loginRequest("alice", "secret123"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := NewAPIHandler(nil, nil, nil, nil, nil, nil, nil, nil, tokens, nil)

	var gotUserID int64
	protected := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		if err != nil {
			t.Fatalf("GetUserIDFromContext error: %v", err)
		}
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	})

	token, err := tokens.GenerateToken(3, "alice")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", authHeader: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer garbage", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			protected(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}

	if gotUserID != 3 {
		t.Fatalf("expected user ID 3 from context, got %d", gotUserID)
	}
}
