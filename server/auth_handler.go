package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MePrince47/JoeZik/core/auth"
	"github.com/MePrince47/JoeZik/logger"
	"github.com/MePrince47/JoeZik/model"
	"github.com/MePrince47/JoeZik/repository"
	"github.com/MePrince47/JoeZik/storage"
)

type contextKey string

const (
	ctxUserID   contextKey = "userID"
	ctxUsername contextKey = "username"
)

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler handles user registration. The form carries username,
// email, password, confirmPassword and an optional avatar image; stored
// passwords are always bcrypt hashes.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil { // 8MB max memory
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	confirmPassword := r.FormValue("confirmPassword")

	if username == "" || email == "" || password == "" || confirmPassword == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if password != confirmPassword {
		respondError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		logger.Error("[Register] failed to hash password", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	// Default avatar; replaced if the form carries one.
	avatarURL := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", email)
	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		objectKey, upErr := storage.UploadObject(r.Context(), h.cfg.MinioBucket, "profiles",
			header.Filename, header.Header.Get("Content-Type"), file, header.Size)
		if upErr != nil {
			// Registration still succeeds with the default avatar.
			logger.Warn("[Register] avatar upload failed", logger.ErrorField(upErr))
		} else {
			avatarURL = "/" + objectKey
		}
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		AvatarURL:    avatarURL,
	}

	userID, err := h.userRepo.CreateUser(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			logger.Warn("[Register] email already in use", logger.String("email", email))
			respondError(w, http.StatusBadRequest, "This email is already in use")
			return
		}
		logger.Error("[Register] failed to create user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.ID = userID

	token, err := h.tokens.GenerateToken(userID, user.Username)
	if err != nil {
		logger.Error("[Register] failed to generate token", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	logger.Info("[Register] user created",
		logger.Int64("userId", userID), logger.String("username", username))

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user.Profile(),
	})
}

// LoginHandler handles user login with email (or username) and password.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var user *model.User
	var err error
	if strings.Contains(req.Email, "@") {
		user, err = h.userRepo.GetUserByEmail(req.Email)
	} else {
		user, err = h.userRepo.GetUserByUsername(req.Email)
	}
	if err != nil {
		logger.Error("[Login] failed to look up user", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("[Login] invalid credentials", logger.String("email", req.Email))
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		logger.Error("[Login] failed to generate token", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("[Login] login successful", logger.String("username", user.Username))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Profile(),
	})
}

// AuthMiddleware checks for a valid bearer token and stores the caller's
// identity in the request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := h.tokens.ParseToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxUsername, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(ctxUserID).(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// GetUsernameFromContext extracts the username from the request context.
func GetUsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value(ctxUsername).(string)
	if !ok {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}
