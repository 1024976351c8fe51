package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/minio/minio-go/v7"

	"github.com/MePrince47/JoeZik/config"
	"github.com/MePrince47/JoeZik/core/auth"
	"github.com/MePrince47/JoeZik/core/queue"
	"github.com/MePrince47/JoeZik/core/vote"
	"github.com/MePrince47/JoeZik/db"
	"github.com/MePrince47/JoeZik/logger"
	"github.com/MePrince47/JoeZik/repository"
	"github.com/MePrince47/JoeZik/storage"
)

// Start initializes dependencies and runs the HTTP server until SIGINT or
// SIGTERM, then shuts it down gracefully.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
	})
	defer logger.Sync()

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(cfg); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	ensureDirExists(cfg.UploadDir)
	ensureDirExists(cfg.AudioUploadDir)
	ensureDirExists(cfg.AvatarUploadDir)

	userRepo := repository.NewMySQLUserRepository(db.DB)
	trackRepo := repository.NewMySQLTrackRepository(db.DB)
	playlistRepo := repository.NewMySQLPlaylistRepository(db.DB)
	voteRepo := repository.NewMySQLVoteRepository(db.DB)
	chatRepo := repository.NewGormChatRepository(db.GormDB)
	audioRepo := repository.NewMySQLAudioFileRepository(db.DB)

	voteService := vote.NewService(db.DB, trackRepo, voteRepo, userRepo)
	playQueue := queue.New(db.RedisClient)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	apiHandler := NewAPIHandler(userRepo, trackRepo, playlistRepo, voteRepo, chatRepo, audioRepo, voteService, playQueue, tokens, cfg)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Authentication
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)

	// Users
	router.HandleFunc("/api/users", apiHandler.ListUsersHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}", apiHandler.GetUserHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}/points", apiHandler.AuthMiddleware(apiHandler.AddPointsHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/users/{id}/likes", apiHandler.UserLikesHandler).Methods(http.MethodGet)

	// Playlists
	router.HandleFunc("/api/playlists", apiHandler.ListPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", apiHandler.AuthMiddleware(apiHandler.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}", apiHandler.GetPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.UpdatePlaylistHandler)).Methods(http.MethodPatch)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.DeletePlaylistHandler)).Methods(http.MethodDelete)

	// Play queue
	router.HandleFunc("/api/playlists/{id}/queue", apiHandler.GetQueueHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}/queue", apiHandler.AuthMiddleware(apiHandler.AddToQueueHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/queue", apiHandler.AuthMiddleware(apiHandler.RemoveFromQueueHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/queue/order", apiHandler.AuthMiddleware(apiHandler.ReorderQueueHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id}/queue/shuffle", apiHandler.AuthMiddleware(apiHandler.ShuffleQueueHandler)).Methods(http.MethodPost)

	// Tracks
	router.HandleFunc("/api/tracks", apiHandler.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks", apiHandler.AuthMiddleware(apiHandler.CreateTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}", apiHandler.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", apiHandler.AuthMiddleware(apiHandler.UpdateTrackHandler)).Methods(http.MethodPatch)
	router.HandleFunc("/api/tracks/{id}", apiHandler.AuthMiddleware(apiHandler.DeleteTrackHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/tracks/{id}/vote", apiHandler.AuthMiddleware(apiHandler.VoteTrackHandler)).Methods(http.MethodPost)

	// Chat
	router.HandleFunc("/api/chat", apiHandler.ChatMessagesHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/chat", apiHandler.AuthMiddleware(apiHandler.PostChatMessageHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/chat", apiHandler.AuthMiddleware(apiHandler.DeleteChatMessageHandler)).Methods(http.MethodDelete)

	// Audio uploads
	router.HandleFunc("/api/upload", apiHandler.AuthMiddleware(apiHandler.UploadAudioHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/upload", apiHandler.ListAudioFilesHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/upload", apiHandler.AuthMiddleware(apiHandler.DeleteAudioFileHandler)).Methods(http.MethodDelete)

	// Stored objects (uploaded audio, avatars) served straight from MinIO.
	router.PathPrefix("/static/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		objectPath := strings.TrimPrefix(r.URL.Path, "/static/")
		client := storage.GetMinioClient()
		if client == nil {
			http.Error(w, "MinIO client not available", http.StatusInternalServerError)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		object, err := client.GetObject(ctx, cfg.MinioBucket, objectPath, minio.GetObjectOptions{})
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer object.Close()

		var contentType string
		if strings.HasPrefix(objectPath, "audio/") {
			contentType = "audio/mpeg"
		} else if strings.HasPrefix(objectPath, "profiles/") {
			contentType = "image/jpeg"
		} else {
			contentType = "application/octet-stream"
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000")

		if _, err := io.Copy(w, object); err != nil {
			logger.Error("Error serving file from MinIO", logger.String("object", objectPath), logger.ErrorField(err))
		}
	})

	// Local uploads kept as a fallback when MinIO is unreachable.
	uploadsFileServer := http.FileServer(http.Dir(cfg.UploadDir))
	router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", uploadsFileServer))

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

func ensureDirExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("Creating directory", logger.String("path", path))
		if err := os.MkdirAll(path, 0755); err != nil {
			logger.Fatal("Failed to create directory", logger.String("path", path), logger.ErrorField(err))
		}
	} else if err != nil {
		logger.Fatal("Failed to check directory", logger.String("path", path), logger.ErrorField(err))
	}
}
