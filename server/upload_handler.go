package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MePrince47/JoeZik/logger"
	"github.com/MePrince47/JoeZik/model"
	"github.com/MePrince47/JoeZik/storage"
)

// UploadAudioHandler handles POST /api/upload. The multipart form carries the
// audio file and the uploading user's ID; the bytes go to object storage and
// a metadata row records them.
func (h *APIHandler) UploadAudioHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil { // 64MB max memory
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "File and user ID are required")
		return
	}
	defer file.Close()

	userParam := r.FormValue("userId")
	if userParam == "" {
		respondError(w, http.StatusBadRequest, "File and user ID are required")
		return
	}
	userID, err := strconv.ParseInt(userParam, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userRepo.GetUserByID(userID)
	if err != nil {
		logger.Error("[Upload] user lookup failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "audio/") {
		respondError(w, http.StatusBadRequest, "The file must be an audio file")
		return
	}

	objectKey, err := storage.UploadObject(r.Context(), h.cfg.MinioBucket, "audio",
		header.Filename, contentType, file, header.Size)
	if err != nil {
		logger.Error("[Upload] object upload failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	audioFile := &model.AudioFile{
		Name:       header.Filename,
		Type:       contentType,
		Size:       header.Size,
		ObjectKey:  objectKey,
		FilePath:   "/" + objectKey,
		UploadedBy: userID,
	}
	id, err := h.audioRepo.CreateAudioFile(audioFile)
	if err != nil {
		logger.Error("[Upload] metadata insert failed", logger.ErrorField(err))
		// Don't leave an unreferenced object behind.
		if rmErr := storage.RemoveObject(r.Context(), h.cfg.MinioBucket, objectKey); rmErr != nil {
			logger.Warn("[Upload] failed to remove orphaned object", logger.String("objectKey", objectKey), logger.ErrorField(rmErr))
		}
		respondError(w, http.StatusInternalServerError, "Failed to save file metadata")
		return
	}

	created, err := h.audioRepo.GetAudioFileByID(id)
	if err != nil || created == nil {
		logger.Error("[Upload] fetch after create failed", logger.Int64("fileId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load file metadata")
		return
	}

	logger.Info("[Upload] audio file stored",
		logger.Int64("fileId", id),
		logger.String("name", created.Name),
		logger.Int64("size", created.Size))

	respondJSON(w, http.StatusCreated, created)
}

// ListAudioFilesHandler handles GET /api/upload[?id=|userId=].
func (h *APIHandler) ListAudioFilesHandler(w http.ResponseWriter, r *http.Request) {
	if fileParam := r.URL.Query().Get("id"); fileParam != "" {
		id, err := strconv.ParseInt(fileParam, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid file ID")
			return
		}
		file, err := h.audioRepo.GetAudioFileByID(id)
		if err != nil {
			logger.Error("[Upload] get failed", logger.Int64("fileId", id), logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Failed to get audio file")
			return
		}
		if file == nil {
			respondError(w, http.StatusNotFound, "Audio file not found")
			return
		}
		respondJSON(w, http.StatusOK, file)
		return
	}

	if userParam := r.URL.Query().Get("userId"); userParam != "" {
		userID, err := strconv.ParseInt(userParam, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		files, err := h.audioRepo.ListAudioFilesByUser(userID)
		if err != nil {
			logger.Error("[Upload] list by user failed", logger.Int64("userId", userID), logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Failed to list audio files")
			return
		}
		respondJSON(w, http.StatusOK, files)
		return
	}

	files, err := h.audioRepo.ListAudioFiles()
	if err != nil {
		logger.Error("[Upload] list failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list audio files")
		return
	}
	respondJSON(w, http.StatusOK, files)
}

// DeleteAudioFileHandler handles DELETE /api/upload?id=. Removes the object
// and its metadata row.
func (h *APIHandler) DeleteAudioFileHandler(w http.ResponseWriter, r *http.Request) {
	fileParam := r.URL.Query().Get("id")
	if fileParam == "" {
		respondError(w, http.StatusBadRequest, "File ID is required")
		return
	}
	id, err := strconv.ParseInt(fileParam, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	file, err := h.audioRepo.GetAudioFileByID(id)
	if err != nil {
		logger.Error("[Upload] get failed", logger.Int64("fileId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete audio file")
		return
	}
	if file == nil {
		respondError(w, http.StatusNotFound, "Audio file not found")
		return
	}

	if err := storage.RemoveObject(r.Context(), h.cfg.MinioBucket, file.ObjectKey); err != nil {
		logger.Error("[Upload] object removal failed", logger.String("objectKey", file.ObjectKey), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete audio file")
		return
	}
	if _, err := h.audioRepo.DeleteAudioFile(id); err != nil {
		logger.Error("[Upload] metadata delete failed", logger.Int64("fileId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete file metadata")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
