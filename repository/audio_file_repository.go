package repository

import (
	"database/sql"
	"fmt"

	"github.com/MePrince47/JoeZik/model"
)

// AudioFileRepository defines the interface for uploaded audio metadata.
type AudioFileRepository interface {
	CreateAudioFile(file *model.AudioFile) (int64, error)
	GetAudioFileByID(id int64) (*model.AudioFile, error)
	ListAudioFiles() ([]*model.AudioFile, error)
	ListAudioFilesByUser(userID int64) ([]*model.AudioFile, error)
	DeleteAudioFile(id int64) (bool, error)
}

// mysqlAudioFileRepository implements AudioFileRepository for MySQL.
type mysqlAudioFileRepository struct {
	db *sql.DB
}

// NewMySQLAudioFileRepository creates a new mysqlAudioFileRepository.
func NewMySQLAudioFileRepository(db *sql.DB) AudioFileRepository {
	return &mysqlAudioFileRepository{db: db}
}

const audioFileColumns = "id, name, type, size, object_key, file_path, uploaded_at, uploaded_by"

func scanAudioFile(row interface{ Scan(...interface{}) error }) (*model.AudioFile, error) {
	f := &model.AudioFile{}
	err := row.Scan(&f.ID, &f.Name, &f.Type, &f.Size, &f.ObjectKey, &f.FilePath, &f.UploadedAt, &f.UploadedBy)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateAudioFile stores uploaded file metadata.
func (r *mysqlAudioFileRepository) CreateAudioFile(file *model.AudioFile) (int64, error) {
	query := "INSERT INTO audio_files (name, type, size, object_key, file_path, uploaded_by) VALUES (?, ?, ?, ?, ?, ?)"
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare create audio file statement: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(file.Name, file.Type, file.Size, file.ObjectKey, file.FilePath, file.UploadedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to execute create audio file statement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for audio file: %w", err)
	}
	return id, nil
}

// GetAudioFileByID retrieves file metadata by ID.
func (r *mysqlAudioFileRepository) GetAudioFileByID(id int64) (*model.AudioFile, error) {
	row := r.db.QueryRow("SELECT "+audioFileColumns+" FROM audio_files WHERE id = ?", id)
	file, err := scanAudioFile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // File not found
		}
		return nil, fmt.Errorf("failed to scan audio file by ID %d: %w", id, err)
	}
	return file, nil
}

func (r *mysqlAudioFileRepository) queryAudioFiles(query string, args ...interface{}) ([]*model.AudioFile, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audio files: %w", err)
	}
	defer rows.Close()

	files := make([]*model.AudioFile, 0)
	for rows.Next() {
		file, err := scanAudioFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audio file row: %w", err)
		}
		files = append(files, file)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during audio file rows iteration: %w", err)
	}
	return files, nil
}

// ListAudioFiles retrieves all uploaded files, newest first.
func (r *mysqlAudioFileRepository) ListAudioFiles() ([]*model.AudioFile, error) {
	return r.queryAudioFiles("SELECT " + audioFileColumns + " FROM audio_files ORDER BY uploaded_at DESC")
}

// ListAudioFilesByUser retrieves a user's uploads, newest first.
func (r *mysqlAudioFileRepository) ListAudioFilesByUser(userID int64) ([]*model.AudioFile, error) {
	return r.queryAudioFiles("SELECT "+audioFileColumns+" FROM audio_files WHERE uploaded_by = ? ORDER BY uploaded_at DESC", userID)
}

// DeleteAudioFile removes file metadata. Returns false when absent.
func (r *mysqlAudioFileRepository) DeleteAudioFile(id int64) (bool, error) {
	res, err := r.db.Exec("DELETE FROM audio_files WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete audio file ID %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows for audio file delete: %w", err)
	}
	return affected > 0, nil
}
