package repository

import (
	"database/sql"
	"fmt"

	"github.com/MePrince47/JoeZik/model"
)

// PlaylistRepository defines the interface for playlist data operations.
type PlaylistRepository interface {
	CreatePlaylist(playlist *model.Playlist) (int64, error)
	GetPlaylistByID(id int64) (*model.Playlist, error)
	ListPlaylists() ([]*model.Playlist, error)
	UpdatePlaylist(id int64, updates map[string]interface{}) error
	// DeletePlaylist removes the playlist, its tracks and every vote on those
	// tracks in one transaction. Returns false when the playlist does not exist.
	DeletePlaylist(id int64) (bool, error)
}

// mysqlPlaylistRepository implements PlaylistRepository for MySQL.
type mysqlPlaylistRepository struct {
	db *sql.DB
}

// NewMySQLPlaylistRepository creates a new mysqlPlaylistRepository.
func NewMySQLPlaylistRepository(db *sql.DB) PlaylistRepository {
	return &mysqlPlaylistRepository{db: db}
}

const playlistColumns = "id, title, description, image_url, owner_id, is_public, created_at"

func scanPlaylist(row interface{ Scan(...interface{}) error }) (*model.Playlist, error) {
	p := &model.Playlist{}
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.OwnerID, &p.IsPublic, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePlaylist adds a new playlist.
func (r *mysqlPlaylistRepository) CreatePlaylist(playlist *model.Playlist) (int64, error) {
	query := "INSERT INTO playlists (title, description, image_url, owner_id, is_public) VALUES (?, ?, ?, ?, ?)"
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare create playlist statement: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(playlist.Title, playlist.Description, playlist.ImageURL, playlist.OwnerID, playlist.IsPublic)
	if err != nil {
		return 0, fmt.Errorf("failed to execute create playlist statement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for playlist: %w", err)
	}
	return id, nil
}

// GetPlaylistByID retrieves a playlist by its ID.
func (r *mysqlPlaylistRepository) GetPlaylistByID(id int64) (*model.Playlist, error) {
	row := r.db.QueryRow("SELECT "+playlistColumns+" FROM playlists WHERE id = ?", id)
	playlist, err := scanPlaylist(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Playlist not found
		}
		return nil, fmt.Errorf("failed to scan playlist by ID %d: %w", id, err)
	}
	return playlist, nil
}

// ListPlaylists retrieves all playlists, oldest first.
func (r *mysqlPlaylistRepository) ListPlaylists() ([]*model.Playlist, error) {
	rows, err := r.db.Query("SELECT " + playlistColumns + " FROM playlists ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]*model.Playlist, 0)
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist in ListPlaylists: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListPlaylists: %w", err)
	}
	return playlists, nil
}

var updatablePlaylistColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"imageUrl":    "image_url",
	"isPublic":    "is_public",
}

// UpdatePlaylist applies a partial update.
func (r *mysqlPlaylistRepository) UpdatePlaylist(id int64, updates map[string]interface{}) error {
	setClause := ""
	args := make([]interface{}, 0, len(updates)+1)
	for field, col := range updatablePlaylistColumns {
		if val, ok := updates[field]; ok {
			if setClause != "" {
				setClause += ", "
			}
			setClause += col + " = ?"
			args = append(args, val)
		}
	}
	if setClause == "" {
		return nil
	}
	args = append(args, id)

	_, err := r.db.Exec("UPDATE playlists SET "+setClause+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update playlist ID %d: %w", id, err)
	}
	return nil
}

// DeletePlaylist deletes votes on the playlist's tracks, then the tracks,
// then the playlist, all in one transaction so no orphaned rows remain on
// this delete path either.
func (r *mysqlPlaylistRepository) DeletePlaylist(id int64) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM track_votes WHERE track_id IN (SELECT id FROM tracks WHERE playlist_id = ?)", id); err != nil {
		return false, fmt.Errorf("failed to delete votes for playlist ID %d: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM tracks WHERE playlist_id = ?", id); err != nil {
		return false, fmt.Errorf("failed to delete tracks for playlist ID %d: %w", id, err)
	}

	res, err := tx.Exec("DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete playlist ID %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows for playlist ID %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete for playlist ID %d: %w", id, err)
	}
	return affected > 0, nil
}
