package repository

import (
	"database/sql"
	"fmt"

	"github.com/MePrince47/JoeZik/model"
)

// TrackSort selects the ordering of a playlist's tracks.
type TrackSort string

const (
	// SortByVotes orders by vote score, highest first. Ties keep insertion
	// order: the auto-increment id is the tiebreak.
	SortByVotes TrackSort = "votes"
	// SortByDate orders by the time the track was added, newest first.
	SortByDate TrackSort = "date"
)

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	CreateTrack(track *model.Track) (int64, error)
	GetTrackByID(id int64) (*model.Track, error)
	ListByPlaylist(playlistID int64, sort TrackSort) ([]*model.Track, error)
	UpdateTrack(id int64, updates map[string]interface{}) error
	// DeleteTrack removes the track and every vote referencing it in one
	// transaction. Returns false when the track does not exist.
	DeleteTrack(id int64) (bool, error)
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	db *sql.DB
}

// NewMySQLTrackRepository creates a new mysqlTrackRepository.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{db: db}
}

const trackColumns = "id, title, artist, cover_url, duration, source, source_url, playlist_id, added_by_id, added_by, vote_score, added_at"

func scanTrack(row interface{ Scan(...interface{}) error }) (*model.Track, error) {
	track := &model.Track{}
	err := row.Scan(&track.ID, &track.Title, &track.Artist, &track.CoverURL,
		&track.Duration, &track.Source, &track.SourceURL, &track.PlaylistID,
		&track.AddedByID, &track.AddedByName, &track.VoteScore, &track.AddedAt)
	if err != nil {
		return nil, err
	}
	return track, nil
}

// CreateTrack adds a new track to the database.
func (r *mysqlTrackRepository) CreateTrack(track *model.Track) (int64, error) {
	query := `INSERT INTO tracks (title, artist, cover_url, duration, source, source_url, playlist_id, added_by_id, added_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreateTrack: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(track.Title, track.Artist, track.CoverURL, track.Duration,
		track.Source, track.SourceURL, track.PlaylistID, track.AddedByID, track.AddedByName)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateTrack: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateTrack: %w", err)
	}
	return id, nil
}

// GetTrackByID retrieves a track by its ID.
func (r *mysqlTrackRepository) GetTrackByID(id int64) (*model.Track, error) {
	row := r.db.QueryRow("SELECT "+trackColumns+" FROM tracks WHERE id = ?", id)
	track, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Track not found
		}
		return nil, fmt.Errorf("failed to scan track by ID %d: %w", id, err)
	}
	return track, nil
}

// ListByPlaylist retrieves a playlist's tracks in queue order.
func (r *mysqlTrackRepository) ListByPlaylist(playlistID int64, sort TrackSort) ([]*model.Track, error) {
	order := "vote_score DESC, id ASC"
	if sort == SortByDate {
		order = "added_at DESC, id DESC"
	}

	query := "SELECT " + trackColumns + " FROM tracks WHERE playlist_id = ? ORDER BY " + order
	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks for playlist ID %d: %w", playlistID, err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track in ListByPlaylist: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListByPlaylist: %w", err)
	}
	return tracks, nil
}

// updatableTrackColumns limits PATCH updates to metadata fields. vote_score is
// owned by the voting service and never writable here.
var updatableTrackColumns = map[string]string{
	"title":     "title",
	"artist":    "artist",
	"coverUrl":  "cover_url",
	"duration":  "duration",
	"sourceUrl": "source_url",
}

// UpdateTrack applies a partial metadata update.
func (r *mysqlTrackRepository) UpdateTrack(id int64, updates map[string]interface{}) error {
	setClause := ""
	args := make([]interface{}, 0, len(updates)+1)
	for field, col := range updatableTrackColumns {
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

	_, err := r.db.Exec("UPDATE tracks SET "+setClause+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update track ID %d: %w", id, err)
	}
	return nil
}

// DeleteTrack deletes the track's votes and the track itself in one
// transaction so no orphaned votes can remain.
func (r *mysqlTrackRepository) DeleteTrack(id int64) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM track_votes WHERE track_id = ?", id); err != nil {
		return false, fmt.Errorf("failed to delete votes for track ID %d: %w", id, err)
	}

	res, err := tx.Exec("DELETE FROM tracks WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete track ID %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows for track ID %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete for track ID %d: %w", id, err)
	}
	return affected > 0, nil
}
