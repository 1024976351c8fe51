package repository

import (
	"database/sql"
	"fmt"

	"github.com/MePrince47/JoeZik/model"
)

// VoteRepository is the vote ledger: one row per (track, user) pair, the
// source of truth for who voted for what. The unique index on the pair is
// what enforces one-vote-per-user, including under concurrent requests.
type VoteRepository interface {
	HasVoted(trackID, userID int64) (bool, error)
	// RecordVote inserts a vote row. Returns ErrDuplicateVote when the pair
	// already has one.
	RecordVote(trackID, userID int64) (int64, error)
	// RemoveVote deletes the pair's vote row. Returns false when none existed.
	RemoveVote(trackID, userID int64) (bool, error)
	VotesForUser(userID int64) ([]int64, error)
	VotesForTrack(trackID int64) ([]*model.TrackVote, error)
	CountForTrack(trackID int64) (int, error)

	// Transactional variants used by the voting service so the ledger write
	// and the score update commit or roll back together.
	RecordVoteTx(tx *sql.Tx, trackID, userID int64) (int64, error)
	RemoveVoteTx(tx *sql.Tx, trackID, userID int64) (bool, error)
}

// mysqlVoteRepository implements VoteRepository for MySQL.
type mysqlVoteRepository struct {
	db *sql.DB
}

// NewMySQLVoteRepository creates a new mysqlVoteRepository.
func NewMySQLVoteRepository(db *sql.DB) VoteRepository {
	return &mysqlVoteRepository{db: db}
}

// HasVoted reports whether the user has an active vote on the track.
func (r *mysqlVoteRepository) HasVoted(trackID, userID int64) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM track_votes WHERE track_id = ? AND user_id = ?",
		trackID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check vote for track %d user %d: %w", trackID, userID, err)
	}
	return count > 0, nil
}

func recordVote(ex interface {
	Exec(string, ...interface{}) (sql.Result, error)
}, trackID, userID int64) (int64, error) {
	res, err := ex.Exec("INSERT INTO track_votes (track_id, user_id) VALUES (?, ?)", trackID, userID)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrDuplicateVote
		}
		return 0, fmt.Errorf("failed to insert vote for track %d user %d: %w", trackID, userID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for vote: %w", err)
	}
	return id, nil
}

func removeVote(ex interface {
	Exec(string, ...interface{}) (sql.Result, error)
}, trackID, userID int64) (bool, error) {
	res, err := ex.Exec("DELETE FROM track_votes WHERE track_id = ? AND user_id = ?", trackID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete vote for track %d user %d: %w", trackID, userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows for vote delete: %w", err)
	}
	return affected > 0, nil
}

// RecordVote inserts a vote row outside any transaction.
func (r *mysqlVoteRepository) RecordVote(trackID, userID int64) (int64, error) {
	return recordVote(r.db, trackID, userID)
}

// RemoveVote deletes a vote row outside any transaction.
func (r *mysqlVoteRepository) RemoveVote(trackID, userID int64) (bool, error) {
	return removeVote(r.db, trackID, userID)
}

// RecordVoteTx inserts a vote row inside tx.
func (r *mysqlVoteRepository) RecordVoteTx(tx *sql.Tx, trackID, userID int64) (int64, error) {
	return recordVote(tx, trackID, userID)
}

// RemoveVoteTx deletes a vote row inside tx.
func (r *mysqlVoteRepository) RemoveVoteTx(tx *sql.Tx, trackID, userID int64) (bool, error) {
	return removeVote(tx, trackID, userID)
}

// VotesForUser returns the IDs of every track the user currently has a vote
// on. This is the liked-track set; it is always derived from the ledger, never
// cached on the user row.
func (r *mysqlVoteRepository) VotesForUser(userID int64) ([]int64, error) {
	rows, err := r.db.Query("SELECT track_id FROM track_votes WHERE user_id = ? ORDER BY voted_at", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes for user %d: %w", userID, err)
	}
	defer rows.Close()

	trackIDs := make([]int64, 0)
	for rows.Next() {
		var trackID int64
		if err := rows.Scan(&trackID); err != nil {
			return nil, fmt.Errorf("failed to scan track ID in VotesForUser: %w", err)
		}
		trackIDs = append(trackIDs, trackID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in VotesForUser: %w", err)
	}
	return trackIDs, nil
}

// VotesForTrack returns all vote rows for a track.
func (r *mysqlVoteRepository) VotesForTrack(trackID int64) ([]*model.TrackVote, error) {
	rows, err := r.db.Query("SELECT id, track_id, user_id, voted_at FROM track_votes WHERE track_id = ? ORDER BY voted_at", trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes for track %d: %w", trackID, err)
	}
	defer rows.Close()

	votes := make([]*model.TrackVote, 0)
	for rows.Next() {
		vote := &model.TrackVote{}
		if err := rows.Scan(&vote.ID, &vote.TrackID, &vote.UserID, &vote.VotedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote in VotesForTrack: %w", err)
		}
		votes = append(votes, vote)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in VotesForTrack: %w", err)
	}
	return votes, nil
}

// CountForTrack counts the active votes on a track.
func (r *mysqlVoteRepository) CountForTrack(trackID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM track_votes WHERE track_id = ?", trackID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes for track %d: %w", trackID, err)
	}
	return count, nil
}
