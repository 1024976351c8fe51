package vote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MePrince47/JoeZik/logger"
	"github.com/MePrince47/JoeZik/model"
	"github.com/MePrince47/JoeZik/repository"
)

var (
	// ErrTrackNotFound is returned when the target track does not exist.
	ErrTrackNotFound = errors.New("track not found")
	// ErrUserNotFound is returned when the voting user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Toggler is the surface the HTTP layer depends on.
type Toggler interface {
	ToggleVote(ctx context.Context, trackID, userID int64) (*model.ToggleResult, error)
	Liked(ctx context.Context, userID, trackID int64) (bool, error)
	LikedTracks(ctx context.Context, userID int64) ([]int64, error)
}

// Service implements toggle voting. It is the only writer of
// tracks.vote_score: the ledger change and the score update always commit in
// the same transaction, and the score is recomputed from the ledger rather
// than incremented, so the two cannot diverge.
type Service struct {
	db     *sql.DB
	tracks repository.TrackRepository
	votes  repository.VoteRepository
	users  repository.UserRepository
}

// NewService creates a voting service over the given repositories.
func NewService(db *sql.DB, tracks repository.TrackRepository, votes repository.VoteRepository, users repository.UserRepository) *Service {
	return &Service{db: db, tracks: tracks, votes: votes, users: users}
}

// ToggleVote adds the user's vote on the track, or removes it when one
// already exists. The duplicate-key failure of the insert is what routes a
// concurrent or repeated toggle into the remove branch; there is no
// check-then-insert window.
func (s *Service) ToggleVote(ctx context.Context, trackID, userID int64) (*model.ToggleResult, error) {
	track, err := s.tracks.GetTrackByID(trackID)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, ErrTrackNotFound
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin vote transaction: %w", err)
	}
	defer tx.Rollback()

	action := model.VoteAdded
	if _, err := s.votes.RecordVoteTx(tx, trackID, userID); err != nil {
		if !errors.Is(err, repository.ErrDuplicateVote) {
			return nil, err
		}
		// Already voted: the same toggle removes the vote.
		removed, err := s.votes.RemoveVoteTx(tx, trackID, userID)
		if err != nil {
			return nil, err
		}
		if !removed {
			// The vote vanished between insert and delete; a concurrent
			// toggle won that race, so this call nets out as a removal.
			logger.Warn("vote disappeared during toggle",
				logger.Int64("trackId", trackID), logger.Int64("userId", userID))
		}
		action = model.VoteRemoved
	}

	score, err := refreshScoreTx(ctx, tx, trackID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote transaction: %w", err)
	}

	logger.Info("vote toggled",
		logger.Int64("trackId", trackID),
		logger.Int64("userId", userID),
		logger.String("action", string(action)),
		logger.Int("voteScore", score))

	return &model.ToggleResult{Action: action, VoteScore: score}, nil
}

// refreshScoreTx recomputes a track's score from the ledger inside tx and
// returns the new value.
func refreshScoreTx(ctx context.Context, tx *sql.Tx, trackID int64) (int, error) {
	_, err := tx.ExecContext(ctx,
		"UPDATE tracks SET vote_score = (SELECT COUNT(*) FROM track_votes WHERE track_id = ?) WHERE id = ?",
		trackID, trackID)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh vote score for track %d: %w", trackID, err)
	}

	var score int
	err = tx.QueryRowContext(ctx, "SELECT vote_score FROM tracks WHERE id = ?", trackID).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("failed to read vote score for track %d: %w", trackID, err)
	}
	return score, nil
}

// Liked reports whether the user currently has a vote on the track.
func (s *Service) Liked(ctx context.Context, userID, trackID int64) (bool, error) {
	return s.votes.HasVoted(trackID, userID)
}

// LikedTracks returns the user's liked-track set, derived from the ledger.
func (s *Service) LikedTracks(ctx context.Context, userID int64) ([]int64, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.votes.VotesForUser(userID)
}

// ReconcileScores rewrites every track's vote_score from the ledger. Run from
// the migrate command to repair counters after manual intervention or a
// restore; under normal operation it is a no-op.
func (s *Service) ReconcileScores(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tracks t
		SET t.vote_score = (SELECT COUNT(*) FROM track_votes v WHERE v.track_id = t.id)`)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile vote scores: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows for reconcile: %w", err)
	}
	if affected > 0 {
		logger.Warn("vote scores reconciled from ledger", logger.Int64("tracksUpdated", affected))
	}
	return affected, nil
}
