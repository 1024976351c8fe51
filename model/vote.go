package model

import "time"

// TrackVote is one user's like on one track. The (TrackID, UserID) pair is
// unique at the database level; votes are created and deleted by the toggle
// action, never updated in place.
type TrackVote struct {
	ID      int64     `json:"id"`
	TrackID int64     `json:"trackId"`
	UserID  int64     `json:"userId"`
	VotedAt time.Time `json:"votedAt"`
}

// VoteAction names what a toggle did.
type VoteAction string

const (
	// VoteAdded means the toggle created a new vote.
	VoteAdded VoteAction = "added"
	// VoteRemoved means the toggle deleted an existing vote.
	VoteRemoved VoteAction = "removed"
)

// ToggleResult is returned by the voting service after a toggle.
type ToggleResult struct {
	Action    VoteAction `json:"action"`
	VoteScore int        `json:"voteScore"`
}
