package model

import "time"

// TrackSource tells where a track's audio comes from.
type TrackSource string

const (
	// SourceYouTube marks tracks played through the embedded YouTube player.
	SourceYouTube TrackSource = "youtube"
	// SourceUpload marks tracks backed by an uploaded audio file.
	SourceUpload TrackSource = "upload"
)

// Valid reports whether s is a known track source.
func (s TrackSource) Valid() bool {
	return s == SourceYouTube || s == SourceUpload
}

// Track represents a playable item in a playlist's shared queue.
// VoteScore is a counter over track_votes and is written only by the voting
// service, inside the same transaction as the ledger change.
type Track struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Artist      string      `json:"artist"`
	CoverURL    string      `json:"coverUrl"`
	Duration    int         `json:"duration"` // seconds
	Source      TrackSource `json:"source"`
	SourceURL   string      `json:"sourceUrl"`
	PlaylistID  int64       `json:"playlistId"`
	AddedByID   int64       `json:"addedById"`
	AddedByName string      `json:"addedBy"`
	VoteScore   int         `json:"voteScore"`
	AddedAt     time.Time   `json:"addedAt"`
}
