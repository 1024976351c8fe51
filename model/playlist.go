package model

import "time"

// Playlist owns a set of tracks forming one shared queue.
type Playlist struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	OwnerID     int64     `json:"ownerId"`
	IsPublic    bool      `json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
}
