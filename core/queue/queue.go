package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrTrackNotQueued is returned when removing a track that isn't in the queue.
var ErrTrackNotQueued = errors.New("track not in queue")

// Item is one entry in a playlist's shared play queue.
type Item struct {
	TrackID  int64  `json:"trackId"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	CoverURL string `json:"coverUrl"`
	Position int    `json:"position"`
}

// Queue stores the shared play order of each playlist in a Redis sorted set,
// one set per playlist, scored by position. It is ephemeral state: the
// catalog in MySQL stays authoritative and queues expire when idle.
type Queue struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Queue over the given Redis client.
func New(client *redis.Client) *Queue {
	return &Queue{client: client, ttl: 24 * time.Hour}
}

func queueKey(playlistID int64) string {
	return fmt.Sprintf("queue:%d", playlistID)
}

// Add appends a track to the end of a playlist's queue.
func (q *Queue) Add(ctx context.Context, playlistID int64, item Item) error {
	items, err := q.List(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to get current queue: %w", err)
	}

	item.Position = 0
	if len(items) > 0 {
		item.Position = items[len(items)-1].Position + 1
	}

	itemJSON, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}

	key := queueKey(playlistID)
	if err := q.client.ZAdd(ctx, key, &redis.Z{
		Score:  float64(item.Position),
		Member: itemJSON,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add track to queue: %w", err)
	}

	if err := q.client.Expire(ctx, key, q.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set queue expiration: %w", err)
	}
	return nil
}

// List returns a playlist's queue in play order.
func (q *Queue) List(ctx context.Context, playlistID int64) ([]Item, error) {
	result, err := q.client.ZRangeByScore(ctx, queueKey(playlistID), &redis.ZRangeBy{
		Min: "-inf",
		Max: "+inf",
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("failed to get queue: %w", err)
	}

	items := make([]Item, 0, len(result))
	for _, itemJSON := range result {
		var item Item
		if err := json.Unmarshal([]byte(itemJSON), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queue item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Remove deletes a track from the queue and compacts the remaining positions.
func (q *Queue) Remove(ctx context.Context, playlistID, trackID int64) error {
	items, err := q.List(ctx, playlistID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.TrackID != trackID {
			continue
		}
		itemJSON, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal queue item: %w", err)
		}
		if err := q.client.ZRem(ctx, queueKey(playlistID), itemJSON).Err(); err != nil {
			return fmt.Errorf("failed to remove track from queue: %w", err)
		}
		return q.reorder(ctx, playlistID)
	}
	return ErrTrackNotQueued
}

// Clear empties a playlist's queue.
func (q *Queue) Clear(ctx context.Context, playlistID int64) error {
	if err := q.client.Del(ctx, queueKey(playlistID)).Err(); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}

// SetOrder rewrites the queue in the given track order. Tracks not currently
// queued are ignored.
func (q *Queue) SetOrder(ctx context.Context, playlistID int64, trackIDs []int64) error {
	items, err := q.List(ctx, playlistID)
	if err != nil {
		return err
	}

	itemMap := make(map[int64]Item, len(items))
	for _, item := range items {
		itemMap[item.TrackID] = item
	}

	if err := q.Clear(ctx, playlistID); err != nil {
		return err
	}

	key := queueKey(playlistID)
	pos := 0
	for _, trackID := range trackIDs {
		item, exists := itemMap[trackID]
		if !exists {
			continue
		}
		item.Position = pos
		itemJSON, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal queue item: %w", err)
		}
		if err := q.client.ZAdd(ctx, key, &redis.Z{
			Score:  float64(item.Position),
			Member: itemJSON,
		}).Err(); err != nil {
			return fmt.Errorf("failed to add track to reordered queue: %w", err)
		}
		pos++
	}

	if err := q.client.Expire(ctx, key, q.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set queue expiration: %w", err)
	}
	return nil
}

// Shuffle randomizes the queue order.
func (q *Queue) Shuffle(ctx context.Context, playlistID int64) error {
	items, err := q.List(ctx, playlistID)
	if err != nil {
		return err
	}
	if len(items) <= 1 {
		return nil
	}

	trackIDs := make([]int64, len(items))
	for i, item := range items {
		trackIDs[i] = item.TrackID
	}
	rand.Shuffle(len(trackIDs), func(i, j int) {
		trackIDs[i], trackIDs[j] = trackIDs[j], trackIDs[i]
	})

	return q.SetOrder(ctx, playlistID, trackIDs)
}

// reorder compacts positions to 0..n-1 after a removal.
func (q *Queue) reorder(ctx context.Context, playlistID int64) error {
	items, err := q.List(ctx, playlistID)
	if err != nil {
		return err
	}

	key := queueKey(playlistID)
	if err := q.client.Del(ctx, key).Err(); err != nil {
		return err
	}

	for i, item := range items {
		item.Position = i
		itemJSON, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if err := q.client.ZAdd(ctx, key, &redis.Z{
			Score:  float64(i),
			Member: itemJSON,
		}).Err(); err != nil {
			return err
		}
	}
	return nil
}
