package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const markerKeyPrefix = "tccprot:delivered:"

// MarkerStore records which processing ids already had their result
// delivered. With at-least-once queue semantics a crash between callback
// and ack replays the whole message; the marker lets the worker skip the
// repeated collaborator call and callback on such replays.
type MarkerStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMarkerStore connects to Redis, supporting password auth.
func NewMarkerStore(addr, password string, db int, ttl time.Duration) (*MarkerStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &MarkerStore{rdb: rdb, ttl: ttl}, nil
}

// MarkDelivered records processingID as delivered. Returns false when the
// marker already existed.
func (s *MarkerStore) MarkDelivered(ctx context.Context, processingID string) (bool, error) {
	set, err := s.rdb.SetNX(ctx, markerKeyPrefix+processingID, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return set, nil
}

// Delivered reports whether processingID already has a delivery marker.
func (s *MarkerStore) Delivered(ctx context.Context, processingID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, markerKeyPrefix+processingID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists failed: %w", err)
	}
	return n > 0, nil
}

// Close releases the connection.
func (s *MarkerStore) Close() error {
	return s.rdb.Close()
}
