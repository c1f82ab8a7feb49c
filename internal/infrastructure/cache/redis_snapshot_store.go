// Package cache provides the optional month snapshot store. The sync
// agent mirrors the last successfully fetched month here so a restart
// during a backend outage still has data to show, mirroring the old
// client-side cache behavior.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ircomercio/ordens/internal/infrastructure/config"
)

// MonthSnapshot is the cached view of one calendar month
type MonthSnapshot struct {
	Month       int             `json:"month"` // 1-12
	Year        int             `json:"year"`
	Fingerprint string          `json:"fingerprint"`
	Orders      json.RawMessage `json:"orders"`
	SavedAt     time.Time       `json:"savedAt"`
}

// RedisSnapshotStore persists month snapshots in Redis
type RedisSnapshotStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSnapshotStore creates a snapshot store and checks connectivity
func NewRedisSnapshotStore(cfg config.RedisConfig) (*RedisSnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSnapshotStore{
		client:    client,
		keyPrefix: "ordens:snapshot:",
		ttl:       7 * 24 * time.Hour,
	}, nil
}

// NewRedisSnapshotStoreWithClient creates a store with an existing client.
// Useful for tests.
func NewRedisSnapshotStoreWithClient(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		client:    client,
		keyPrefix: "ordens:snapshot:",
		ttl:       7 * 24 * time.Hour,
	}
}

func (s *RedisSnapshotStore) key(month, year int) string {
	return fmt.Sprintf("%s%04d-%02d", s.keyPrefix, year, month)
}

// Save stores the snapshot for its month, replacing any previous one
func (s *RedisSnapshotStore) Save(ctx context.Context, snap *MonthSnapshot) error {
	snap.SavedAt = time.Now()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(snap.Month, snap.Year), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot for the given month, or nil when absent
func (s *RedisSnapshotStore) Load(ctx context.Context, month, year int) (*MonthSnapshot, error) {
	data, err := s.client.Get(ctx, s.key(month, year)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap MonthSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Close closes the Redis client
func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}
