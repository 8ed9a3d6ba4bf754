// Package redis provides a Redis-backed snapshot store. The shop rotates on
// a fixed schedule, so the snapshot is written with a TTL and simply expires
// with the offers it describes; sessions stay in process memory.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
	"github.com/kiddarkness/itemshop/internal/app/storage"
)

const snapshotKey = "itemshop:catalog:snapshot"

// Store persists the latest catalog snapshot in Redis.
type Store struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ storage.SnapshotStore = (*Store)(nil)

// New connects a snapshot store to the given Redis address. A zero ttl keeps
// snapshots until the next write.
func New(addr, password string, db int, ttl time.Duration) *Store {
	return &Store{
		client: goredis.NewClient(&goredis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Ping verifies connectivity. Called once at startup so a bad address fails
// fast instead of on the first fetch.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) PutSnapshot(ctx context.Context, snap shop.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (s *Store) GetSnapshot(ctx context.Context) (shop.Snapshot, error) {
	payload, err := s.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return shop.Snapshot{}, fmt.Errorf("catalog snapshot not found")
	}
	if err != nil {
		return shop.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snap shop.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return shop.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
