package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nbastats/refresher/internal/metrics"
	"nbastats/refresher/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrNoSnapshot indicates no document has been persisted yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// SnapshotStore persists the single stats document in Redis under one
// fixed key. Every write fully replaces the prior value; there is no
// versioning or history, and concurrent writers are last-writer-wins.
type SnapshotStore struct {
	client *redis.Client
	key    string
}

// Config holds Redis connection configuration
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// NewSnapshotStore connects to Redis and verifies the connection
func NewSnapshotStore(ctx context.Context, cfg Config) (*SnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().
		Str("addr", cfg.Addr).
		Str("key", cfg.Key).
		Msg("Successfully connected to snapshot store")

	return &SnapshotStore{
		client: client,
		key:    cfg.Key,
	}, nil
}

// SaveDocument serializes and stores the full document, replacing any
// prior value. No TTL: the snapshot stays valid until the next refresh
// overwrites it.
func (s *SnapshotStore) SaveDocument(ctx context.Context, doc *models.StatsDocument) error {
	start := time.Now()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		metrics.RecordSnapshotOp("set", "error", time.Since(start).Seconds())
		return fmt.Errorf("failed to store document: %w", err)
	}

	metrics.RecordSnapshotOp("set", "ok", time.Since(start).Seconds())
	log.Debug().
		Int("players", len(doc.Players)).
		Int("bytes", len(data)).
		Msg("Snapshot stored")

	return nil
}

// LoadDocument retrieves and deserializes the stored document. A
// missing key is reported as ErrNoSnapshot.
func (s *SnapshotStore) LoadDocument(ctx context.Context) (*models.StatsDocument, error) {
	start := time.Now()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordSnapshotOp("get", "miss", time.Since(start).Seconds())
		return nil, ErrNoSnapshot
	}
	if err != nil {
		metrics.RecordSnapshotOp("get", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	var doc models.StatsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		metrics.RecordSnapshotOp("get", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	metrics.RecordSnapshotOp("get", "ok", time.Since(start).Seconds())
	return &doc, nil
}

// Health verifies the store connection
func (s *SnapshotStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
