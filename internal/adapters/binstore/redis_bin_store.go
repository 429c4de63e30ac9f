package binstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/obs"
)

// Redis-backed bin set store. The whole set lives as a JSON array
// under one fixed key so two independent front ends observe the same
// state; concurrent writers race last-write-wins.
type RedisBinStore struct {
	Client *redis.Client
	Key    string
}

func NewRedisBinStore(client *redis.Client, key string) (*RedisBinStore, error) {
	if client == nil {
		return nil, errors.New("bin store: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("bin store: key must not be empty")
	}
	return &RedisBinStore{Client: client, Key: key}, nil
}

// Load reads the persisted set. A missing key is a first run and
// yields an empty set; an undecodable payload yields an empty set and
// domain.ErrStorageCorrupt rather than failing destructively.
func (s *RedisBinStore) Load(ctx context.Context) (_ []domain.BinRecord, err error) {
	defer obs.Time(ctx, "binstore.redis.Load")(&err)

	payload, err := s.Client.Get(ctx, s.Key).Result()
	if errors.Is(err, redis.Nil) {
		return []domain.BinRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load bin set: redis get %q: %w", s.Key, err)
	}

	var bins []domain.BinRecord
	if err := json.Unmarshal([]byte(payload), &bins); err != nil {
		return []domain.BinRecord{}, fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, err)
	}
	if bins == nil {
		bins = []domain.BinRecord{}
	}

	return bins, nil
}

// Save persists the full set, replacing any previous value.
func (s *RedisBinStore) Save(ctx context.Context, bins []domain.BinRecord) (err error) {
	defer obs.Time(ctx, "binstore.redis.Save")(&err)

	if bins == nil {
		bins = []domain.BinRecord{}
	}

	payload, err := json.Marshal(bins)
	if err != nil {
		return fmt.Errorf("save bin set: marshal: %w", err)
	}

	if err := s.Client.Set(ctx, s.Key, payload, 0).Err(); err != nil {
		return fmt.Errorf("save bin set: redis set %q: %w", s.Key, err)
	}

	return nil
}
