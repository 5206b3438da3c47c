package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "redblock:stats"

// RedisStore keeps the snapshot in a Redis hash so several instances can
// share one persisted total.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to the Redis server at url.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL %q: %w", url, err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, key: defaultRedisKey}, nil
}

// Load reads the hash. Missing fields count as zero.
func (s *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Snapshot{}, fmt.Errorf("load stats: %w", err)
	}

	var snap Snapshot
	for name, dst := range map[string]*uint64{
		"requests": &snap.Requests,
		"blocks":   &snap.Blocks,
		"passes":   &snap.Passes,
	} {
		v, ok := fields[name]
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode stats field %s: %w", name, err)
		}
		*dst = n
	}
	return snap, nil
}

// Save writes all three fields in one HSET.
func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	err := s.client.HSet(ctx, s.key,
		"requests", snap.Requests,
		"blocks", snap.Blocks,
		"passes", snap.Passes,
	).Err()
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
