package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spigell/candidate-ranker/internal/candidate"
)

const defaultRedisPrefix = "candidate-ranker"

// Redis keeps every candidate as a JSON document. A sorted set scored by an
// insertion counter holds the creation order and a hash maps filenames to ids.
type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func OpenRedis(cfg *RedisConfig, password string) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return NewRedis(rdb, cfg.Prefix)
}

// NewRedis wraps an existing client. Keys are namespaced by prefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *Redis) recordKey(id string) string { return r.prefix + ":candidate:" + id }
func (r *Redis) orderKey() string          { return r.prefix + ":candidates" }
func (r *Redis) sequenceKey() string       { return r.prefix + ":sequence" }
func (r *Redis) filenamesKey() string      { return r.prefix + ":filenames" }

func (r *Redis) Create(ctx context.Context, c *candidate.Candidate) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	record := c.Clone()
	now := r.now().UTC()

	if record.Filename != "" {
		id, err := r.client.HGet(ctx, r.filenamesKey(), record.Filename).Result()
		switch {
		case err == nil:
			existing, err := r.Get(ctx, id)
			if err == nil {
				record.ID = id
				record.CreatedAt = existing.CreatedAt
				record.UpdatedAt = now
				return id, r.write(ctx, &record)
			}
			if !errors.Is(err, ErrNotFound) {
				return "", err
			}
		case !errors.Is(err, redis.Nil):
			return "", fmt.Errorf("looking up filename %q: %w", record.Filename, err)
		}
	}

	seq, err := r.client.Incr(ctx, r.sequenceKey()).Result()
	if err != nil {
		return "", fmt.Errorf("allocating candidate sequence: %w", err)
	}

	record.ID = newID()
	record.CreatedAt = now
	record.UpdatedAt = now

	payload, err := json.Marshal(record)
	if err != nil {
		return "", err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.recordKey(record.ID), payload, 0)
		pipe.ZAdd(ctx, r.orderKey(), redis.Z{Score: float64(seq), Member: record.ID})
		if record.Filename != "" {
			pipe.HSet(ctx, r.filenamesKey(), record.Filename, record.ID)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("saving candidate %q: %w", record.Name, err)
	}
	return record.ID, nil
}

func (r *Redis) Get(ctx context.Context, id string) (*candidate.Candidate, error) {
	payload, err := r.client.Get(ctx, r.recordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting candidate %s: %w", id, err)
	}
	return decodeRecord(payload)
}

func (r *Redis) Update(ctx context.Context, c *candidate.Candidate) error {
	if err := c.Validate(); err != nil {
		return err
	}

	current, err := r.Get(ctx, c.ID)
	if err != nil {
		return err
	}

	if c.Filename != "" && c.Filename != current.Filename {
		owner, err := r.client.HGet(ctx, r.filenamesKey(), c.Filename).Result()
		switch {
		case err == nil && owner != c.ID:
			return fmt.Errorf("%w: %s", ErrFilenameTaken, c.Filename)
		case err != nil && !errors.Is(err, redis.Nil):
			return fmt.Errorf("looking up filename %q: %w", c.Filename, err)
		}
	}

	record := c.Clone()
	record.CreatedAt = current.CreatedAt
	record.UpdatedAt = r.now().UTC()

	if current.Filename != record.Filename && current.Filename != "" {
		if err := r.client.HDel(ctx, r.filenamesKey(), current.Filename).Err(); err != nil {
			return fmt.Errorf("updating candidate %s: %w", c.ID, err)
		}
	}
	return r.write(ctx, &record)
}

func (r *Redis) write(ctx context.Context, record *candidate.Candidate) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.recordKey(record.ID), payload, 0)
		if record.Filename != "" {
			pipe.HSet(ctx, r.filenamesKey(), record.Filename, record.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving candidate %s: %w", record.ID, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.recordKey(id))
		pipe.ZRem(ctx, r.orderKey(), id)
		if current.Filename != "" {
			pipe.HDel(ctx, r.filenamesKey(), current.Filename)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting candidate %s: %w", id, err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context) ([]*candidate.Candidate, error) {
	return r.Filter(ctx, Query{})
}

// Filter loads every record and applies the query client side.
func (r *Redis) Filter(ctx context.Context, q Query) ([]*candidate.Candidate, error) {
	ids, err := r.client.ZRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	if len(ids) == 0 {
		return []*candidate.Candidate{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.recordKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	result := make([]*candidate.Candidate, 0, len(values))
	for i, v := range values {
		payload, ok := v.(string)
		if !ok {
			// the record vanished between ZRANGE and MGET
			continue
		}
		c, err := decodeRecord([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("decoding candidate %s: %w", ids[i], err)
		}
		if q.Matches(c) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func decodeRecord(payload []byte) (*candidate.Candidate, error) {
	var c candidate.Candidate
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
