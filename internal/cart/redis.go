package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPersistence stores the cart blob at todecor_cart:<session>. SET
// overwrites the whole value, so concurrent tabs on the same session remain
// last-write-wins, same as the file adapter.
type RedisPersistence struct {
	client    *redis.Client
	sessionID string
}

func NewRedisPersistence(client *redis.Client, sessionID string) *RedisPersistence {
	return &RedisPersistence{client: client, sessionID: sessionID}
}

func (r *RedisPersistence) Load() ([]Line, error) {
	data, err := r.client.Get(context.Background(), r.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key(), err)
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.key(), err)
	}
	return lines, nil
}

func (r *RedisPersistence) Save(lines []Line) error {
	blob, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.key(), err)
	}
	if err := r.client.Set(context.Background(), r.key(), blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key(), err)
	}
	return nil
}

func (r *RedisPersistence) key() string {
	return fmt.Sprintf("%s:%s", StorageKey, r.sessionID)
}
