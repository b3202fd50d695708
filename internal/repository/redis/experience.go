package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ExploreNcrack/Comput496/internal/repository"
)

func experienceKey(size int, fingerprint uint64) string {
	return "exp:" + strconv.Itoa(size) + ":" + strconv.FormatUint(fingerprint, 16)
}

type experienceValue struct {
	Key   []byte                `json:"key"`
	Stats repository.Experience `json:"stats"`
}

// LoadExperience retrieves the playout stats stored for a position.
func (c *Client) LoadExperience(ctx context.Context, pos repository.Position) (repository.Experience, error) {
	data, err := c.rdb.Get(ctx, experienceKey(pos.Size, pos.Fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get experience: %w", err)
	}
	var v experienceValue
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode experience: %w", err)
	}
	if !pos.Matches(v.Key) {
		return nil, nil
	}
	return v.Stats, nil
}

// SaveExperience stores the playout stats for a position.
func (c *Client) SaveExperience(ctx context.Context, pos repository.Position, exp repository.Experience) error {
	data, err := json.Marshal(experienceValue{Key: pos.Key, Stats: exp})
	if err != nil {
		return fmt.Errorf("encode experience: %w", err)
	}
	if err := c.rdb.Set(ctx, experienceKey(pos.Size, pos.Fingerprint), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set experience: %w", err)
	}
	return nil
}
