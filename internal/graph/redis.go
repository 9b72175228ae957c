package graph

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is the Redis key prefix for connection sets.
const DefaultKeyPrefix = "connections:"

// RedisConnectionStore is a Redis-backed implementation of ConnectionStore.
// Each user's direct connections live in a Redis set under
// "connections:<userID>"; the undirected relation is kept symmetric on write.
type RedisConnectionStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisConnectionStore creates a Redis-backed connection store.
func NewRedisConnectionStore(client *redis.Client) *RedisConnectionStore {
	return &RedisConnectionStore{
		client:    client,
		keyPrefix: DefaultKeyPrefix,
	}
}

func (s *RedisConnectionStore) key(userID string) string {
	return s.keyPrefix + userID
}

// AddConnection records an undirected connection between two users.
// Self-connections are ignored.
func (s *RedisConnectionStore) AddConnection(ctx context.Context, a, b string) error {
	if a == b {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, s.key(a), b)
	pipe.SAdd(ctx, s.key(b), a)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("adding connection %s<->%s: %w", a, b, err)
	}
	return nil
}

// RemoveConnection removes the undirected connection between two users.
func (s *RedisConnectionStore) RemoveConnection(ctx context.Context, a, b string) error {
	pipe := s.client.TxPipeline()
	pipe.SRem(ctx, s.key(a), b)
	pipe.SRem(ctx, s.key(b), a)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("removing connection %s<->%s: %w", a, b, err)
	}
	return nil
}

// ConnectionsOf returns the direct neighbors of each requested ID using one
// pipelined round trip.
func (s *RedisConnectionStore) ConnectionsOf(ctx context.Context, ids []string) (map[string][]string, error) {
	if len(ids) == 0 {
		return map[string][]string{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.StringSliceCmd, len(ids))
	for _, id := range ids {
		cmds[id] = pipe.SMembers(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("reading connection sets: %w", err)
	}

	result := make(map[string][]string, len(ids))
	for id, cmd := range cmds {
		members, err := cmd.Result()
		if err != nil {
			return nil, fmt.Errorf("reading connection set for %s: %w", id, err)
		}
		if len(members) > 0 {
			result[id] = members
		}
	}
	return result, nil
}
