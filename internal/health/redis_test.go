package health

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisCheckerHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	checker := NewRedisChecker(client)
	if err := checker.HealthCheck(context.Background()); err != nil {
		t.Errorf("expected healthy check, got %v", err)
	}
}

func TestRedisCheckerUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	checker := NewRedisChecker(client)
	if err := checker.HealthCheck(context.Background()); err == nil {
		t.Error("expected error after the Redis server shut down")
	}
}
