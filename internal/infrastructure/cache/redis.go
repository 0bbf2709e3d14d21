package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/pkg/config"
)

const ledgerKeyPrefix = "meetmind:ledger:"

// NewRedisClient creates a redis client from configuration and checks connectivity
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.GetRedisAddr(), err)
	}

	return client, nil
}

// ledgerClient is the subset of redis commands the ledger needs
type ledgerClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLedger stores fire-once marks in redis with SETNX.
// Marks survive process restarts until the TTL elapses.
type RedisLedger struct {
	client ledgerClient
	ttl    time.Duration
}

// NewRedisLedger creates a redis-backed ledger
func NewRedisLedger(client ledgerClient, ttl time.Duration) *RedisLedger {
	return &RedisLedger{client: client, ttl: ttl}
}

// TryFire marks the key and reports true when it was not marked before
func (l *RedisLedger) TryFire(ctx context.Context, meetingID uuid.UUID, kind entities.TriggerKind) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(meetingID, kind), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Release un-marks the key so the trigger may fire again
func (l *RedisLedger) Release(ctx context.Context, meetingID uuid.UUID, kind entities.TriggerKind) error {
	if err := l.client.Del(ctx, l.key(meetingID, kind)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (l *RedisLedger) key(meetingID uuid.UUID, kind entities.TriggerKind) string {
	return ledgerKeyPrefix + entities.LedgerKey(meetingID, kind)
}
