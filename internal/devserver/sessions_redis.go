package devserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisConnectTimeout = 5 * time.Second

// ConnectRedis initialises a Redis client and validates connectivity with a
// ping.
func ConnectRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisSessions stores session tokens in Redis with a TTL.
// Key format: session:<token>
type RedisSessions struct {
	client *redis.Client
}

// NewRedisSessions wraps the given Redis client.
func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

func (r *RedisSessions) Create(ctx context.Context, userID string) (string, error) {
	token := newSessionToken()
	if err := r.client.Set(ctx, r.key(token), userID, sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return token, nil
}

func (r *RedisSessions) Get(ctx context.Context, token string) (string, bool, error) {
	userID, err := r.client.Get(ctx, r.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get: %w", err)
	}
	return userID, true, nil
}

func (r *RedisSessions) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}

func (r *RedisSessions) key(token string) string {
	return "session:" + token
}
