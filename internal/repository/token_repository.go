package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenRepo keeps issued refresh tokens in redis with a TTL matching
// their lifetime. A token missing from the store is revoked or expired.
type RedisTokenRepo struct {
	client *redis.Client
}

func NewRedisTokenRepo(client *redis.Client) *RedisTokenRepo {
	return &RedisTokenRepo{client: client}
}

func (r *RedisTokenRepo) SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error {
	return r.client.Set(ctx, refreshTokenKey(userID, token), "1", exp).Err()
}

func (r *RedisTokenRepo) GetRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	val, err := r.client.Get(ctx, refreshTokenKey(userID, token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	return val == "1", err
}

func (r *RedisTokenRepo) DeleteRefreshToken(ctx context.Context, userID, token string) error {
	return r.client.Del(ctx, refreshTokenKey(userID, token)).Err()
}

func (r *RedisTokenRepo) DeleteAllUserTokens(ctx context.Context, userID string) error {
	keys, err := r.client.Keys(ctx, refreshTokenKey(userID, "*")).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func refreshTokenKey(userID, token string) string {
	return "refresh:" + userID + ":" + token
}

// MemoryTokenRepo is the redis-less variant used when the service runs on
// the in-memory store. Tokens do not survive a restart.
type MemoryTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewMemoryTokenRepo() *MemoryTokenRepo {
	return &MemoryTokenRepo{tokens: make(map[string]time.Time)}
}

func (r *MemoryTokenRepo) SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[refreshTokenKey(userID, token)] = time.Now().Add(exp)
	return nil
}

func (r *MemoryTokenRepo) GetRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := refreshTokenKey(userID, token)
	deadline, ok := r.tokens[key]
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		delete(r.tokens, key)
		return false, nil
	}
	return true, nil
}

func (r *MemoryTokenRepo) DeleteRefreshToken(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, refreshTokenKey(userID, token))
	return nil
}

func (r *MemoryTokenRepo) DeleteAllUserTokens(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := refreshTokenKey(userID, "")
	for key := range r.tokens {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(r.tokens, key)
		}
	}
	return nil
}
