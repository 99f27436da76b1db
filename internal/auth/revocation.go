package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations remembers logged-out token ids until they would expire anyway.
type Revocations interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	Revoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocations stores revoked ids as expiring Redis keys.
type RedisRevocations struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisRevocations constructs a Redis-backed revocation list.
func NewRedisRevocations(client redis.UniversalClient) *RedisRevocations {
	return &RedisRevocations{client: client, now: time.Now}
}

// Revoke records jti until the given time.
func (r *RedisRevocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revocationKey(jti), "1", ttl).Err()
}

// Revoked reports whether jti was revoked.
func (r *RedisRevocations) Revoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revocationKey(jti string) string {
	return "portal:revoked:" + jti
}
