package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// RevocationRepository records revoked refresh-token identifiers. Entries
// expire on their own once the token they revoke would have expired.
type RevocationRepository interface {
	// Revoke blacklists jti for ttl. It reports whether this call created the
	// entry; a non-positive ttl is a no-op.
	Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisRevocationRepository struct {
	client redis.Cmdable
}

// NewRevocationRepository returns a Redis-backed blacklist.
func NewRevocationRepository(client redis.Cmdable) RevocationRepository {
	return &redisRevocationRepository{client: client}
}

func (r *redisRevocationRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	return r.client.SetNX(ctx, blacklistPrefix+jti, "true", ttl).Result()
}

func (r *redisRevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
