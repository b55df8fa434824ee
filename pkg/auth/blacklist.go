package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const blacklistPrefix = "blacklist:"

// Blacklist stores revoked tokens in redis until they would have expired.
type Blacklist struct {
	client redis.Cmdable
}

func NewBlacklist(client redis.Cmdable) *Blacklist {
	return &Blacklist{client: client}
}

func (b *Blacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, blacklistPrefix+token, 1, ttl).Err()
}

func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
