package redis

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/daily-report-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// TokenBlacklist stores revoked token ids until they would have expired.
type TokenBlacklist struct {
	client redis.Cmdable
}

func NewTokenBlacklist(client redis.Cmdable) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke blacklists tokenID for ttl. Already expired tokens are ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := b.client.Set(ctx, blacklistPrefix+tokenID, "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, logger.Fields{
			"token_id": tokenID,
		})
		return err
	}

	logger.Debug("Token blacklisted", logger.Fields{
		"token_id": tokenID,
		"ttl":      ttl.String(),
	})
	return nil
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := b.client.Get(ctx, blacklistPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, logger.Fields{
			"token_id": tokenID,
		})
		return false, err
	}
	return true, nil
}
