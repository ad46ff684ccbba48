package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// SessionRegistry tracks which operator access tokens are still live.
// A signed token is honored only while its key exists.
type SessionRegistry interface {
	Register(ctx context.Context, operatorID uuid.UUID, tokenID string, ttl time.Duration) error
	IsActive(ctx context.Context, operatorID uuid.UUID, tokenID string) (bool, error)
	RevokeAll(ctx context.Context, operatorID uuid.UUID) (int64, error)
}

type redisSessionRegistry struct {
	log         *logrus.Logger
	redisClient *redis.Client
}

func NewSessionRegistry(log *logrus.Logger, redisClient *redis.Client) SessionRegistry {
	return &redisSessionRegistry{
		log:         log,
		redisClient: redisClient,
	}
}

func accessTokenKey(operatorID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", operatorID.String(), tokenID)
}

func (r *redisSessionRegistry) Register(ctx context.Context, operatorID uuid.UUID, tokenID string, ttl time.Duration) error {
	if err := r.redisClient.Set(ctx, accessTokenKey(operatorID, tokenID), "valid", ttl).Err(); err != nil {
		r.log.Warnf("Failed to register access token for operator %s: %+v", operatorID, err)
		return err
	}
	return nil
}

func (r *redisSessionRegistry) IsActive(ctx context.Context, operatorID uuid.UUID, tokenID string) (bool, error) {
	exists, err := r.redisClient.Exists(ctx, accessTokenKey(operatorID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// RevokeAll removes every live token of the operator
func (r *redisSessionRegistry) RevokeAll(ctx context.Context, operatorID uuid.UUID) (int64, error) {
	pattern := accessTokenKey(operatorID, "*")

	var keys []string
	iter := r.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.log.Warnf("Failed to scan access tokens for operator %s: %+v", operatorID, err)
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	removed, err := r.redisClient.Del(ctx, keys...).Result()
	if err != nil {
		r.log.Warnf("Failed to revoke access tokens for operator %s: %+v", operatorID, err)
		return 0, err
	}
	r.log.Infof("Revoked %d access tokens for operator %s", removed, operatorID)
	return removed, nil
}
