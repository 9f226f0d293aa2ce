package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rewardbot:pending"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps actions under rewardbot:pending:<user id>. A zero ttl
// keeps them until cleared.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) key(userID int64) string {
	return redisKeyPrefix + ":" + strconv.FormatInt(userID, 10)
}

func (s *redisStore) Get(ctx context.Context, userID int64) (Action, error) {
	value, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return ActionNone, nil
	}
	if err != nil {
		return ActionNone, fmt.Errorf("failed to get pending action of user %d: %w", userID, err)
	}
	return ParseAction(value), nil
}

func (s *redisStore) Set(ctx context.Context, userID int64, action Action) error {
	if action == ActionNone {
		return s.Clear(ctx, userID)
	}
	if err := s.client.Set(ctx, s.key(userID), string(action), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set pending action of user %d: %w", userID, err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear pending action of user %d: %w", userID, err)
	}
	return nil
}
