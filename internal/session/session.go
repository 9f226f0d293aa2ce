// Package session keeps the per-conversation pending action: the kind of
// free-text input the bot expects next from a given user.
package session

import (
	"context"
	"time"

	"github.com/Fi44er/reward_bot/utils"
	"github.com/redis/go-redis/v9"
)

type Action string

const (
	ActionNone            Action = ""
	ActionWithdrawRequest Action = "withdraw_req"
	ActionAddBalance      Action = "add_balance"
	ActionRemoveBalance   Action = "remove_balance"
	ActionSetCurrency     Action = "set_currency"
	ActionSetMin          Action = "set_min"
	ActionSetMax          Action = "set_max"
	ActionSetChannels     Action = "set_channels"
	ActionBan             Action = "ban"
	ActionUnban           Action = "unban"
	ActionBroadcast       Action = "broadcast"
)

var knownActions = map[Action]bool{
	ActionWithdrawRequest: true,
	ActionAddBalance:      true,
	ActionRemoveBalance:   true,
	ActionSetCurrency:     true,
	ActionSetMin:          true,
	ActionSetMax:          true,
	ActionSetChannels:     true,
	ActionBan:             true,
	ActionUnban:           true,
	ActionBroadcast:       true,
}

// ParseAction maps a stored value back to an Action. Unknown values read as
// ActionNone.
func ParseAction(s string) Action {
	a := Action(s)
	if knownActions[a] {
		return a
	}
	return ActionNone
}

// IsAdmin reports whether the action belongs to the admin panel.
func (a Action) IsAdmin() bool {
	return a != ActionNone && a != ActionWithdrawRequest
}

type Store interface {
	Get(ctx context.Context, userID int64) (Action, error)
	Set(ctx context.Context, userID int64, action Action) error
	Clear(ctx context.Context, userID int64) error
}

// NewStore returns a Redis-backed store when addr is set and reachable, and
// an in-memory one otherwise. The returned error explains a fallback.
func NewStore(addr, password string, db int, ttl time.Duration, logger *utils.Logger) (Store, error) {
	if addr == "" {
		logger.Info("Pending actions are kept in memory")
		return NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return NewMemoryStore(), err
	}

	logger.Infof("Pending actions are kept in Redis at %s", addr)
	return NewRedisStore(client, ttl), nil
}
