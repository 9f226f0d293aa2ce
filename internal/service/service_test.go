package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Fi44er/reward_bot/config"
	"github.com/Fi44er/reward_bot/db"
	"github.com/Fi44er/reward_bot/internal/repository"
	"github.com/Fi44er/reward_bot/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	mu       sync.Mutex
	statuses map[string]string
	errs     map[string]error
	calls    []string
}

func (c *fakeChecker) ChatMemberStatus(_ context.Context, channel string, _ int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, channel)
	if err := c.errs[channel]; err != nil {
		return "", err
	}
	if status, ok := c.statuses[channel]; ok {
		return status, nil
	}
	return "member", nil
}

type fakeSender struct {
	mu   sync.Mutex
	fail map[int64]bool
	sent map[int64]string
}

func (s *fakeSender) SendText(_ context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[chatID] {
		return errors.New("chat not found")
	}
	if s.sent == nil {
		s.sent = make(map[int64]string)
	}
	s.sent[chatID] = text
	return nil
}

type testEnv struct {
	svc     *Service
	repo    *repository.Repository
	checker *fakeChecker
	sender  *fakeSender
	clock   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := utils.InitLogger()
	logger.SetOutput(io.Discard)

	database, err := db.ConnectDb("sqlite", filepath.Join(t.TempDir(), "bot.db"), logger)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database, true, logger))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{
		repo:    repository.NewRepository(database, logger),
		checker: &fakeChecker{statuses: map[string]string{}, errs: map[string]error{}},
		sender:  &fakeSender{fail: map[int64]bool{}},
		clock:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	cfg := &config.Config{AdminClaimPIN: "1234", BroadcastConcurrency: 1}
	env.svc = NewService(env.repo, env.checker, env.sender, cfg, logger)
	env.svc.now = func() time.Time { return env.clock }

	require.NoError(t, env.svc.Init(context.Background()))
	return env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func requireBalance(t *testing.T, env *testEnv, userID int64, want string) {
	t.Helper()
	balance, err := env.svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, balance.Equal(dec(want)), "balance of %d: got %s want %s", userID, balance, want)
}
