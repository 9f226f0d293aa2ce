package repository

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/Fi44er/reward_bot/db"
	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/Fi44er/reward_bot/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) *Repository {
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
	return NewRepository(database, logger)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestEnsureUserIsLazyAndKeepsReferrer(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	created, err := repo.EnsureUser(ctx, 1, int64Ptr(555), nil)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.EnsureUser(ctx, 1, int64Ptr(777), nil)
	require.NoError(t, err)
	assert.False(t, created)

	user, err := repo.GetUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, user.RefBy)
	assert.Equal(t, int64(555), *user.RefBy)
	assert.True(t, user.Balance.IsZero())
	assert.False(t, user.IsBanned)
	assert.False(t, user.PassedJoinCheck)
	assert.False(t, user.RefCreditGiven)
}

func TestGetUserUnknownReturnsNil(t *testing.T) {
	repo := newTestRepository(t)

	user, err := repo.GetUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAddBalanceAccumulates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	_, err := repo.EnsureUser(ctx, 1, nil, nil)
	require.NoError(t, err)

	for _, delta := range []string{"100", "50.5", "-20"} {
		require.NoError(t, repo.AddBalance(ctx, 1, dec(delta), nil))
	}

	user, err := repo.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(dec("130.5")), user.Balance.String())
}

func TestAddBalanceUnknownUser(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.AddBalance(context.Background(), 99, dec("1"), nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestClaimDailyBonusWindow(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	_, err := repo.EnsureUser(ctx, 1, nil, nil)
	require.NoError(t, err)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	ok, err := repo.ClaimDailyBonus(ctx, 1, dec("50"), start, 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ClaimDailyBonus(ctx, 1, dec("50"), start.Add(23*time.Hour), 24*time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ClaimDailyBonus(ctx, 1, dec("50"), start.Add(25*time.Hour), 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	user, err := repo.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(dec("100")), user.Balance.String())
	require.NotNil(t, user.LastBonusAt)
	assert.True(t, user.LastBonusAt.Equal(start.Add(25*time.Hour)))
}

func TestReferralCreditClaimedOnce(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	_, err := repo.EnsureUser(ctx, 2, int64Ptr(555), nil)
	require.NoError(t, err)

	ref, err := repo.ClaimReferralCredit(ctx, 2, nil)
	require.NoError(t, err)
	assert.Nil(t, ref, "credit requires a passed join check")

	first, err := repo.MarkJoinCheckPassed(ctx, 2, nil)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = repo.MarkJoinCheckPassed(ctx, 2, nil)
	require.NoError(t, err)
	assert.False(t, first)

	ref, err = repo.ClaimReferralCredit(ctx, 2, nil)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int64(555), *ref)

	ref, err = repo.ClaimReferralCredit(ctx, 2, nil)
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestSettingsSeedDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.SetSetting(ctx, "currency", "USD"))
	require.NoError(t, repo.SeedSettings(ctx, map[string]string{"currency": "NGN", "min_withdraw": "1000"}))

	value, ok, err := repo.GetSetting(ctx, "currency")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "USD", value)

	value, ok, err = repo.GetSetting(ctx, "min_withdraw")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1000", value)

	_, ok, err = repo.GetSetting(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetSetting(ctx, "currency", "EUR"))
	all, err := repo.GetAllSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"currency": "EUR", "min_withdraw": "1000"}, all)
}

func TestWithdrawRequestsAndStats(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	for _, id := range []int64{1, 2, 3} {
		_, err := repo.EnsureUser(ctx, id, nil, nil)
		require.NoError(t, err)
	}
	require.NoError(t, repo.SetBanned(ctx, 3, true))

	req := &models.WithdrawRequest{UserID: 1, Amount: dec("2000"), Wallet: "wallet-x", Status: models.WithdrawStatusPending}
	require.NoError(t, repo.CreateWithdrawRequest(ctx, req))
	assert.NotZero(t, req.ID)

	requests, err := repo.GetWithdrawRequestsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "wallet-x", requests[0].Wallet)
	assert.True(t, requests[0].Amount.Equal(dec("2000")))

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Users: 3, BannedUsers: 1, PendingWithdrawals: 1}, *stats)

	ids, err := repo.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestInTransactionCommitsAndRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	_, err := repo.EnsureUser(ctx, 1, nil, nil)
	require.NoError(t, err)

	err = repo.InTransaction(ctx, func(tx *gorm.DB) error {
		return repo.AddBalance(ctx, 1, dec("50"), tx)
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repo.InTransaction(ctx, func(tx *gorm.DB) error {
		if err := repo.AddBalance(ctx, 1, dec("70"), tx); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = repo.InTransaction(ctx, func(tx *gorm.DB) error {
			_ = repo.AddBalance(ctx, 1, dec("90"), tx)
			panic("halfway")
		})
	})

	user, err := repo.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(user.Balance), "got %s", user.Balance)
}
