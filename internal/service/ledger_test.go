package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserReferrer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.svc.RegisterUser(ctx, 1, int64Ptr(555))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.svc.RegisterUser(ctx, 1, int64Ptr(777))
	require.NoError(t, err)
	assert.False(t, created)

	user, err := env.svc.GetUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, user.RefBy)
	assert.Equal(t, int64(555), *user.RefBy)
}

func TestRegisterUserDropsSelfReferral(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.RegisterUser(ctx, 9, int64Ptr(9))
	require.NoError(t, err)

	user, err := env.svc.GetUser(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, user.RefBy)
}

func TestCreditIsAdditive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, delta := range []string{"10", "2.25", "-5", "0"} {
		_, err := env.svc.Credit(ctx, 3, dec(delta))
		require.NoError(t, err)
	}
	requireBalance(t, env, 3, "7.25")
}

func TestCreditHasNoFloor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	balance, err := env.svc.AdjustBalance(ctx, 4, dec("200"), true)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("-200")))
}

func TestBanCreatesUnknownUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.svc.SetBanned(ctx, 10, true))
	banned, err := env.svc.IsBanned(ctx, 10)
	require.NoError(t, err)
	assert.True(t, banned)

	require.NoError(t, env.svc.SetBanned(ctx, 10, false))
	banned, err = env.svc.IsBanned(ctx, 10)
	require.NoError(t, err)
	assert.False(t, banned)
}
