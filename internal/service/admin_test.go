package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimAdminFirstClaimantWins(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	assert.ErrorIs(t, env.svc.ClaimAdmin(ctx, 1, "0000"), ErrWrongPIN)
	assert.ErrorIs(t, env.svc.ClaimAdmin(ctx, 1, " "), ErrMissingPIN)

	require.NoError(t, env.svc.ClaimAdmin(ctx, 1, "1234"))

	isAdmin, err := env.svc.IsAdmin(ctx, 1)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	assert.ErrorIs(t, env.svc.ClaimAdmin(ctx, 2, "1234"), ErrAdminAlreadySet)
	assert.ErrorIs(t, env.svc.ClaimAdmin(ctx, 2, "0000"), ErrAdminAlreadySet)
	assert.ErrorIs(t, env.svc.ClaimAdmin(ctx, 1, "1234"), ErrAdminAlreadySet)

	isAdmin, err = env.svc.IsAdmin(ctx, 2)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestClaimAdminDisabledWithoutPIN(t *testing.T) {
	env := newTestEnv(t)
	env.svc.config.AdminClaimPIN = ""

	assert.ErrorIs(t, env.svc.ClaimAdmin(context.Background(), 1, "1234"), ErrClaimDisabled)
}

func TestParseBalanceInput(t *testing.T) {
	id, amount, err := ParseBalanceInput("123456789 500")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), id)
	assert.True(t, amount.Equal(dec("500")))

	_, _, err = ParseBalanceInput("123456789")
	assert.ErrorIs(t, err, ErrBadFormat)

	_, _, err = ParseBalanceInput("1 2 3")
	assert.ErrorIs(t, err, ErrBadFormat)

	_, _, err = ParseBalanceInput("abc 500")
	assert.ErrorIs(t, err, ErrBadNumber)

	_, _, err = ParseBalanceInput("1 five")
	assert.ErrorIs(t, err, ErrBadNumber)
}

func TestParseChannels(t *testing.T) {
	assert.Equal(t, []string{"@a", "@b"}, ParseChannels("@a  b @b https://t.me/c"))
	assert.Equal(t, []string{}, ParseChannels("none here"))
}

func TestParseUserIDAndAmount(t *testing.T) {
	id, err := ParseUserID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseUserID("@user")
	assert.ErrorIs(t, err, ErrBadNumber)

	amount, err := ParseAmount("1500.5")
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("1500.5")))

	_, err = ParseAmount("lots")
	assert.ErrorIs(t, err, ErrBadNumber)
}
