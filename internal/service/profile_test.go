package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scribax/followers-shop/internal/apperr"
)

func TestProfileService_FetchUserInfo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		_, err := env.Profile.FetchUserInfo(ctx, nil)
		assert.ErrorIs(t, err, apperr.ErrSessionExpired)
	})

	user := registerAndLogin(t, env)

	t.Run("creates an empty profile on first read", func(t *testing.T) {
		info, err := env.Profile.FetchUserInfo(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, info.IGUsername)
		assert.Empty(t, info.FormattedIGUsername)
		assert.False(t, info.ProfileComplete)
		assert.Equal(t, user.Name, info.FullName)
		assert.Equal(t, user.Email, info.Email)
		assert.False(t, info.JoinDate.IsZero())
	})
}

func TestProfileService_SetIGUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerAndLogin(t, env)

	t.Run("accepts letters, digits, dots and underscores", func(t *testing.T) {
		require.NoError(t, env.Profile.SetIGUsername(ctx, user, "abc.def_123"))

		info, err := env.Profile.FetchUserInfo(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, "abc.def_123", info.IGUsername)
		assert.Equal(t, "@abc.def_123", info.FormattedIGUsername)
		assert.True(t, info.ProfileComplete)
	})

	t.Run("rejects invalid handles without touching the stored one", func(t *testing.T) {
		for _, bad := range []string{"bad username!", "emoji😀", "with-dash", ""} {
			err := env.Profile.SetIGUsername(ctx, user, bad)
			assert.ErrorIs(t, err, apperr.ErrValidation, "handle %q", bad)
		}

		info, err := env.Profile.FetchUserInfo(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, "abc.def_123", info.IGUsername)
	})

	t.Run("rejects handles over 30 characters", func(t *testing.T) {
		long := "a234567890a234567890a234567890x" // 31 chars
		err := env.Profile.SetIGUsername(ctx, user, long)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("clear resets the handle", func(t *testing.T) {
		require.NoError(t, env.Profile.ClearIGUsername(ctx, user))

		info, err := env.Profile.FetchUserInfo(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, info.IGUsername)
		assert.Empty(t, info.FormattedIGUsername)
		assert.False(t, info.ProfileComplete)
	})
}

func TestProfileService_UpdateProfileData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerAndLogin(t, env)

	total := 7
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	profile, err := env.Profile.UpdateProfileData(ctx, user, ProfilePatch{
		TotalOrders:    &total,
		LastActivityAt: &at,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, profile.TotalOrders)
	assert.True(t, profile.LastActivityAt.Equal(at))

	// A nil field leaves the stored value alone.
	profile, err = env.Profile.UpdateProfileData(ctx, user, ProfilePatch{})
	require.NoError(t, err)
	assert.Equal(t, 7, profile.TotalOrders)
}

func TestProfileService_ClearUserInfo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerAndLogin(t, env)

	require.NoError(t, env.Profile.SetIGUsername(ctx, user, "someone"))
	require.NoError(t, env.Profile.ClearUserInfo(ctx, user))

	// The next read starts from a fresh profile.
	info, err := env.Profile.FetchUserInfo(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, info.IGUsername)

	// No session means nothing to clear.
	assert.NoError(t, env.Profile.ClearUserInfo(ctx, nil))
}
