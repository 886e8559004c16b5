package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/lalith-99/eightd/internal/repository/memory"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	ok, err := VerifyPassword(hash, "password123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("not-a-hash", "x")
	assert.Error(t, err)
}

func setupThrottle(t *testing.T, max int) (*miniredis.Miniredis, *RedisThrottle) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisThrottle(client, max, time.Minute)
}

func TestRedisThrottleLocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	mr, th := setupThrottle(t, 2)

	for i := 0; i < 2; i++ {
		allowed, err := th.Allowed(ctx, "a@x.io")
		require.NoError(t, err)
		require.True(t, allowed)
		require.NoError(t, th.Failed(ctx, "a@x.io"))
	}

	allowed, err := th.Allowed(ctx, "A@x.io ")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL("login:fail:a@x.io"))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = th.Allowed(ctx, "a@x.io")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisThrottleReset(t *testing.T) {
	ctx := context.Background()
	mr, th := setupThrottle(t, 1)

	require.NoError(t, th.Failed(ctx, "a@x.io"))
	require.NoError(t, th.Reset(ctx, "a@x.io"))
	assert.False(t, mr.Exists("login:fail:a@x.io"))
}

func newService(t *testing.T, th Throttle) *Service {
	t.Helper()
	store := memory.NewStore()
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	_, err = store.Users.Create(context.Background(), &models.User{
		Name: "Jean", Role: models.RoleOperator, Email: "jean@x.io", Username: "jean", PasswordHash: hash,
	})
	require.NoError(t, err)
	return NewService(store.Users, th, zap.NewNop())
}

func TestServiceLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	u, outcome, err := svc.Login(ctx, "jean@x.io", "password123")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, "jean", u.Username)

	_, outcome, err = svc.Login(ctx, "jean@x.io", "nope")
	var ic *apperr.InvalidCredentialError
	assert.ErrorAs(t, err, &ic)
	assert.Equal(t, OutcomeInvalidPassword, outcome)

	_, outcome, err = svc.Login(ctx, "ghost@x.io", "password123")
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "user not found")
	assert.Equal(t, OutcomeUnknownEmail, outcome)
}

func TestServiceLoginThrottled(t *testing.T) {
	ctx := context.Background()
	_, th := setupThrottle(t, 2)
	svc := newService(t, th)

	for i := 0; i < 2; i++ {
		_, _, err := svc.Login(ctx, "jean@x.io", "bad")
		require.Error(t, err)
	}

	_, outcome, err := svc.Login(ctx, "jean@x.io", "password123")
	var tm *apperr.TooManyRequestsError
	assert.ErrorAs(t, err, &tm)
	assert.Equal(t, OutcomeThrottled, outcome)
}

func TestServiceLoginResetsOnSuccess(t *testing.T) {
	ctx := context.Background()
	mr, th := setupThrottle(t, 3)
	svc := newService(t, th)

	_, _, err := svc.Login(ctx, "jean@x.io", "bad")
	require.Error(t, err)
	_, _, err = svc.Login(ctx, "jean@x.io", "password123")
	require.NoError(t, err)
	assert.False(t, mr.Exists("login:fail:jean@x.io"))
}
