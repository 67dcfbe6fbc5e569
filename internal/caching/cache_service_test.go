package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRedis struct {
	mock.Mock
}

func (m *mockRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	args := m.Called(ctx, key)
	return redis.NewIntResult(args.Get(0).(int64), args.Error(1))
}

func (m *mockRedis) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, expiration)
	return redis.NewBoolResult(true, args.Error(0))
}

func (m *mockRedis) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called(ctx)
	return redis.NewStatusResult("PONG", args.Error(0))
}

func (m *mockRedis) Close() error {
	return m.Called().Error(0)
}

func TestIsRateLimited_FirstHitStartsWindow(t *testing.T) {
	client := new(mockRedis)
	client.On("Incr", mock.Anything, "crm:ratelimit:admin:10.0.0.1").Return(int64(1), nil)
	client.On("Expire", mock.Anything, "crm:ratelimit:admin:10.0.0.1", time.Minute).Return(nil)

	limited, err := newCacheService(client, zap.NewNop()).IsRateLimited(context.Background(), "admin:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, limited)
	client.AssertExpectations(t)
}

func TestIsRateLimited_OverLimit(t *testing.T) {
	client := new(mockRedis)
	client.On("Incr", mock.Anything, "crm:ratelimit:k").Return(int64(3), nil)

	limited, err := newCacheService(client, zap.NewNop()).IsRateLimited(context.Background(), "k", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, limited)
	client.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

func TestIsRateLimited_RedisDown(t *testing.T) {
	client := new(mockRedis)
	client.On("Incr", mock.Anything, "crm:ratelimit:k").Return(int64(0), errors.New("connection refused"))

	limited, err := newCacheService(client, zap.NewNop()).IsRateLimited(context.Background(), "k", 2, time.Minute)
	assert.Error(t, err)
	assert.False(t, limited)
}

func TestPing(t *testing.T) {
	client := new(mockRedis)
	client.On("Ping", mock.Anything).Return(nil).Once()
	client.On("Ping", mock.Anything).Return(errors.New("down")).Once()

	svc := newCacheService(client, zap.NewNop())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.Error(t, svc.Ping(context.Background()))
}
