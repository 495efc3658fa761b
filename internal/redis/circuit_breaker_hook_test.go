package redis

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerStartsClosed(t *testing.T) {
	hook := NewCircuitBreakerHook()
	assert.Equal(t, circuitbreaker.ClosedState, hook.GetState())
}

func TestCircuitBreakerOpensOnRepeatedFailures(t *testing.T) {
	hook := NewCircuitBreakerHook()
	failing := hook.ProcessHook(func(_ context.Context, _ goredis.Cmder) error {
		return errors.New("connection refused")
	})

	cmd := goredis.NewStatusCmd(context.Background(), "ping")
	for i := 0; i < 10; i++ {
		_ = failing(context.Background(), cmd)
	}

	assert.Equal(t, circuitbreaker.OpenState, hook.GetState())

	// Once open, calls fail fast without reaching redis.
	reached := false
	guarded := hook.ProcessHook(func(_ context.Context, _ goredis.Cmder) error {
		reached = true
		return nil
	})
	err := guarded(context.Background(), cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.False(t, reached)
}

func TestCircuitBreakerIgnoresCacheMisses(t *testing.T) {
	hook := NewCircuitBreakerHook()
	missing := hook.ProcessHook(func(_ context.Context, _ goredis.Cmder) error {
		return goredis.Nil
	})

	cmd := goredis.NewStringCmd(context.Background(), "get", "missing")
	for i := 0; i < 10; i++ {
		err := missing(context.Background(), cmd)
		assert.ErrorIs(t, err, goredis.Nil)
	}

	// redis.Nil means "no value", not "redis is down".
	assert.Equal(t, circuitbreaker.ClosedState, hook.GetState())
}

func TestCircuitBreakerDialHookRecordsFailures(t *testing.T) {
	hook := NewCircuitBreakerHook()
	failing := hook.DialHook(func(_ context.Context, _, _ string) (net.Conn, error) {
		return nil, errors.New("dial tcp: connection refused")
	})

	for i := 0; i < 10; i++ {
		_, _ = failing(context.Background(), "tcp", "localhost:6379")
	}

	assert.Equal(t, circuitbreaker.OpenState, hook.GetState())
}
