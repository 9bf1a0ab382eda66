package circuitbreaker

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig("driver-1")
	cfg.FailureThreshold = 2
	cfg.Timeout = 20 * time.Millisecond
	return cfg
}

func fail(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var transitions []string
	cfg := testConfig()
	cfg.OnStateChange = func(name string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}
	cb := New(cfg, logger.NewNopLogger())
	unreachable := syncerr.Unreachable(errors.New("refused"))

	assert.Equal(t, unreachable, cb.Execute(context.Background(), fail(unreachable)))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, unreachable, cb.Execute(context.Background(), fail(unreachable)))
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitBreakerOpen)
	assert.False(t, called)
	assert.Equal(t, []string{"CLOSED->OPEN"}, transitions)
}

func TestCircuitBreaker_IgnoresNonHealthFailures(t *testing.T) {
	cb := New(testConfig(), logger.NewNopLogger())

	for i := 0; i < 5; i++ {
		_ = cb.Execute(context.Background(), fail(syncerr.HTTPStatus(http.StatusBadRequest, "")))
		_ = cb.Execute(context.Background(), fail(syncerr.Superseded(1, 2)))
		_ = cb.Execute(context.Background(), fail(syncerr.Canceled(context.Canceled)))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Zero(t, cb.Counts().TotalFailures)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := New(testConfig(), logger.NewNopLogger())
	serverErr := syncerr.HTTPStatus(http.StatusServiceUnavailable, "")

	_ = cb.Execute(context.Background(), fail(serverErr))
	_ = cb.Execute(context.Background(), fail(serverErr))
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(30 * time.Millisecond)

	require.NoError(t, cb.Execute(context.Background(), fail(nil)))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := New(testConfig(), logger.NewNopLogger())
	timeout := syncerr.Timeout(context.DeadlineExceeded)

	_ = cb.Execute(context.Background(), fail(timeout))
	_ = cb.Execute(context.Background(), fail(timeout))
	time.Sleep(30 * time.Millisecond)

	_ = cb.Execute(context.Background(), fail(timeout))
	assert.Equal(t, StateOpen, cb.State())
}

func TestManager_OneBreakerPerName(t *testing.T) {
	m := NewManager(testConfig(), logger.NewNopLogger())

	a := m.GetOrCreate("driver-a")
	assert.Same(t, a, m.GetOrCreate("driver-a"))
	assert.NotSame(t, a, m.GetOrCreate("driver-b"))
	assert.Equal(t, "driver-a", a.Name())

	_ = m.Execute(context.Background(), "driver-a", fail(syncerr.Unreachable(errors.New("x"))))

	stats := m.GetStats()
	require.Len(t, stats, 2)
	assert.Equal(t, uint32(1), stats["driver-a"].TotalFailures)
	assert.Equal(t, "CLOSED", stats["driver-b"].State)

	m.Remove("driver-b")
	assert.Len(t, m.GetStats(), 1)
}
