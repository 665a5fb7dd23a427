package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShareToken(t *testing.T) {
	a := NewShareToken()
	b := NewShareToken()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("test")
	failing := func() error { return errors.New("boom") }

	for i := 0; i < 5; i++ {
		err := cb.Execute(failing)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrCircuitOpen)
	}

	assert.Equal(t, StateOpen, cb.CurrentState())
	assert.ErrorIs(t, cb.Execute(failing), ErrCircuitOpen)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test")
	boom := errors.New("boom")

	for i := 0; i < 4; i++ {
		_ = cb.Execute(func() error { return boom })
	}
	require.NoError(t, cb.Execute(func() error { return nil }))

	// The streak restarted, so four more failures still do not open it.
	for i := 0; i < 4; i++ {
		_ = cb.Execute(func() error { return boom })
	}
	assert.Equal(t, StateClosed, cb.CurrentState())
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.cooldown = 0 // probe immediately

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error { return errors.New("boom") })
	}
	require.Equal(t, StateOpen, cb.CurrentState())

	// Cooldown elapsed: one probe goes through and closes on success.
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.CurrentState())
}
