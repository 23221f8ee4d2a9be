package reaper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEvictor struct {
	calls atomic.Int32
}

func (c *countingEvictor) EvictIdle(context.Context) int {
	c.calls.Add(1)
	return 1
}

func (c *countingEvictor) Len() int { return 0 }

func TestNewRunner_RequiresSessions(t *testing.T) {
	_, err := NewRunner(RunnerOptions{})
	require.Error(t, err)
}

func TestRunner_EvictsUntilCancelled(t *testing.T) {
	ev := &countingEvictor{}
	r, err := NewRunner(RunnerOptions{Sessions: ev, Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	assert.Eventually(t, func() bool { return ev.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_DeadlineIsReported(t *testing.T) {
	r, err := NewRunner(RunnerOptions{Sessions: &countingEvictor{}, Interval: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Run(ctx), context.DeadlineExceeded)
}

func TestRunner_SweepsStoresAfterSessions(t *testing.T) {
	sessions := &countingEvictor{}
	store := &countingEvictor{}
	r, err := NewRunner(RunnerOptions{Sessions: sessions, Stores: []Evictor{store}, Interval: time.Hour})
	require.NoError(t, err)

	assert.Equal(t, 1, r.sweep(context.Background()))
	assert.Equal(t, int32(1), sessions.calls.Load())
	assert.Equal(t, int32(1), store.calls.Load())
}
