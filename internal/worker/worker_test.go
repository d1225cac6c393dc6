package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/events"
)

type countingRefresher struct {
	calls atomic.Int32
	done  chan struct{}
}

func newCountingRefresher() *countingRefresher {
	return &countingRefresher{done: make(chan struct{}, 16)}
}

func (r *countingRefresher) Refresh(context.Context) {
	r.calls.Add(1)
	r.done <- struct{}{}
}

func waitRefresh(t *testing.T, r *countingRefresher) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not run")
	}
}

func TestCoalescerRefreshesOncePerBurst(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	target := newCountingRefresher()
	c := NewChangeCoalescer(dispatcher, target, 50*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	for i := 0; i < 5; i++ {
		require.NoError(t, dispatcher.Publish(ctx, events.Event{
			Type: events.EventUpdate, Table: "students", RecordID: "p1", Source: events.SourceRemote,
		}))
	}
	waitRefresh(t, target)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), target.calls.Load())
}

func TestCoalescerIgnoresLocalEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	target := newCountingRefresher()
	c := NewChangeCoalescer(dispatcher, target, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type: events.EventInsert, Table: "polos", RecordID: "u1", Source: events.SourceLocal,
	}))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), target.calls.Load())
}

func TestRefreshSchedulerRejectsBadSpec(t *testing.T) {
	s := NewRefreshScheduler(newCountingRefresher(), "not a spec", 0, zap.NewNop())
	assert.Error(t, s.Start())
}

func TestRefreshSchedulerRuns(t *testing.T) {
	target := newCountingRefresher()
	s := NewRefreshScheduler(target, "@every 1s", time.Second, zap.NewNop())
	require.NoError(t, s.Start())
	defer s.Stop()
	waitRefresh(t, target)
}

func TestRefreshSchedulerDisabled(t *testing.T) {
	s := NewRefreshScheduler(newCountingRefresher(), "", 0, zap.NewNop())
	require.NoError(t, s.Start())
	s.Stop()
}
