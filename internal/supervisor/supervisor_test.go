package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSupervisor() *Supervisor {
	return New(context.Background(), hclog.NewNullLogger())
}

func TestAwaitAllCollectsCompletedUnits(t *testing.T) {
	s := newTestSupervisor()

	s.Submit("fast", func(ctx context.Context) (interface{}, error) {
		return "done", nil
	})
	s.Submit("slow", func(ctx context.Context) (interface{}, error) {
		time.Sleep(20 * time.Millisecond)
		return 42, nil
	})

	outcomes := s.AwaitAll(5 * time.Second)

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusCompleted, outcomes["fast"].Status)
	assert.Equal(t, "done", outcomes["fast"].Value)
	assert.Equal(t, StatusCompleted, outcomes["slow"].Status)
	assert.Equal(t, 42, outcomes["slow"].Value)
}

func TestAwaitAllSharedDeadline(t *testing.T) {
	s := newTestSupervisor()

	s.Submit("sleeper", func(ctx context.Context) (interface{}, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	start := time.Now()
	outcomes := s.AwaitAll(1 * time.Second)
	elapsed := time.Since(start)

	assert.Equal(t, StatusTimedOut, outcomes["sleeper"].Status)
	assert.Nil(t, outcomes["sleeper"].Value)
	assert.Greater(t, elapsed, 900*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestAwaitAllDeadlineAppliesToAllUnits(t *testing.T) {
	s := newTestSupervisor()

	block := func(ctx context.Context) (interface{}, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	s.Submit("first", block)
	s.Submit("second", block)
	s.Submit("quick", func(ctx context.Context) (interface{}, error) {
		return "ok", nil
	})

	outcomes := s.AwaitAll(100 * time.Millisecond)

	assert.Equal(t, StatusCompleted, outcomes["quick"].Status)
	assert.Equal(t, StatusTimedOut, outcomes["first"].Status)
	assert.Equal(t, StatusTimedOut, outcomes["second"].Status)
}

func TestAwaitAllUnitFailureDoesNotCancelOthers(t *testing.T) {
	s := newTestSupervisor()

	failure := errors.New("boom")
	s.Submit("failing", func(ctx context.Context) (interface{}, error) {
		return nil, failure
	})
	s.Submit("surviving", func(ctx context.Context) (interface{}, error) {
		select {
		case <-time.After(50 * time.Millisecond):
			return "survived", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	outcomes := s.AwaitAll(5 * time.Second)

	assert.Equal(t, StatusFailed, outcomes["failing"].Status)
	assert.ErrorIs(t, outcomes["failing"].Err, failure)
	assert.Equal(t, StatusCompleted, outcomes["surviving"].Status)
	assert.Equal(t, "survived", outcomes["surviving"].Value)
}

func TestUnitsRunConcurrently(t *testing.T) {
	s := newTestSupervisor()

	// each unit blocks until the other has started
	aStarted := make(chan struct{})
	bStarted := make(chan struct{})

	s.Submit("a", func(ctx context.Context) (interface{}, error) {
		close(aStarted)
		select {
		case <-bStarted:
			return "a", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	s.Submit("b", func(ctx context.Context) (interface{}, error) {
		close(bStarted)
		select {
		case <-aStarted:
			return "b", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	outcomes := s.AwaitAll(2 * time.Second)

	assert.Equal(t, StatusCompleted, outcomes["a"].Status)
	assert.Equal(t, StatusCompleted, outcomes["b"].Status)
}

func TestLateCompletionKeepsTimedOutVerdict(t *testing.T) {
	s := newTestSupervisor()

	released := make(chan struct{})
	unit := s.Submit("ignores-cancellation", func(ctx context.Context) (interface{}, error) {
		<-released
		return "late", nil
	})

	outcomes := s.AwaitAll(50 * time.Millisecond)
	assert.Equal(t, StatusTimedOut, outcomes["ignores-cancellation"].Status)

	close(released)
	time.Sleep(50 * time.Millisecond)

	// the verdict is write-once
	assert.Equal(t, StatusTimedOut, unit.Outcome().Status)
	assert.Nil(t, unit.Outcome().Value)
}

func TestParentCancellationPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(ctx, hclog.NewNullLogger())

	s.Submit("child", func(ctx context.Context) (interface{}, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	cancel()
	outcomes := s.AwaitAll(2 * time.Second)

	assert.Equal(t, StatusFailed, outcomes["child"].Status)
	assert.ErrorIs(t, outcomes["child"].Err, context.Canceled)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusTimedOut.Terminal())
}
