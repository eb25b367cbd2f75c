package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	runs atomic.Int32
}

func (r *countingRunner) RunOnce(context.Context) (RunResult, error) {
	r.runs.Add(1)
	return RunResult{}, nil
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler("@every 1s", runner)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.False(t, s.Next().IsZero())
	assert.Eventually(t, func() bool { return runner.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler("not a cron spec", &countingRunner{})
	assert.Error(t, s.Start(context.Background()))
	assert.True(t, s.Next().IsZero())
}
