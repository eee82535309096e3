package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maadv/parecer/internal/common"
)

func TestPoolRunsSubmittedJobs(t *testing.T) {
	pool := NewPool(2, common.GetLogger())
	pool.Start()

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}))
	}

	require.Eventually(t, func() bool {
		return ran.Load() == 5
	}, 2*time.Second, 10*time.Millisecond)

	pool.Shutdown()
}

func TestShutdownDrainsQueuedJobs(t *testing.T) {
	// Single worker so submitted jobs queue up behind a slow one
	pool := NewPool(1, common.GetLogger())
	pool.Start()

	var ran atomic.Int32
	const jobs = 6
	for i := 0; i < jobs; i++ {
		require.NoError(t, pool.Submit(func(ctx context.Context) error {
			time.Sleep(20 * time.Millisecond)
			ran.Add(1)
			return nil
		}))
	}

	pool.Shutdown()

	// Every accepted job ran before Shutdown returned
	assert.Equal(t, int32(jobs), ran.Load())
}

func TestSubmitAfterShutdownRejected(t *testing.T) {
	pool := NewPool(1, common.GetLogger())
	pool.Start()
	pool.Shutdown()

	err := pool.Submit(func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutting down")
}
