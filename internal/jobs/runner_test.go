package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitJob(t *testing.T, job *Job) {
	t.Helper()
	select {
	case <-job.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("job did not finish")
	}
}

func TestRunner_RunsEveryUnit(t *testing.T) {
	t.Parallel()

	r := NewRunner(3, discardLogger())

	const n = 25
	var ran atomic.Int32
	units := make([]Unit, n)
	for i := range units {
		units[i] = func(context.Context) error {
			ran.Add(1)
			return nil
		}
	}

	var (
		mu       sync.Mutex
		indexes  = make(map[int]bool)
		allCalls atomic.Int32
	)
	job := r.Submit(context.Background(), units,
		func(index int, err error) {
			assert.NoError(t, err)
			mu.Lock()
			indexes[index] = true
			mu.Unlock()
		},
		func() { allCalls.Add(1) },
	)
	waitJob(t, job)

	assert.Equal(t, int32(n), ran.Load())
	assert.Len(t, indexes, n)
	assert.Equal(t, int32(1), allCalls.Load())

	done, total := job.Progress()
	assert.Equal(t, n, done)
	assert.Equal(t, n, total)
}

func TestRunner_RespectsWorkerLimit(t *testing.T) {
	t.Parallel()

	const limit = 2
	r := NewRunner(limit, discardLogger())

	var active, peak atomic.Int32
	units := make([]Unit, 10)
	for i := range units {
		units[i] = func(context.Context) error {
			cur := active.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
			return nil
		}
	}

	waitJob(t, r.Submit(context.Background(), units, nil, nil))
	assert.LessOrEqual(t, peak.Load(), int32(limit))
}

func TestRunner_ReportsErrorsAndPanics(t *testing.T) {
	t.Parallel()

	r := NewRunner(2, discardLogger())
	boom := errors.New("boom")

	units := []Unit{
		func(context.Context) error { return nil },
		func(context.Context) error { return boom },
		func(context.Context) error { panic("kaboom") },
	}

	errs := make([]error, len(units))
	var mu sync.Mutex
	job := r.Submit(context.Background(), units, func(i int, err error) {
		mu.Lock()
		errs[i] = err
		mu.Unlock()
	}, nil)
	waitJob(t, job)

	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)
	require.Error(t, errs[2])
	assert.Contains(t, errs[2].Error(), "kaboom")
}

func TestRunner_IgnoresCallerCancellation(t *testing.T) {
	t.Parallel()

	r := NewRunner(1, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	var sawCanceled atomic.Bool
	units := []Unit{
		func(ctx context.Context) error {
			<-release
			if ctx.Err() != nil {
				sawCanceled.Store(true)
			}
			return nil
		},
		func(ctx context.Context) error {
			if ctx.Err() != nil {
				sawCanceled.Store(true)
			}
			return nil
		},
	}

	job := r.Submit(ctx, units, nil, nil)
	cancel()
	close(release)
	waitJob(t, job)

	assert.False(t, sawCanceled.Load())
	done, _ := job.Progress()
	assert.Equal(t, 2, done)
}

func TestRunner_EmptyJob(t *testing.T) {
	t.Parallel()

	r := NewRunner(0, discardLogger())
	var called atomic.Bool
	job := r.Submit(context.Background(), nil, nil, func() { called.Store(true) })
	waitJob(t, job)

	assert.True(t, called.Load())
	r.Wait()
}

func TestRunner_Active(t *testing.T) {
	t.Parallel()

	r := NewRunner(1, discardLogger())
	release := make(chan struct{})

	job := r.Submit(context.Background(), []Unit{
		func(context.Context) error { <-release; return nil },
	}, nil, nil)

	assert.Equal(t, 1, r.Active())
	close(release)
	waitJob(t, job)
	r.Wait()
	assert.Equal(t, 0, r.Active())
}
