package worker_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erinskieasy/Intellimark2025/internal/worker"
)

func TestDo_ReturnsJobResult(t *testing.T) {
	pool := worker.NewPool[int](1, 4)

	got := pool.Do(func() int { return 42 })

	assert.Equal(t, 42, got)
}

func TestDo_ResultsMatchCallers(t *testing.T) {
	// Concurrent callers must each get their own job's result back,
	// not another caller's.
	pool := worker.NewPool[int](1, 8)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			got := pool.Do(func() int { return n * n })
			assert.Equal(t, n*n, got)
		}(i)
	}
	wg.Wait()
}

func TestSingleWorker_RunsJobsOneAtATime(t *testing.T) {
	pool := worker.NewPool[struct{}](1, 8)

	var mu sync.Mutex
	running := 0
	maxRunning := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Do(func() struct{} {
				mu.Lock()
				running++
				if running > maxRunning {
					maxRunning = running
				}
				mu.Unlock()

				mu.Lock()
				running--
				mu.Unlock()
				return struct{}{}
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxRunning, "a single-worker pool must never overlap jobs")
}
