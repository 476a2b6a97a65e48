// worker/pool.go
package worker

// Job produces a value of type T when run by a pool worker.
type Job[T any] func() T

// Pool runs jobs on a fixed set of workers and hands each result back to
// the submitting caller. With a single worker it doubles as a serializer:
// every job runs one at a time, in submission order.
type Pool[T any] struct {
	jobs chan jobWrapper[T]
}

type jobWrapper[T any] struct {
	fn  Job[T]
	out chan T
}

// NewPool starts workerCount workers reading from a buffered job queue.
func NewPool[T any](workerCount, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool[T]{
		jobs: make(chan jobWrapper[T], bufferSize),
	}

	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	for job := range p.jobs {
		job.out <- job.fn()
	}
}

// Do submits fn and blocks until a worker has run it, returning its result.
func (p *Pool[T]) Do(fn Job[T]) T {
	out := make(chan T, 1)
	p.jobs <- jobWrapper[T]{fn: fn, out: out}
	return <-out
}
