package scheduler

import "context"

// Work is a unit of asynchronous work executed by the pool.
type Work[T any] func(ctx context.Context) (T, error)

// Result carries the outcome of a unit of work.
type Result[T any] struct {
	Data T
	Err  error
}

// Future is the caller's handle on submitted work: a channel carrying the
// eventual result and a way to cancel the work's context.
type Future[T any] struct {
	out    chan T
	cancel context.CancelFunc
}

func newFuture[T any](out chan T, cancel context.CancelFunc) *Future[T] {
	return &Future[T]{out: out, cancel: cancel}
}

// C returns the channel the result is delivered on. The channel is buffered,
// so a worker never blocks on an abandoned future.
func (f *Future[T]) C() chan T {
	return f.out
}

// Stop cancels the context passed to the work function.
func (f *Future[T]) Stop() {
	f.cancel()
}
