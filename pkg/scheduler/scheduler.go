// Package scheduler runs submitted work on a bounded pool of workers.
//
// Work is queued FIFO and dispatched as workers free up. Each unit gets a
// context derived from the scheduler's root context; cancelling the future
// cancels only that unit, closing the scheduler cancels everything and then
// waits for in-flight work to finish. Work still queued when the scheduler
// closes, or submitted after Close, resolves with context.Canceled.
package scheduler

import (
	"context"
	"fmt"
	"sync"
)

type request struct {
	fn  Work[any]
	out chan Result[any]
	ctx context.Context
}

// Scheduler dispatches work to a fixed number of workers.
type Scheduler struct {
	pending  []request
	free     int
	submit   chan request
	finished chan struct{}
	closing  chan struct{}
	done     chan struct{}

	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

// New creates a scheduler with nbWorkers workers and starts its dispatch loop.
func New(nbWorkers int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		free:       nbWorkers,
		submit:     make(chan request),
		finished:   make(chan struct{}, nbWorkers),
		closing:    make(chan struct{}),
		done:       make(chan struct{}),
		rootCtx:    ctx,
		rootCancel: cancel,
	}
	go s.run()
	return s
}

// Submit queues work for execution and returns a future for its result.
func (s *Scheduler) Submit(w Work[any]) *Future[Result[any]] {
	out := make(chan Result[any], 1)
	ctx, cancel := context.WithCancel(s.rootCtx)

	select {
	case <-s.rootCtx.Done():
		out <- Result[any]{Err: context.Canceled}
	case s.submit <- request{fn: w, out: out, ctx: ctx}:
	}

	return newFuture(out, cancel)
}

// Close cancels all outstanding work and blocks until in-flight work returns.
// Safe to call more than once.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.rootCancel()
		s.closing <- struct{}{}
		<-s.done
	})
}

func (s *Scheduler) run() {
	defer close(s.done)
	for {
		select {
		case r := <-s.submit:
			s.pending = append(s.pending, r)
			s.dispatch()
		case <-s.finished:
			s.free++
			s.dispatch()
		case <-s.closing:
			for _, r := range s.pending {
				r.out <- Result[any]{Err: context.Canceled}
			}
			s.pending = nil
			s.wg.Wait()
			return
		}
	}
}

// dispatch starts as much pending work as free workers allow.
func (s *Scheduler) dispatch() {
	for s.free > 0 && len(s.pending) > 0 {
		r := s.pending[0]
		s.pending = s.pending[1:]
		s.free--
		s.wg.Add(1)
		go s.execute(r)
	}
}

func (s *Scheduler) execute(r request) {
	defer func() {
		if rec := recover(); rec != nil {
			r.out <- Result[any]{Err: fmt.Errorf("worker panicked: %v", rec)}
		}
		s.finished <- struct{}{}
		s.wg.Done()
	}()

	v, err := r.fn(r.ctx)
	r.out <- Result[any]{Data: v, Err: err}
}
