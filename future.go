package relaypager

import (
	"context"
	"fmt"
)

// Future is a value that becomes available later. It settles exactly once.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a settled future holding value.
func Resolved[T any](value T) *Future[T] {
	f := newFuture[T]()
	f.settle(value, nil)

	return f
}

// Rejected returns a settled future holding err.
func Rejected[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.settle(zero, err)

	return f
}

// Go runs fn in its own goroutine and returns a future of its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		f.settle(safeCall(fn))
	}()

	return f
}

// Then registers a continuation that runs once f settles and returns a future
// of its result. The continuation runs on its own goroutine, so Then never
// blocks. If f is rejected, fn is skipped and the error is carried over.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	next := newFuture[U]()
	go func() {
		<-f.done
		if f.err != nil {
			var zero U
			next.settle(zero, f.err)
			return
		}
		next.settle(safeCall(func() (U, error) { return fn(f.value) }))
	}()

	return next
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the result is available.
func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the future settles or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) wait() (T, error) {
	<-f.done
	return f.value, f.err
}

func (f *Future[T]) settle(value T, err error) {
	f.value, f.err = value, err
	close(f.done)
}

func safeCall[T any](fn func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in continuation: %v", r)
		}
	}()

	return fn()
}
