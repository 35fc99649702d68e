package relaypager

import (
	"context"
	"iter"
	"slices"
)

// Source is what a resolver hands back. It is one of:
//   - *Query[T]: a lazy query, counted and sliced in the database;
//   - Materialized[T]: an already realized slice;
//   - Seq[T]: any other iterable, realized on normalization;
//   - *Pending[T]: a source that is not available yet.
//
// A nil Source means the resolver does not override the default manager.
type Source[T any] interface {
	sealed(*T)
}

// Collection is a normalized Source: either a *Query[T] or a Materialized[T].
type Collection[T any] interface {
	Source[T]
	// Len returns the number of elements.
	Len(ctx context.Context) (int64, error)
	// Slice returns the elements within [start, end).
	Slice(ctx context.Context, start, end int) ([]T, error)
}

// Materialized is a concrete ordered sequence.
type Materialized[T any] []T

func (Materialized[T]) sealed(*T) {}

func (m Materialized[T]) Len(_ context.Context) (int64, error) {
	return int64(len(m)), nil
}

func (m Materialized[T]) Slice(_ context.Context, start, end int) ([]T, error) {
	start = max(start, 0)
	end = min(end, len(m))
	if start >= end {
		return []T{}, nil
	}

	return m[start:end], nil
}

// Seq wraps an arbitrary iterable. It is realized into Materialized by
// MaybeQuery.
type Seq[T any] iter.Seq[T]

func (Seq[T]) sealed(*T) {}

// Pending is a Source that settles later.
type Pending[T any] struct {
	future *Future[Source[T]]
}

func (*Pending[T]) sealed(*T) {}

// Defer runs fn in its own goroutine and returns its Source as Pending.
func Defer[T any](fn func() (Source[T], error)) *Pending[T] {
	return &Pending[T]{future: Go(fn)}
}

// PendingOf wraps an existing future as a Pending source.
func PendingOf[T any](f *Future[Source[T]]) *Pending[T] {
	return &Pending[T]{future: f}
}

var (
	_ Collection[any] = (*Query[any])(nil)
	_ Collection[any] = Materialized[any](nil)
	_ Source[any]     = Seq[any](nil)
	_ Source[any]     = (*Pending[any])(nil)
)

// MaybeQuery normalizes a settled Source. Lazy queries and realized slices
// are returned as-is, any other iterable is collected into Materialized.
// A nil or pending Source yields nil.
func MaybeQuery[T any](src Source[T]) Collection[T] {
	switch s := src.(type) {
	case *Query[T]:
		if s == nil {
			return nil
		}
		return s
	case Materialized[T]:
		return s
	case Seq[T]:
		if s == nil {
			return Materialized[T]{}
		}
		return Materialized[T](slices.Collect(iter.Seq[T](s)))
	default:
		return nil
	}
}

// whenSettled runs fn with src once it is no longer pending. Settled sources
// are handled synchronously; a pending one gets a single continuation that
// also unwraps nested pending sources.
func whenSettled[T, U any](src Source[T], fn func(Source[T]) (U, error)) *Future[U] {
	pending, ok := src.(*Pending[T])
	if !ok || pending == nil {
		if ok {
			src = nil
		}
		value, err := safeCall(func() (U, error) { return fn(src) })
		if err != nil {
			return Rejected[U](err)
		}
		return Resolved(value)
	}

	return Then(pending.future, func(settled Source[T]) (U, error) {
		for {
			next, ok := settled.(*Pending[T])
			if !ok {
				break
			}
			if next == nil {
				settled = nil
				break
			}

			var err error
			settled, err = next.future.wait()
			if err != nil {
				var zero U
				return zero, err
			}
		}

		return fn(settled)
	})
}
