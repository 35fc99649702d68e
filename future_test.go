package relaypager

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Future_Then(t *testing.T) {
	release := make(chan struct{})
	f := Go(func() (int, error) {
		<-release
		return 2, nil
	})

	var calls atomic.Int32
	next := Then(f, func(v int) (string, error) {
		calls.Add(1)
		return string(rune('a' + v)), nil
	})

	// Registering the continuation does not wait for f.
	require.False(t, f.Settled())
	require.False(t, next.Settled())

	close(release)
	v, err := next.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "c", v)
	require.EqualValues(t, 1, calls.Load())
}

func Test_Future_ThenRejected(t *testing.T) {
	boom := errors.New("boom")
	called := false

	next := Then(Rejected[int](boom), func(int) (int, error) {
		called = true
		return 0, nil
	})

	_, err := next.Await(context.Background())
	require.ErrorIs(t, err, boom)
	require.False(t, called)
}

func Test_Future_PanicBecomesError(t *testing.T) {
	f := Go(func() (int, error) {
		panic("unexpected")
	})

	_, err := f.Await(context.Background())
	require.ErrorContains(t, err, "unexpected")
}

func Test_Future_AwaitContext(t *testing.T) {
	f := Go(func() (int, error) {
		time.Sleep(time.Second)
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func Test_Resolved(t *testing.T) {
	f := Resolved(42)
	require.True(t, f.Settled())

	select {
	case <-f.Done():
	default:
		t.Fatal("resolved future must be done")
	}

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, v)
}
