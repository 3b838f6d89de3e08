package loop

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startLoop(t *testing.T, cfg Config) *Loop {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	l := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})
	return l
}

func TestCallRunsOnLoop(t *testing.T) {
	l := startLoop(t, Config{})

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, l.Dispatch(func() { order = append(order, i) }))
	}
	var got []int
	require.NoError(t, l.Call(context.Background(), func() { got = append(got, order...) }))

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)

	// Handled is counted after a callback returns; one more round trip
	// makes the previous count visible.
	require.NoError(t, l.Call(context.Background(), func() {}))
	assert.GreaterOrEqual(t, l.Handled(), uint64(11))
}

func TestCallFromManyGoroutines(t *testing.T) {
	l := startLoop(t, Config{})

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Call(context.Background(), func() { counter++ })
		}()
	}
	wg.Wait()

	var final int
	require.NoError(t, l.Call(context.Background(), func() { final = counter }))
	assert.Equal(t, 50, final)
}

func TestPanicIsRecovered(t *testing.T) {
	l := startLoop(t, Config{})

	err := l.Call(context.Background(), func() { panic("boom") })
	require.Error(t, err)

	ran := false
	require.NoError(t, l.Call(context.Background(), func() { ran = true }))
	assert.True(t, ran, "loop must survive a panicking callback")
}

func TestStop(t *testing.T) {
	l := New(Config{Logger: quietLogger()})
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(context.Background()) }()

	require.NoError(t, l.Call(context.Background(), func() {}))
	l.Stop()
	l.Stop()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	assert.ErrorIs(t, l.Dispatch(func() {}), ErrStopped)
	assert.ErrorIs(t, l.Call(context.Background(), func() {}), ErrStopped)
}

func TestQueueFull(t *testing.T) {
	// Not running, so nothing drains the queue.
	l := New(Config{QueueSize: 2, Logger: quietLogger()})
	require.NoError(t, l.Dispatch(func() {}))
	require.NoError(t, l.Dispatch(func() {}))
	assert.ErrorIs(t, l.Dispatch(func() {}), ErrQueueFull)
}

func TestCallContextCanceled(t *testing.T) {
	l := New(Config{QueueSize: 1, Logger: quietLogger()})
	require.NoError(t, l.Dispatch(func() {}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Call(ctx, func() {})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRunTwice(t *testing.T) {
	l := startLoop(t, Config{})
	require.NoError(t, l.Call(context.Background(), func() {}))
	assert.Error(t, l.Run(context.Background()))
}
