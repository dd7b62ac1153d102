package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const interval = 10 * time.Second

// countingPass 每次调用都向 calls 发送一次，返回 results 中对应的错误
func countingPass(calls chan<- int, results ...error) Pass {
	n := 0
	return func(ctx context.Context) error {
		n++
		calls <- n
		if n <= len(results) {
			return results[n-1]
		}
		return nil
	}
}

func waitCall(t *testing.T, calls <-chan int) int {
	select {
	case n := <-calls:
		return n
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for pass")
	}
	return 0
}

func TestRunEveryInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	calls := make(chan int, 10)
	ctx, cancel := context.WithCancel(context.Background())

	s := New(countingPass(calls), Options{Interval: interval, Clock: clock})
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// 启动后立即执行第一轮
	assert.Equal(t, 1, waitCall(t, calls))

	for i := 2; i <= 3; i++ {
		clock.BlockUntil(1)
		select {
		case <-calls:
			t.Fatal("pass ran before the interval elapsed")
		default:
		}
		clock.Advance(interval)
		assert.Equal(t, i, waitCall(t, calls))
	}

	clock.BlockUntil(1)
	cancel()
	require.NoError(t, <-done)
}

func TestRunExitsOnError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	calls := make(chan int, 10)
	passErr := errors.New("scan /src: path not found")

	s := New(countingPass(calls, passErr), Options{Interval: interval, Clock: clock})
	err := s.Run(context.Background())
	assert.Equal(t, passErr, err)
	assert.Len(t, calls, 1)
}

func TestRunContinueOnError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	calls := make(chan int, 10)
	ctx, cancel := context.WithCancel(context.Background())

	s := New(countingPass(calls, errors.New("boom")), Options{
		Interval:        interval,
		Clock:           clock,
		ContinueOnError: true,
	})
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Equal(t, 1, waitCall(t, calls))
	clock.BlockUntil(1)
	clock.Advance(interval)
	assert.Equal(t, 2, waitCall(t, calls))

	clock.BlockUntil(1)
	cancel()
	require.NoError(t, <-done)
}

func TestRunCancelledDuringPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pass := func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	}

	s := New(pass, Options{Interval: interval, Clock: clockwork.NewFakeClock()})
	assert.NoError(t, s.Run(ctx))
}
