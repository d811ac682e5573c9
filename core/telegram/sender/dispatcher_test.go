package sender

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 8, Workers: 2})
	defer d.Close()

	var mu sync.Mutex
	ran := 0
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, ran)
	assert.Equal(t, uint64(0), d.ErrorCount())
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	defer d.Close()

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, d.Enqueue(context.Background(), "a", "", func() error {
		close(started)
		<-block
		return nil
	}))
	<-started

	// Worker is busy; fill the single queue slot, then overflow.
	require.NoError(t, d.Enqueue(context.Background(), "b", "", func() error { return nil }))
	err := d.Enqueue(context.Background(), "c", "", func() error { return nil })
	assert.ErrorIs(t, err, ErrQueueFull)

	close(block)
}

func TestDispatcherClosedQueue(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	d.Close()

	err := d.Enqueue(context.Background(), "a", "", func() error { return nil })
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestDispatcherCountsFailures(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 4, Workers: 1, MaxRetries: 0, MaxDuration: time.Second})

	done := make(chan struct{})
	require.NoError(t, d.Enqueue(context.Background(), "a", "", func() error {
		defer close(done)
		return errors.New("400 bad request")
	}))
	<-done
	d.Close()

	assert.Equal(t, uint64(1), d.ErrorCount())
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, "", classifyError(nil))
	assert.Equal(t, "timeout", classifyError(context.DeadlineExceeded))
	assert.Equal(t, "dns", classifyError(&net.DNSError{Err: "no such host"}))
	assert.Equal(t, "timeout", classifyError(&net.DNSError{Err: "lookup timeout", IsTimeout: true}))
	assert.Equal(t, "dial", classifyError(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.Equal(t, "unknown", classifyError(errors.New("418 teapot")))
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New("Post https://api.telegram.org/bot123456:AAEhBOweik6ad9r_QXMENQjcrGbqCr4K-pk/sendMessage: EOF")
	got := sanitizeErrorMessage(err)
	assert.NotContains(t, got, "123456:AAE")
	assert.Contains(t, got, "bot<redacted>")
}
