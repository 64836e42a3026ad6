package recipe

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"recipe-cost/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingProducer struct {
	release chan struct{}
	calls   int32
}

func (p *blockingProducer) Write(ctx context.Context, input string) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	select {
	case <-p.release:
		return "## " + input, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type echoProducer struct{}

func (echoProducer) Write(ctx context.Context, input string) (string, error) {
	if input == "fail" {
		return "", errors.New("model error")
	}
	return "## " + input, nil
}

func TestQueue_Write(t *testing.T) {
	q := NewQueue(echoProducer{}, config.QueueConfig{Workers: 2, MaxSize: 4})
	defer q.Close()

	out, err := q.Write(context.Background(), "soup")
	require.NoError(t, err)
	assert.Equal(t, "## soup", out)

	_, err = q.Write(context.Background(), "fail")
	assert.EqualError(t, err, "model error")

	assert.Equal(t, int64(2), q.Status().ProcessedCount)
	assert.Equal(t, 2, q.Status().Workers)
}

func TestQueue_RejectsWhenFull(t *testing.T) {
	producer := &blockingProducer{release: make(chan struct{})}
	q := NewQueue(producer, config.QueueConfig{Workers: 1, MaxSize: 1})
	defer q.Close()

	results := make(chan error, 2)
	go func() {
		_, err := q.Write(context.Background(), "first")
		results <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&producer.calls) == 1 }, time.Second, time.Millisecond)

	go func() {
		_, err := q.Write(context.Background(), "second")
		results <- err
	}()
	require.Eventually(t, func() bool { return q.Status().QueueLength == 1 }, time.Second, time.Millisecond)

	_, err := q.Write(context.Background(), "third")
	assert.ErrorIs(t, err, ErrQueueFull)

	close(producer.release)
	assert.NoError(t, <-results)
	assert.NoError(t, <-results)
}

func TestQueue_ContextCancelled(t *testing.T) {
	producer := &blockingProducer{release: make(chan struct{})}
	q := NewQueue(producer, config.QueueConfig{Workers: 1, MaxSize: 1})
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Write(ctx, "slow")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_Closed(t *testing.T) {
	q := NewQueue(echoProducer{}, config.QueueConfig{Workers: 1, MaxSize: 1})
	q.Close()
	q.Close()

	_, err := q.Write(context.Background(), "soup")

	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueue_CloseAnswersConcurrentWrites(t *testing.T) {
	producer := &blockingProducer{release: make(chan struct{})}
	q := NewQueue(producer, config.QueueConfig{Workers: 1, MaxSize: 8})

	const writers = 32
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			_, err := q.Write(context.Background(), "stew")
			results <- err
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&producer.calls) == 1 }, time.Second, time.Millisecond)
	close(producer.release)
	q.Close()

	for i := 0; i < writers; i++ {
		select {
		case err := <-results:
			if err != nil {
				assert.True(t, errors.Is(err, ErrQueueClosed) || errors.Is(err, ErrQueueFull), err.Error())
			}
		case <-time.After(time.Second):
			t.Fatalf("write %d did not return after Close", i)
		}
	}

	_, err := q.Write(context.Background(), "late")
	assert.ErrorIs(t, err, ErrQueueClosed)
}
