package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRemover fails the first n delivery attempts.
type flakyRemover struct {
	mu       sync.Mutex
	failures int
	calls    []string
}

func (f *flakyRemover) RemoveContent(ctx context.Context, contentID string, contentType ContentType, idempotencyKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, idempotencyKey)
	if len(f.calls) <= f.failures {
		return errors.New("downstream unavailable")
	}
	return nil
}

func (f *flakyRemover) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type nopSuspender struct{}

func (nopSuspender) SuspendUser(ctx context.Context, userID, reason, idempotencyKey string) error {
	return nil
}

func newTestDispatcher(content ContentRemover, users UserSuspender) *Dispatcher {
	d := NewDispatcher(content, users)
	// Tight delays keep the retry tests fast
	d.baseDelay = time.Millisecond
	d.perAttempt = time.Second
	return d
}

func TestDispatcherDelivers(t *testing.T) {
	remover := &flakyRemover{}
	d := newTestDispatcher(remover, nopSuspender{})

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Enqueue(Command{
		Kind:           CommandRemoveContent,
		IdempotencyKey: "report-1",
		ContentID:      "post-1",
		ContentType:    ContentTypePost,
	})

	require.Eventually(t, func() bool {
		return remover.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	d.Wait()
}

func TestDispatcherRetriesUntilSuccess(t *testing.T) {
	remover := &flakyRemover{failures: 2}
	d := newTestDispatcher(remover, nopSuspender{})

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Enqueue(Command{
		Kind:           CommandRemoveContent,
		IdempotencyKey: "report-2",
		ContentID:      "post-1",
		ContentType:    ContentTypePost,
	})

	// Two failures, then the third attempt lands
	require.Eventually(t, func() bool {
		return remover.callCount() == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	d.Wait()

	// Every attempt carried the same idempotency key
	for _, key := range remover.calls {
		assert.Equal(t, "report-2", key)
	}
}

func TestDispatcherGivesUpAfterMaxAttempts(t *testing.T) {
	remover := &flakyRemover{failures: 100}
	d := newTestDispatcher(remover, nopSuspender{})

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Enqueue(Command{
		Kind:           CommandRemoveContent,
		IdempotencyKey: "report-3",
		ContentID:      "post-1",
		ContentType:    ContentTypePost,
	})

	require.Eventually(t, func() bool {
		return remover.callCount() == d.maxAttempts
	}, time.Second, 5*time.Millisecond)

	// No further attempts after exhaustion
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, d.maxAttempts, remover.callCount())

	cancel()
	d.Wait()
}

func TestDispatcherDropsWhenSaturated(t *testing.T) {
	d := NewDispatcher(&flakyRemover{}, nopSuspender{})
	d.queue = make(chan Command, 1)
	// Never started: the queue fills and stays full

	d.Enqueue(Command{Kind: CommandSuspendUser, IdempotencyKey: "a"})
	d.Enqueue(Command{Kind: CommandSuspendUser, IdempotencyKey: "b"})

	// The second command was dropped rather than blocking the caller
	assert.Len(t, d.queue, 1)
}
