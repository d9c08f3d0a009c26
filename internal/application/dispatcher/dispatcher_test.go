package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/openhousing/processes/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(kind event.Kind) *event.Event {
	return event.New(kind, "proc-1", "soletojoint", "tenure-1")
}

func TestPublishInvokesSubscribedHandlers(t *testing.T) {
	d := New()

	var got []*event.Event
	d.Subscribe(event.KindProcessStarted, "recorder", func(ctx context.Context, evt *event.Event) error {
		got = append(got, evt)
		return nil
	})

	err := d.Publish(context.Background(), newEvent(event.KindProcessStarted))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "proc-1", got[0].ProcessID)

	// Other kinds do not reach the handler
	err = d.Publish(context.Background(), newEvent(event.KindProcessClosed))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSubscribeAllReceivesEveryKind(t *testing.T) {
	d := New()

	var mu sync.Mutex
	seen := make(map[event.Kind]int)
	d.SubscribeAll("audit", func(ctx context.Context, evt *event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen[evt.Kind]++
		return nil
	})

	for _, kind := range event.Kinds() {
		require.NoError(t, d.Publish(context.Background(), newEvent(kind)))
	}

	assert.Len(t, seen, len(event.Kinds()))
}

func TestPublishReturnsFirstHandlerError(t *testing.T) {
	d := New()
	wantErr := errors.New("handler broke")

	d.Subscribe(event.KindProcessUpdated, "broken", func(ctx context.Context, evt *event.Event) error {
		return wantErr
	})

	reached := false
	d.Subscribe(event.KindProcessUpdated, "after", func(ctx context.Context, evt *event.Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), newEvent(event.KindProcessUpdated))
	require.ErrorIs(t, err, wantErr)
	assert.False(t, reached, "handlers after a failure must not run")
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	d := New()

	d.Subscribe(event.KindProcessUpdated, "panicky", func(ctx context.Context, evt *event.Event) error {
		panic("boom")
	})

	err := d.Publish(context.Background(), newEvent(event.KindProcessUpdated))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestPublishAsyncCompletesBeforeClose(t *testing.T) {
	d := New()

	var mu sync.Mutex
	count := 0
	d.Subscribe(event.KindProcessCompleted, "counter", func(ctx context.Context, evt *event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		return nil
	})

	for i := 0; i < 5; i++ {
		d.PublishAsync(context.Background(), newEvent(event.KindProcessCompleted))
	}

	// Close waits for in-flight async handlers
	require.NoError(t, d.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, count)
}

func TestPublishAfterClose(t *testing.T) {
	d := New()
	require.NoError(t, d.Close())

	err := d.Publish(context.Background(), newEvent(event.KindProcessStarted))
	require.Error(t, err)

	assert.Error(t, d.Close(), "second close must fail")
}
