package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherStampsTimestamp(t *testing.T) {
	inbox := make(chan Event, 1)
	p := NewPublisher(inbox)

	require.NoError(t, p.Emit(context.Background(), Event{ComplaintID: "SS-2024-1000", Action: ActionSubmitted}))

	got := <-inbox
	assert.False(t, got.Timestamp.IsZero())
}

func TestPublisherDropsWhenInboxFull(t *testing.T) {
	inbox := make(chan Event) // unbuffered, nothing draining
	p := NewPublisher(inbox)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Emit(context.Background(), Event{ComplaintID: "SS-2024-1000"})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full inbox")
	}
}

func TestWorkerPersistsEvents(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	w := NewWorker(store, inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- w.Run(ctx) }()

	p := NewPublisher(inbox)
	require.NoError(t, p.Emit(ctx, Event{ComplaintID: "SS-2024-1000", Action: ActionAssigned, To: "Assigned"}))
	require.NoError(t, p.Emit(ctx, Event{ComplaintID: "SS-2024-1001", Action: ActionSubmitted}))

	require.Eventually(t, func() bool {
		events, err := store.ListByComplaint(ctx, "SS-2024-1000")
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-stopped, context.Canceled)

	others, err := store.ListByComplaint(context.Background(), "SS-2024-1001")
	require.NoError(t, err)
	assert.Len(t, others, 1)
	assert.Equal(t, ActionSubmitted, others[0].Action)
}
