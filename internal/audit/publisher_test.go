package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algowatch/pkg/requestcontext"
)

func TestEmitStampsEvent(t *testing.T) {
	p := NewPublisher(4)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithRequestID(requestcontext.WithTime(context.Background(), now), "req-1")

	require.NoError(t, p.Emit(ctx, Event{Action: ActionKitCreated, ResourceID: "k1"}))

	event := <-p.Inbox()
	assert.Equal(t, now, event.Timestamp)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, ActionKitCreated, event.Action)
}

func TestEmitKeepsExplicitFields(t *testing.T) {
	p := NewPublisher(1)
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.Emit(context.Background(), Event{Timestamp: at, RequestID: "given"}))

	event := <-p.Inbox()
	assert.Equal(t, at, event.Timestamp)
	assert.Equal(t, "given", event.RequestID)
}

func TestEmitNeverBlocks(t *testing.T) {
	p := NewPublisher(2)
	require.NoError(t, p.Emit(context.Background(), Event{}))
	require.NoError(t, p.Emit(context.Background(), Event{}))

	err := p.Emit(context.Background(), Event{})
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 2, p.Pending())
}
