package audit

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
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memorySink struct {
	mu     sync.Mutex
	events []Event
	failOn Action
}

func (s *memorySink) Append(_ context.Context, event Event) error {
	if event.Action == s.failOn {
		return errors.New("sink rejected event")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *memorySink) actions() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Action, len(s.events))
	for i, e := range s.events {
		out[i] = e.Action
	}
	return out
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkerDrainsAndSurvivesSinkErrors(t *testing.T) {
	p := NewPublisher(8)
	sink := &memorySink{failOn: ActionKitDeleted}
	w := NewWorker(sink, p.Inbox(), discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, p.Emit(ctx, Event{Action: ActionKitCreated}))
	require.NoError(t, p.Emit(ctx, Event{Action: ActionKitDeleted}))
	require.NoError(t, p.Emit(ctx, Event{Action: ActionKitPublished}))

	assert.Eventually(t, func() bool { return len(sink.actions()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, []Action{ActionKitCreated, ActionKitPublished}, sink.actions())
}

func TestWorkerFlushesQueuedEventsOnShutdown(t *testing.T) {
	p := NewPublisher(8)
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Emit(context.Background(), Event{Action: ActionReportCreated}))
	}
	sink := &memorySink{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewWorker(sink, p.Inbox(), discard()).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, sink.actions(), 5)
	assert.Equal(t, 0, p.Pending())
}

func TestLogSink(t *testing.T) {
	assert.NoError(t, NewLogSink(discard()).Append(context.Background(), Event{Action: ActionKitCreated}))
}
