package events

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures events it receives and optionally fails.
type recordingHandler struct {
	received []*Event
	err      error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.received = append(h.received, event)
	return h.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewEvent(t *testing.T) {
	payload := struct {
		ContactID uuid.UUID `json:"contact_id"`
	}{ContactID: uuid.New()}

	event, err := NewEvent(TypeContactCreated, payload)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeContactCreated, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded struct {
		ContactID uuid.UUID `json:"contact_id"`
	}
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload.ContactID, decoded.ContactID)
}

func TestNewEventUnserializablePayload(t *testing.T) {
	_, err := NewEvent(TypeContactCreated, make(chan int))
	assert.Error(t, err)
}

func TestEmitEventNoHandlers(t *testing.T) {
	emitter := NewInMemoryEventEmitter(testLogger())

	event, err := NewEvent(TypeContactCreateRequested, map[string]string{"k": "v"})
	require.NoError(t, err)

	// No handlers registered is not an error
	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
}

func TestEmitEventDispatchesToAllHandlers(t *testing.T) {
	emitter := NewInMemoryEventEmitter(testLogger())
	h1 := &recordingHandler{}
	h2 := &recordingHandler{}
	emitter.RegisterHandler(h1)
	emitter.RegisterHandler(h2)

	event, err := NewEvent(TypeContactCreateRequested, map[string]string{"k": "v"})
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	assert.Len(t, h1.received, 1)
	assert.Len(t, h2.received, 1)
	assert.Equal(t, event.ID, h1.received[0].ID)
}

func TestEmitEventHandlerFailure(t *testing.T) {
	emitter := NewInMemoryEventEmitter(testLogger())
	handlerErr := errors.New("handler failed")
	failing := &recordingHandler{err: handlerErr}
	succeeding := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(succeeding)

	event, err := NewEvent(TypeContactCreateRequested, map[string]string{"k": "v"})
	require.NoError(t, err)

	// First error is returned, but all handlers still run
	err = emitter.EmitEvent(context.Background(), event)
	assert.ErrorIs(t, err, handlerErr)
	assert.Len(t, succeeding.received, 1)
}
