package events

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_LocalDispatchWithoutValkey(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	var received []Event
	require.NoError(t, bus.Subscribe(JOB_CHANNEL, func(event Event) error {
		received = append(received, event)
		return nil
	}))

	jobID := uuid.New()
	require.NoError(t, bus.PublishJobEvent(jobID, MESSAGE_CREATED, map[string]any{"content": "hi"}))

	require.Len(t, received, 1)
	event := received[0]
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, JOB_CHANNEL, event.Channel)
	assert.Equal(t, MESSAGE_CREATED, event.Type)
	assert.Equal(t, jobID, *event.JobID)
	assert.Equal(t, "hi", event.Data["content"])
}

func TestPublish_PreservesOrderAndSurvivesHandlerErrors(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	var order []MessageType
	require.NoError(t, bus.Subscribe(JOB_CHANNEL, func(event Event) error {
		return errors.New("first handler fails")
	}))
	require.NoError(t, bus.Subscribe(JOB_CHANNEL, func(event Event) error {
		order = append(order, event.Type)
		return nil
	}))

	jobID := uuid.New()
	for _, eventType := range []MessageType{MESSAGE_CREATED, MESSAGE_UPDATED, MESSAGE_READ} {
		require.NoError(t, bus.PublishJobEvent(jobID, eventType, nil))
	}

	assert.Equal(t, []MessageType{MESSAGE_CREATED, MESSAGE_UPDATED, MESSAGE_READ}, order)
}

func TestPublish_OtherChannelsNotNotified(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	called := false
	require.NoError(t, bus.Subscribe(Channel("other"), func(event Event) error {
		called = true
		return nil
	}))

	require.NoError(t, bus.PublishJobEvent(uuid.New(), MESSAGE_DELETED, nil))
	assert.False(t, called)
}

func TestToData(t *testing.T) {
	payload := struct {
		ReaderID   uuid.UUID   `json:"readerId"`
		MessageIDs []uuid.UUID `json:"messageIds"`
	}{
		ReaderID:   uuid.New(),
		MessageIDs: []uuid.UUID{uuid.New()},
	}

	data, err := ToData(payload)
	require.NoError(t, err)
	assert.Equal(t, payload.ReaderID.String(), data["readerId"])
	assert.Len(t, data["messageIds"], 1)

	_, err = ToData(make(chan int))
	assert.Error(t, err)
}
