package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var got []Event
	d.Subscribe(EventLoggedOut, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventLoggedOut, "u1", "u1", nil)))
	require.NoError(t, d.Publish(context.Background(), NewEvent(EventSessionIssued, "u1", "u1", nil)))

	require.Len(t, got, 1)
	require.Equal(t, "u1", got[0].Identity)
	require.NotEmpty(t, got[0].ID)
	require.False(t, got[0].Timestamp.IsZero())
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	calls := 0
	d.Subscribe(EventSessionRevoked, func(context.Context, Event) error {
		calls++
		return errors.New("boom")
	})
	d.Subscribe(EventSessionRevoked, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventSessionRevoked, "u2", "admin", nil)))
	require.Equal(t, 2, calls)
	require.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}
