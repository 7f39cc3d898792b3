package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"challenger/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSEventPublisher_LocalHandlersWithoutNATS(t *testing.T) {
	publisher := NewNATSEventPublisher(nil, NewEventSubjectMapper())

	var calls []string
	publisher.RegisterLocalHandler(events.EventTypeChallengeAccepted, func(ctx context.Context, event events.Event) error {
		calls = append(calls, "first")
		return errors.New("handler failed")
	})
	publisher.RegisterLocalHandler(events.EventTypeChallengeAccepted, func(ctx context.Context, event events.Event) error {
		calls = append(calls, "second")
		return nil
	})

	err := publisher.Publish(events.ChallengeAcceptedEvent{ChallengeID: 1})
	require.NoError(t, err)

	// A failing handler does not stop the next one
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestNATSEventPublisher_IgnoresUnregisteredTypes(t *testing.T) {
	publisher := NewNATSEventPublisher(nil, NewEventSubjectMapper())

	called := false
	publisher.RegisterLocalHandler(events.EventTypeChallengeAccepted, func(ctx context.Context, event events.Event) error {
		called = true
		return nil
	})

	require.NoError(t, publisher.Publish(events.ChallengeCreatedEvent{ChallengeID: 1}))
	assert.False(t, called)
	assert.NoError(t, publisher.EnsureDomainEventStream())
}

func TestNATSEventPublisher_Envelope(t *testing.T) {
	publisher := NewNATSEventPublisher(nil, NewEventSubjectMapper())

	data, envelope, err := publisher.encode(events.EvidenceSubmittedEvent{ChallengeID: 7, EvidenceID: 3, UserID: 100})
	require.NoError(t, err)

	assert.NotEmpty(t, envelope.EventID)
	assert.Equal(t, "evidence_submitted", envelope.EventType)
	assert.Equal(t, "challenger", envelope.SourceService)

	var decoded EventEnvelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, envelope.EventID, decoded.EventID)

	var payload events.EvidenceSubmittedEvent
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	assert.Equal(t, int64(7), payload.ChallengeID)
	assert.Equal(t, int64(3), payload.EvidenceID)
}
