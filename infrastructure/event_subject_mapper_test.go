package infrastructure

import (
	"testing"

	"challenger/domain/events"

	"github.com/stretchr/testify/assert"
)

type unknownEvent struct{}

func (unknownEvent) Type() events.EventType { return "mystery" }

func TestEventSubjectMapper(t *testing.T) {
	mapper := NewEventSubjectMapper()

	tests := []struct {
		event   events.Event
		subject string
	}{
		{events.ChallengeCreatedEvent{}, "challenges.created"},
		{events.ChallengeStateChangeEvent{}, "challenges.state_changed"},
		{events.ChallengeCompletedEvent{}, "challenges.completed"},
		{events.EvidenceReviewedEvent{}, "evidence.reviewed"},
		{events.BalanceChangeEvent{}, "ledger.balance_changed"},
		{unknownEvent{}, "unknown.mystery"},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.subject, mapper.MapEventToSubject(tt.event))
		})
	}
}

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	mapper := NewEventSubjectMapper()

	for eventType, subject := range eventSubjects {
		assert.Equal(t, eventType, mapper.MapSubjectToEventType(subject))
	}
	assert.Equal(t, events.EventType("other.subject"), mapper.MapSubjectToEventType("other.subject"))
}
