package infrastructure

import (
	"fmt"

	"challenger/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

var eventSubjects = map[events.EventType]string{
	events.EventTypeChallengeCreated:     "challenges.created",
	events.EventTypeChallengeAccepted:    "challenges.accepted",
	events.EventTypeChallengeStateChange: "challenges.state_changed",
	events.EventTypeJudgeAssigned:        "challenges.judge_assigned",
	events.EventTypeComplianceEvaluated:  "challenges.compliance_evaluated",
	events.EventTypeChallengeCompleted:   "challenges.completed",
	events.EventTypeEvidenceSubmitted:    "evidence.submitted",
	events.EventTypeEvidenceReviewed:     "evidence.reviewed",
	events.EventTypeBalanceChange:        "ledger.balance_changed",
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := m.SubjectForType(event.Type()); ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// SubjectForType returns the subject events of eventType are published on
func (m *EventSubjectMapper) SubjectForType(eventType events.EventType) (string, bool) {
	subject, ok := eventSubjects[eventType]
	return subject, ok
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range eventSubjects {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns the subject filters of the domain event stream
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"challenges.*",
		"evidence.*",
		"ledger.*",
	}
}
