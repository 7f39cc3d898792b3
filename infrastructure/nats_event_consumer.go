package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"challenger/domain/events"

	log "github.com/sirupsen/logrus"
)

// messageSubscriber is satisfied by *NATSClient
type messageSubscriber interface {
	Subscribe(subject string, handler func([]byte) error) error
}

// NATSEventConsumer delivers domain events read back from the challenger_events stream
// to handlers in this process. Unlike local publisher handlers it also sees events
// committed by other processes, such as a cron-driven sweep.
type NATSEventConsumer struct {
	client        messageSubscriber
	subjectMapper *EventSubjectMapper
	handlers      map[events.EventType][]EventHandler
}

// NewNATSEventConsumer creates a consumer over a connected NATS client
func NewNATSEventConsumer(client *NATSClient, subjectMapper *EventSubjectMapper) *NATSEventConsumer {
	return &NATSEventConsumer{
		client:        client,
		subjectMapper: subjectMapper,
		handlers:      make(map[events.EventType][]EventHandler),
	}
}

// RegisterLocalHandler registers a handler for events of eventType consumed from the stream.
// All handlers must be registered before Start.
func (c *NATSEventConsumer) RegisterLocalHandler(eventType events.EventType, handler EventHandler) {
	c.handlers[eventType] = append(c.handlers[eventType], handler)
}

// Start subscribes to the subject of every event type that has a handler
func (c *NATSEventConsumer) Start() error {
	for eventType := range c.handlers {
		subject, ok := c.subjectMapper.SubjectForType(eventType)
		if !ok {
			return fmt.Errorf("no subject for event type %s", eventType)
		}
		if err := c.client.Subscribe(subject, c.handle); err != nil {
			return err
		}
	}
	return nil
}

func (c *NATSEventConsumer) handle(data []byte) error {
	event, envelope, err := decodeEnvelope(data)
	if err != nil {
		// Redelivery cannot fix a malformed message, so it is acknowledged and dropped
		log.WithError(err).Error("Dropping undecodable event message")
		return nil
	}

	ctx := context.Background()
	for _, handler := range c.handlers[event.Type()] {
		if err := handler(ctx, event); err != nil {
			return fmt.Errorf("handler for event %s failed: %w", envelope.EventID, err)
		}
	}
	return nil
}

var eventDecoders = map[events.EventType]func(json.RawMessage) (events.Event, error){
	events.EventTypeChallengeCreated:     decodeAs[events.ChallengeCreatedEvent],
	events.EventTypeChallengeAccepted:    decodeAs[events.ChallengeAcceptedEvent],
	events.EventTypeChallengeStateChange: decodeAs[events.ChallengeStateChangeEvent],
	events.EventTypeJudgeAssigned:        decodeAs[events.JudgeAssignedEvent],
	events.EventTypeComplianceEvaluated:  decodeAs[events.ComplianceEvaluatedEvent],
	events.EventTypeChallengeCompleted:   decodeAs[events.ChallengeCompletedEvent],
	events.EventTypeEvidenceSubmitted:    decodeAs[events.EvidenceSubmittedEvent],
	events.EventTypeEvidenceReviewed:     decodeAs[events.EvidenceReviewedEvent],
	events.EventTypeBalanceChange:        decodeAs[events.BalanceChangeEvent],
}

func decodeAs[T events.Event](payload json.RawMessage) (events.Event, error) {
	var event T
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return event, nil
}

// decodeEnvelope reverses NATSEventPublisher.encode
func decodeEnvelope(data []byte) (events.Event, *EventEnvelope, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	decode, ok := eventDecoders[events.EventType(envelope.EventType)]
	if !ok {
		return nil, nil, fmt.Errorf("unknown event type %q", envelope.EventType)
	}

	event, err := decode(envelope.Payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal %s payload: %w", envelope.EventType, err)
	}
	return event, &envelope, nil
}
