package application

import (
	"challenger/domain/events"
	"challenger/domain/interfaces"
)

// RegisterApplicationSubscriptions wires the in-process reactions to committed domain events:
// gamification points and metrics
func RegisterApplicationSubscriptions(subscriber EventSubscriber, awarder interfaces.PointsAwarder) {
	gamificationHandler := NewGamificationHandler(awarder)
	subscriber.RegisterLocalHandler(events.EventTypeChallengeCreated, gamificationHandler.HandleChallengeCreated)
	subscriber.RegisterLocalHandler(events.EventTypeChallengeAccepted, gamificationHandler.HandleChallengeAccepted)
	subscriber.RegisterLocalHandler(events.EventTypeChallengeCompleted, gamificationHandler.HandleChallengeCompleted)

	subscriber.RegisterLocalHandler(events.EventTypeChallengeStateChange, recordTransition)
	subscriber.RegisterLocalHandler(events.EventTypeChallengeCompleted, recordSettlement)
	subscriber.RegisterLocalHandler(events.EventTypeBalanceChange, recordLedgerTransaction)
}

// RegisterNotificationSubscriptions wires user notifications. Register them on exactly one
// subscriber, the local publisher or the stream consumer, so each event notifies once.
func RegisterNotificationSubscriptions(subscriber EventSubscriber, notifier interfaces.Notifier) {
	notificationHandler := NewNotificationHandler(notifier)
	subscriber.RegisterLocalHandler(events.EventTypeEvidenceSubmitted, notificationHandler.HandleEvidenceSubmitted)
	subscriber.RegisterLocalHandler(events.EventTypeEvidenceReviewed, notificationHandler.HandleEvidenceReviewed)
	subscriber.RegisterLocalHandler(events.EventTypeJudgeAssigned, notificationHandler.HandleJudgeAssigned)
	subscriber.RegisterLocalHandler(events.EventTypeChallengeCompleted, notificationHandler.HandleChallengeCompleted)
}
