package application

import (
	"context"
	"fmt"
	"time"

	"challenger/domain/entities"
	"challenger/domain/events"
	"challenger/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const notificationTimeout = 10 * time.Second

// NotificationHandler turns committed domain events into user notifications.
// Delivery failures are logged and never returned to the publisher.
type NotificationHandler struct {
	notifier interfaces.Notifier
}

// NewNotificationHandler creates a notification handler
func NewNotificationHandler(notifier interfaces.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// HandleEvidenceSubmitted tells the opponent and the judge about new evidence
func (h *NotificationHandler) HandleEvidenceSubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.EvidenceSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	payload := map[string]any{
		"message":      "New evidence was submitted in your challenge.",
		"challenge_id": e.ChallengeID,
		"evidence_id":  e.EvidenceID,
		"submitted_by": e.UserID,
	}

	for _, recipient := range []*int64{e.OpponentID, e.JudgeID} {
		if recipient != nil {
			h.notify(ctx, *recipient, entities.NotificationEvidenceSubmitted, payload)
		}
	}
	return nil
}

// HandleEvidenceReviewed tells the evidence owner about the judge's decision
func (h *NotificationHandler) HandleEvidenceReviewed(ctx context.Context, event events.Event) error {
	e, ok := event.(events.EvidenceReviewedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	payload := map[string]any{
		"message":      fmt.Sprintf("Your evidence was %s.", e.Status),
		"challenge_id": e.ChallengeID,
		"evidence_id":  e.EvidenceID,
		"status":       string(e.Status),
	}
	if e.Comments != "" {
		payload["comments"] = e.Comments
	}

	h.notify(ctx, e.OwnerID, entities.NotificationEvidenceReviewed, payload)
	return nil
}

// HandleJudgeAssigned invites the judge candidate
func (h *NotificationHandler) HandleJudgeAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.JudgeAssignedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	h.notify(ctx, e.JudgeID, entities.NotificationJudgeAssigned, map[string]any{
		"message":      fmt.Sprintf("You were asked to judge %q.", e.Title),
		"challenge_id": e.ChallengeID,
		"assigned_by":  e.AssignedBy,
	})
	return nil
}

// HandleChallengeCompleted tells both principals how the challenge ended
func (h *NotificationHandler) HandleChallengeCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ChallengeCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	notificationType := entities.NotificationChallengeCompleted
	if e.Source == entities.SettlementSourceVerdict {
		notificationType = entities.NotificationVerdictIssued
	}

	for _, userID := range e.ParticipantIDs {
		payload := map[string]any{
			"challenge_id": e.ChallengeID,
			"outcome":      string(e.Outcome),
		}
		if e.Reason != "" {
			payload["reason"] = e.Reason
		}

		switch {
		case e.WinnerID == nil:
			payload["message"] = "The challenge ended without a winner."
		case *e.WinnerID == userID:
			payload["message"] = "You won the challenge!"
			payload["prize"] = e.Prize.StringFixed(2)
		default:
			payload["message"] = "The challenge is over. Better luck next time."
		}

		h.notify(ctx, userID, notificationType, payload)
	}
	return nil
}

func (h *NotificationHandler) notify(ctx context.Context, userID int64, notificationType entities.NotificationType, payload map[string]any) {
	ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
	defer cancel()

	if err := h.notifier.Notify(ctx, userID, notificationType, payload); err != nil {
		log.WithFields(log.Fields{
			"userID":           userID,
			"notificationType": notificationType,
			"error":            err,
		}).Warn("Failed to deliver notification")
	}
}
