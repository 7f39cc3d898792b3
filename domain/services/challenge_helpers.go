package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"challenger/domain"
	"challenger/domain/entities"
	"challenger/domain/events"
	"challenger/domain/interfaces"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
)

const inviteCodeLength = 10

// lockChallenge loads the challenge row FOR UPDATE. Every mutating path goes through here
// so judge, participant and sweep writes to one challenge are serialized.
func lockChallenge(ctx context.Context, challengeRepo interfaces.ChallengeRepository, challengeID int64) (*entities.Challenge, error) {
	challenge, err := challengeRepo.GetByIDForUpdate(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock challenge: %w", err)
	}
	if challenge == nil {
		return nil, domain.NewNotFoundError("challenge", challengeID)
	}
	return challenge, nil
}

// applyStatus sets the status and the timestamp that goes with it
func applyStatus(challenge *entities.Challenge, next entities.ChallengeStatus, now time.Time) {
	challenge.Status = next
	switch next {
	case entities.ChallengeStatusInProgress:
		challenge.StartedAt = &now
		// Terms are locked once the contest is live
		challenge.PrizeFrozen = true
	case entities.ChallengeStatusJudging:
		challenge.JudgingStartedAt = &now
	case entities.ChallengeStatusCompleted:
		challenge.CompletedAt = &now
	case entities.ChallengeStatusClosed:
		challenge.ClosedAt = &now
	case entities.ChallengeStatusCancelled:
		challenge.CancelledAt = &now
	}
}

// transitionChallenge validates and persists a status change, then emits a state change event
func transitionChallenge(ctx context.Context, challengeRepo interfaces.ChallengeRepository, eventPublisher interfaces.EventPublisher, challenge *entities.Challenge, next entities.ChallengeStatus, actorID int64, now time.Time) error {
	old := challenge.Status
	if !old.CanTransitionTo(next) {
		return domain.NewStateError("challenge %d cannot move from %s to %s", challenge.ID, old, next)
	}

	applyStatus(challenge, next, now)

	if err := challengeRepo.Update(ctx, challenge); err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}

	log.WithFields(log.Fields{
		"challengeID": challenge.ID,
		"oldStatus":   old,
		"newStatus":   next,
		"actorID":     actorID,
	}).Info("Challenge status changed")

	publishEvent(eventPublisher, events.ChallengeStateChangeEvent{
		ChallengeID: challenge.ID,
		OldStatus:   old,
		NewStatus:   next,
		ActorID:     actorID,
	})
	return nil
}

// publishEvent hands an event to the unit of work's publisher. Failures never fail the operation.
func publishEvent(eventPublisher interfaces.EventPublisher, event events.Event) {
	if err := eventPublisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to publish event")
	}
}

// normalizeCategory turns free-form category input into the stored slug
func normalizeCategory(category string) string {
	normalized := slug.Make(strings.TrimSpace(category))
	if normalized == "" {
		return entities.DefaultCategory
	}
	return normalized
}

func newInviteCode() string {
	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(code[:inviteCodeLength])
}

func principalUserIDs(principals []*entities.Participant) []int64 {
	ids := make([]int64, 0, len(principals))
	for _, p := range principals {
		ids = append(ids, p.UserID)
	}
	return ids
}

func opponentOf(principals []*entities.Participant, userID int64) *int64 {
	for _, p := range principals {
		if p.UserID != userID {
			id := p.UserID
			return &id
		}
	}
	return nil
}
