package application

import (
	"context"
	"fmt"

	"challenger/domain/entities"
	"challenger/domain/events"
	"challenger/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Points awarded per gamification action
const (
	PointsCreate = 10
	PointsAccept = 10
	PointsWin    = 50
	PointsJudge  = 20
)

// GamificationHandler awards points for challenge activity.
// Award failures are logged and never returned to the publisher.
type GamificationHandler struct {
	awarder interfaces.PointsAwarder
}

// NewGamificationHandler creates a gamification handler
func NewGamificationHandler(awarder interfaces.PointsAwarder) *GamificationHandler {
	return &GamificationHandler{awarder: awarder}
}

// HandleChallengeCreated rewards the creator
func (h *GamificationHandler) HandleChallengeCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ChallengeCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	h.award(ctx, e.CreatorID, entities.GamificationActionCreate, PointsCreate)
	return nil
}

// HandleChallengeAccepted rewards the challenger
func (h *GamificationHandler) HandleChallengeAccepted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ChallengeAcceptedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	h.award(ctx, e.ChallengerID, entities.GamificationActionAccept, PointsAccept)
	return nil
}

// HandleChallengeCompleted rewards the winner, and the judge when the verdict was theirs
func (h *GamificationHandler) HandleChallengeCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ChallengeCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if e.WinnerID != nil {
		h.award(ctx, *e.WinnerID, entities.GamificationActionWin, PointsWin)
	}
	if e.Source == entities.SettlementSourceVerdict && e.JudgeID != nil {
		h.award(ctx, *e.JudgeID, entities.GamificationActionJudge, PointsJudge)
	}
	return nil
}

func (h *GamificationHandler) award(ctx context.Context, userID int64, action entities.GamificationAction, points int) {
	if err := h.awarder.AwardPoints(ctx, userID, action, points); err != nil {
		log.WithFields(log.Fields{
			"userID": userID,
			"action": action,
			"points": points,
			"error":  err,
		}).Warn("Failed to award points")
	}
}
