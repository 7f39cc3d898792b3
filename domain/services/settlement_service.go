package services

import (
	"context"
	"fmt"
	"time"

	"challenger/domain/entities"
	"challenger/domain/events"
	"challenger/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	challengeRepo   interfaces.ChallengeRepository
	participantRepo interfaces.ParticipantRepository
	evidenceRepo    interfaces.EvidenceRepository
	ledgerService   interfaces.LedgerService
	eventPublisher  interfaces.EventPublisher
}

// NewSettlementService creates the automatic settlement service
func NewSettlementService(
	challengeRepo interfaces.ChallengeRepository,
	participantRepo interfaces.ParticipantRepository,
	evidenceRepo interfaces.EvidenceRepository,
	ledgerService interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.SettlementService {
	return &settlementService{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		evidenceRepo:    evidenceRepo,
		ledgerService:   ledgerService,
		eventPublisher:  eventPublisher,
	}
}

// SettleExpiredChallenge completes an expired in-progress challenge and pays a strict winner.
// Challenges that were already settled, are not in progress, or have not expired are skipped
// without any write, which makes repeated sweeps harmless.
func (s *settlementService) SettleExpiredChallenge(ctx context.Context, challengeID int64, now time.Time) (*entities.SettlementResult, error) {
	challenge, err := lockChallenge(ctx, s.challengeRepo, challengeID)
	if err != nil {
		return nil, err
	}

	result := &entities.SettlementResult{
		ChallengeID: challenge.ID,
		Source:      entities.SettlementSourceSweep,
		OldStatus:   challenge.Status,
		NewStatus:   challenge.Status,
	}

	if !challenge.IsDueForSettlement(now) {
		return skipped(result, notDueReason(challenge)), nil
	}

	participants, err := s.participantRepo.GetByChallenge(ctx, challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	principals := entities.PrincipalParticipants(participants)

	approvedCounts, err := s.evidenceRepo.CountApprovedByUser(ctx, challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count approved evidence: %w", err)
	}

	decision := DetermineWinner(principals, approvedCounts)
	challenge.WinnerReason = decision.Reason

	writer := settlementWriter{
		challengeRepo:   s.challengeRepo,
		participantRepo: s.participantRepo,
		ledgerService:   s.ledgerService,
		eventPublisher:  s.eventPublisher,
	}
	payout, err := writer.finalize(ctx, challenge, principals, decision.WinnerID, entities.ChallengeStatusCompleted, entities.SystemUserID, now)
	if err != nil {
		return nil, err
	}

	result.NewStatus = challenge.Status
	result.WinnerID = decision.WinnerID
	result.Payout = payout
	result.Reason = decision.Reason
	result.Outcome = entities.SettlementOutcomeTie
	if decision.HasWinner() {
		result.Outcome = entities.SettlementOutcomeWinner
	}

	publishEvent(s.eventPublisher, events.ChallengeCompletedEvent{
		ChallengeID:    challenge.ID,
		Source:         entities.SettlementSourceSweep,
		Outcome:        result.Outcome,
		Status:         challenge.Status,
		WinnerID:       challenge.WinnerID,
		JudgeID:        challenge.JudgeID,
		ParticipantIDs: principalUserIDs(principals),
		Prize:          challenge.Prize,
		Reason:         decision.Reason,
	})

	log.WithFields(log.Fields{
		"challengeID":    challenge.ID,
		"outcome":        result.Outcome,
		"approvedCounts": decision.ApprovedCounts,
		"winnerID":       decision.WinnerID,
	}).Info("Settled expired challenge")

	return result, nil
}

func notDueReason(challenge *entities.Challenge) string {
	switch {
	case challenge.WinnerDetermined:
		return "winner already determined"
	case challenge.Status != entities.ChallengeStatusInProgress:
		return fmt.Sprintf("challenge is %s", challenge.Status)
	default:
		return "challenge has not expired"
	}
}

func skipped(result *entities.SettlementResult, reason string) *entities.SettlementResult {
	result.Outcome = entities.SettlementOutcomeSkipped
	result.Reason = reason
	log.WithFields(log.Fields{
		"challengeID": result.ChallengeID,
		"reason":      reason,
	}).Debug("Skipping challenge settlement")
	return result
}

// settlementWriter records a terminal outcome. It is shared by the sweep and by judge verdicts
// so both paths mark participants and pay prizes identically.
type settlementWriter struct {
	challengeRepo   interfaces.ChallengeRepository
	participantRepo interfaces.ParticipantRepository
	ledgerService   interfaces.LedgerService
	eventPublisher  interfaces.EventPublisher
}

// finalize moves a locked challenge to a terminal status. With a winner the prize is frozen
// and paid; without one every principal is marked as tied.
func (w settlementWriter) finalize(ctx context.Context, challenge *entities.Challenge, principals []*entities.Participant, winnerID *int64, status entities.ChallengeStatus, actorID int64, now time.Time) (*entities.Transaction, error) {
	if winnerID != nil {
		challenge.WinnerID = winnerID
		challenge.WinnerDetermined = true
		challenge.PrizeFrozen = true
	}

	if err := transitionChallenge(ctx, w.challengeRepo, w.eventPublisher, challenge, status, actorID, now); err != nil {
		return nil, err
	}

	var payout *entities.Transaction
	if winnerID != nil {
		var err error
		payout, err = w.ledgerService.PayPrize(ctx, challenge)
		if err != nil {
			return nil, fmt.Errorf("failed to pay prize: %w", err)
		}
	}

	for _, p := range principals {
		p.Status = entities.ParticipantStatusCompleted
		switch {
		case winnerID == nil:
			p.Result = entities.ParticipantResultTie
		case p.UserID == *winnerID:
			p.Result = entities.ParticipantResultWin
			p.IsWinner = true
			if payout != nil {
				p.PaymentStatus = entities.PaymentStatusPaid
			}
		default:
			p.Result = entities.ParticipantResultLoss
		}

		if err := w.participantRepo.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to update participant %d: %w", p.UserID, err)
		}
	}

	return payout, nil
}
