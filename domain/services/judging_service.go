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

	log "github.com/sirupsen/logrus"
)

type judgingService struct {
	challengeRepo   interfaces.ChallengeRepository
	participantRepo interfaces.ParticipantRepository
	ruleRepo        interfaces.RuleRepository
	complianceRepo  interfaces.RuleComplianceRepository
	evidenceRepo    interfaces.EvidenceRepository
	ledgerService   interfaces.LedgerService
	eventPublisher  interfaces.EventPublisher
}

// NewJudgingService creates the judging protocol service
func NewJudgingService(
	challengeRepo interfaces.ChallengeRepository,
	participantRepo interfaces.ParticipantRepository,
	ruleRepo interfaces.RuleRepository,
	complianceRepo interfaces.RuleComplianceRepository,
	evidenceRepo interfaces.EvidenceRepository,
	ledgerService interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.JudgingService {
	return &judgingService{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		ruleRepo:        ruleRepo,
		complianceRepo:  complianceRepo,
		evidenceRepo:    evidenceRepo,
		ledgerService:   ledgerService,
		eventPublisher:  eventPublisher,
	}
}

// AssignJudge nominates a neutral judge. A principal may nominate once the challenge is
// accepted; nominating again replaces a pending judge.
func (s *judgingService) AssignJudge(ctx context.Context, challengeID, callerID, candidateID int64) (*entities.Challenge, error) {
	challenge, err := lockChallenge(ctx, s.challengeRepo, challengeID)
	if err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.GetByChallenge(ctx, challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	caller := entities.FindParticipant(participants, callerID)
	if caller == nil || !caller.IsPrincipal() {
		return nil, domain.NewForbiddenError("only challenge participants can assign a judge")
	}

	switch challenge.Status {
	case entities.ChallengeStatusAccepted, entities.ChallengeStatusJudgeAssigned:
	default:
		return nil, domain.NewStateError("a judge cannot be assigned while the challenge is %s", challenge.Status)
	}

	if candidate := entities.FindParticipant(participants, candidateID); candidate != nil && candidate.IsPrincipal() {
		return nil, domain.NewValidationError("a participant cannot judge their own challenge")
	}

	if challenge.HasJudge() && !challenge.IsJudge(candidateID) {
		if previous := entities.FindParticipant(participants, *challenge.JudgeID); previous != nil {
			previous.Status = entities.ParticipantStatusRejected
			if err := s.participantRepo.Update(ctx, previous); err != nil {
				return nil, fmt.Errorf("failed to release previous judge: %w", err)
			}
		}
	}

	judge := &entities.Participant{
		ChallengeID:   challenge.ID,
		UserID:        candidateID,
		Role:          entities.ParticipantRoleJudge,
		Status:        entities.ParticipantStatusPending,
		Result:        entities.ParticipantResultNone,
		PaymentStatus: entities.PaymentStatusNone,
	}
	if err := s.participantRepo.Upsert(ctx, judge); err != nil {
		return nil, fmt.Errorf("failed to add judge: %w", err)
	}

	challenge.JudgeID = &candidateID
	if challenge.Status == entities.ChallengeStatusJudgeAssigned {
		// Back to waiting for the new judge's answer
		if err := transitionChallenge(ctx, s.challengeRepo, s.eventPublisher, challenge, entities.ChallengeStatusAccepted, callerID, time.Now().UTC()); err != nil {
			return nil, err
		}
	} else if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	publishEvent(s.eventPublisher, events.JudgeAssignedEvent{
		ChallengeID: challenge.ID,
		JudgeID:     candidateID,
		AssignedBy:  callerID,
		Title:       challenge.Title,
	})

	log.WithFields(log.Fields{
		"challengeID": challenge.ID,
		"judgeID":     candidateID,
		"assignedBy":  callerID,
	}).Info("Judge assigned")

	return challenge, nil
}

// AcceptJudgeAssignment confirms the nominated judge
func (s *judgingService) AcceptJudgeAssignment(ctx context.Context, challengeID, judgeID int64) (*entities.Challenge, error) {
	challenge, err := lockChallenge(ctx, s.challengeRepo, challengeID)
	if err != nil {
		return nil, err
	}

	if !challenge.IsJudge(judgeID) {
		return nil, domain.NewForbiddenError("you are not the judge of this challenge")
	}
	if challenge.Status != entities.ChallengeStatusAccepted {
		return nil, domain.NewStateError("judge assignment cannot be accepted while the challenge is %s", challenge.Status)
	}

	if err := s.setJudgeStatus(ctx, challenge.ID, judgeID, entities.ParticipantStatusAccepted); err != nil {
		return nil, err
	}

	if err := transitionChallenge(ctx, s.challengeRepo, s.eventPublisher, challenge, entities.ChallengeStatusJudgeAssigned, judgeID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return challenge, nil
}

// RejectJudgeAssignment lets the judge step down before the contest starts
func (s *judgingService) RejectJudgeAssignment(ctx context.Context, challengeID, judgeID int64) (*entities.Challenge, error) {
	challenge, err := lockChallenge(ctx, s.challengeRepo, challengeID)
	if err != nil {
		return nil, err
	}

	if !challenge.IsJudge(judgeID) {
		return nil, domain.NewForbiddenError("you are not the judge of this challenge")
	}

	if err := s.setJudgeStatus(ctx, challenge.ID, judgeID, entities.ParticipantStatusRejected); err != nil {
		return nil, err
	}

	challenge.JudgeID = nil
	switch challenge.Status {
	case entities.ChallengeStatusAccepted:
		if err := s.challengeRepo.Update(ctx, challenge); err != nil {
			return nil, fmt.Errorf("failed to update challenge: %w", err)
		}
	case entities.ChallengeStatusJudgeAssigned:
		if err := transitionChallenge(ctx, s.challengeRepo, s.eventPublisher, challenge, entities.ChallengeStatusAccepted, judgeID, time.Now().UTC()); err != nil {
			return nil, err
		}
	default:
		return nil, domain.NewStateError("judge assignment cannot be rejected while the challenge is %s", challenge.Status)
	}

	log.WithFields(log.Fields{
		"challengeID": challenge.ID,
		"judgeID":     judgeID,
	}).Info("Judge stepped down")

	return challenge, nil
}

// EvaluateCompliance records the judge's verdict on one rule for one principal.
// Re-evaluating overwrites the previous verdict.
func (s *judgingService) EvaluateCompliance(ctx context.Context, judgeID int64, input entities.ComplianceInput) (*entities.RuleCompliance, error) {
	rule, err := s.ruleRepo.GetByID(ctx, input.RuleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	if rule == nil {
		return nil, domain.NewNotFoundError("rule", input.RuleID)
	}

	challenge, err := lockChallenge(ctx, s.challengeRepo, rule.ChallengeID)
	if err != nil {
		return nil, err
	}
	if !challenge.IsJudge(judgeID) {
		return nil, domain.NewForbiddenError("only the judge can evaluate rule compliance")
	}
	if !challenge.Status.AcceptsVerdict() {
		return nil, domain.NewStateError("compliance cannot be evaluated while the challenge is %s", challenge.Status)
	}

	participant, err := s.participantRepo.GetByID(ctx, input.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if participant == nil || participant.ChallengeID != challenge.ID {
		return nil, domain.NewNotFoundError("participant", input.ParticipantID)
	}
	if !participant.IsPrincipal() {
		return nil, domain.NewValidationError("compliance can only be evaluated for challenge participants")
	}

	now := time.Now().UTC()
	isCompliant := input.IsCompliant
	compliance := &entities.RuleCompliance{
		RuleID:        rule.ID,
		ParticipantID: participant.ID,
		JudgeID:       &judgeID,
		IsCompliant:   &isCompliant,
		JudgeComments: strings.TrimSpace(input.Comments),
		EvaluatedAt:   &now,
	}
	if err := s.complianceRepo.Upsert(ctx, compliance); err != nil {
		return nil, fmt.Errorf("failed to save rule compliance: %w", err)
	}

	publishEvent(s.eventPublisher, events.ComplianceEvaluatedEvent{
		ChallengeID:   challenge.ID,
		RuleID:        rule.ID,
		ParticipantID: participant.ID,
		JudgeID:       judgeID,
		IsCompliant:   isCompliant,
	})

	return compliance, nil
}

// UpdateEvidenceStatus approves or rejects a piece of evidence
func (s *judgingService) UpdateEvidenceStatus(ctx context.Context, evidenceID, judgeID int64, status entities.EvidenceStatus, comments string) (*entities.Evidence, error) {
	if !status.IsReviewDecision() {
		return nil, domain.NewValidationError("evidence can only be approved or rejected, got %q", status)
	}

	evidence, err := s.evidenceRepo.GetByID(ctx, evidenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence: %w", err)
	}
	if evidence == nil {
		return nil, domain.NewNotFoundError("evidence", evidenceID)
	}

	challenge, err := lockChallenge(ctx, s.challengeRepo, evidence.ChallengeID)
	if err != nil {
		return nil, err
	}
	if !challenge.IsJudge(judgeID) {
		return nil, domain.NewForbiddenError("only the judge can review evidence")
	}
	if !challenge.Status.AcceptsVerdict() {
		return nil, domain.NewStateError("evidence cannot be reviewed while the challenge is %s", challenge.Status)
	}

	now := time.Now().UTC()
	evidence.Status = status
	evidence.JudgeComments = strings.TrimSpace(comments)
	evidence.ReviewedBy = &judgeID
	evidence.ReviewedAt = &now
	if err := s.evidenceRepo.UpdateReview(ctx, evidence); err != nil {
		return nil, fmt.Errorf("failed to update evidence: %w", err)
	}

	publishEvent(s.eventPublisher, events.EvidenceReviewedEvent{
		ChallengeID: challenge.ID,
		EvidenceID:  evidence.ID,
		OwnerID:     evidence.UserID,
		JudgeID:     judgeID,
		Status:      status,
		Comments:    evidence.JudgeComments,
	})

	return evidence, nil
}

// IssueVerdict finalizes the challenge on the judge's decision. A winner completes it and is
// paid; no winner closes it with both principals tied.
func (s *judgingService) IssueVerdict(ctx context.Context, challengeID, judgeID int64, winnerID *int64, reason string) (*entities.SettlementResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("a verdict needs a reason")
	}

	challenge, err := lockChallenge(ctx, s.challengeRepo, challengeID)
	if err != nil {
		return nil, err
	}
	if !challenge.IsJudge(judgeID) {
		return nil, domain.NewForbiddenError("only the judge can issue a verdict")
	}
	if challenge.WinnerDetermined || challenge.Status.IsTerminal() {
		return nil, domain.NewStateError("challenge %d has already been settled", challenge.ID)
	}
	if !challenge.Status.AcceptsVerdict() {
		return nil, domain.NewStateError("a verdict cannot be issued while the challenge is %s", challenge.Status)
	}

	participants, err := s.participantRepo.GetByChallenge(ctx, challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	principals := entities.PrincipalParticipants(participants)

	if winnerID != nil {
		winner := entities.FindParticipant(principals, *winnerID)
		if winner == nil {
			return nil, domain.NewValidationError("winner %d is not a participant of this challenge", *winnerID)
		}
	}

	now := time.Now().UTC()
	challenge.JudgeVerdict = reason
	challenge.JudgeDecisionDate = &now
	challenge.WinnerReason = reason

	status := entities.ChallengeStatusClosed
	outcome := entities.SettlementOutcomeNoWinner
	if winnerID != nil {
		status = entities.ChallengeStatusCompleted
		outcome = entities.SettlementOutcomeWinner
	}

	result := &entities.SettlementResult{
		ChallengeID: challenge.ID,
		Source:      entities.SettlementSourceVerdict,
		Outcome:     outcome,
		OldStatus:   challenge.Status,
		WinnerID:    winnerID,
		Reason:      reason,
	}

	writer := settlementWriter{
		challengeRepo:   s.challengeRepo,
		participantRepo: s.participantRepo,
		ledgerService:   s.ledgerService,
		eventPublisher:  s.eventPublisher,
	}
	payout, err := writer.finalize(ctx, challenge, principals, winnerID, status, judgeID, now)
	if err != nil {
		return nil, err
	}
	result.NewStatus = challenge.Status
	result.Payout = payout

	if err := s.setJudgeStatus(ctx, challenge.ID, judgeID, entities.ParticipantStatusCompleted); err != nil {
		return nil, err
	}

	publishEvent(s.eventPublisher, events.ChallengeCompletedEvent{
		ChallengeID:    challenge.ID,
		Source:         entities.SettlementSourceVerdict,
		Outcome:        outcome,
		Status:         challenge.Status,
		WinnerID:       winnerID,
		JudgeID:        &judgeID,
		ParticipantIDs: principalUserIDs(principals),
		Prize:          challenge.Prize,
		Reason:         reason,
	})

	log.WithFields(log.Fields{
		"challengeID": challenge.ID,
		"judgeID":     judgeID,
		"winnerID":    winnerID,
		"status":      challenge.Status,
	}).Info("Verdict issued")

	return result, nil
}

// setJudgeStatus updates the judge's participant row when one exists
func (s *judgingService) setJudgeStatus(ctx context.Context, challengeID, judgeID int64, status entities.ParticipantStatus) error {
	judge, err := s.participantRepo.GetByChallengeAndUser(ctx, challengeID, judgeID)
	if err != nil {
		return fmt.Errorf("failed to get judge participant: %w", err)
	}
	if judge == nil || judge.Role != entities.ParticipantRoleJudge {
		return nil
	}
	judge.Status = status
	if err := s.participantRepo.Update(ctx, judge); err != nil {
		return fmt.Errorf("failed to update judge participant: %w", err)
	}
	return nil
}
