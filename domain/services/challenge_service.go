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

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const maxTitleLength = 200

type challengeService struct {
	challengeRepo   interfaces.ChallengeRepository
	participantRepo interfaces.ParticipantRepository
	ruleRepo        interfaces.RuleRepository
	complianceRepo  interfaces.RuleComplianceRepository
	evidenceRepo    interfaces.EvidenceRepository
	eventPublisher  interfaces.EventPublisher
	categoryPolicy  interfaces.CategoryPolicy
}

// NewChallengeService creates the challenge state machine
func NewChallengeService(
	challengeRepo interfaces.ChallengeRepository,
	participantRepo interfaces.ParticipantRepository,
	ruleRepo interfaces.RuleRepository,
	complianceRepo interfaces.RuleComplianceRepository,
	evidenceRepo interfaces.EvidenceRepository,
	eventPublisher interfaces.EventPublisher,
	categoryPolicy interfaces.CategoryPolicy,
) interfaces.ChallengeService {
	return &challengeService{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		ruleRepo:        ruleRepo,
		complianceRepo:  complianceRepo,
		evidenceRepo:    evidenceRepo,
		eventPublisher:  eventPublisher,
		categoryPolicy:  categoryPolicy,
	}
}

// CreateChallenge validates the terms and opens a pending challenge with its rules
func (s *challengeService) CreateChallenge(ctx context.Context, creatorID int64, params entities.CreateChallengeParams) (*entities.ChallengeDetail, error) {
	now := time.Now().UTC()

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if len(title) > maxTitleLength {
		return nil, domain.NewValidationError("title cannot be longer than %d characters", maxTitleLength)
	}
	if err := validateMoney("entry fee", params.EntryFee); err != nil {
		return nil, err
	}
	if err := validateMoney("prize", params.Prize); err != nil {
		return nil, err
	}

	startDate := params.StartDate
	if startDate.IsZero() {
		startDate = now
	}
	if !params.EndDate.After(startDate) {
		return nil, domain.NewValidationError("end date must be after the start date")
	}
	if !params.EndDate.After(now) {
		return nil, domain.NewValidationError("end date must be in the future")
	}

	category := normalizeCategory(params.Category)
	if minimum := s.categoryPolicy.MinimumEntryFee(category); params.EntryFee.LessThan(minimum) {
		return nil, domain.NewValidationError("entry fee for category %s must be at least %s", category, minimum.StringFixed(2))
	}

	if params.OpponentID != nil && *params.OpponentID == creatorID {
		return nil, domain.NewValidationError("you cannot challenge yourself")
	}

	rules := make([]*entities.Rule, 0, len(params.Rules))
	for i, input := range params.Rules {
		description := strings.TrimSpace(input.Description)
		if description == "" {
			return nil, domain.NewValidationError("rule %d needs a description", i+1)
		}
		rules = append(rules, &entities.Rule{
			Description: description,
			OrderIndex:  i + 1,
			IsMandatory: input.IsMandatory,
		})
	}

	challenge := &entities.Challenge{
		CreatorID:       creatorID,
		Title:           title,
		Description:     strings.TrimSpace(params.Description),
		Category:        category,
		EntryFee:        params.EntryFee,
		Prize:           params.Prize,
		MaxParticipants: entities.HeadToHeadParticipants,
		StartDate:       startDate.UTC(),
		EndDate:         params.EndDate.UTC(),
		Status:          entities.ChallengeStatusPending,
		IsPrivate:       params.IsPrivate,
	}
	if params.IsPrivate {
		code := newInviteCode()
		challenge.InviteCode = &code
	}

	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	participants := []*entities.Participant{{
		ChallengeID:   challenge.ID,
		UserID:        creatorID,
		Role:          entities.ParticipantRoleCreator,
		Status:        entities.ParticipantStatusAccepted,
		Result:        entities.ParticipantResultNone,
		PaymentStatus: entities.PaymentStatusNone,
	}}
	if params.OpponentID != nil {
		participants = append(participants, &entities.Participant{
			ChallengeID:   challenge.ID,
			UserID:        *params.OpponentID,
			Role:          entities.ParticipantRoleChallenger,
			Status:        entities.ParticipantStatusPending,
			Result:        entities.ParticipantResultNone,
			PaymentStatus: entities.PaymentStatusNone,
		})
	}
	for _, p := range participants {
		if err := s.participantRepo.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to add participant: %w", err)
		}
	}

	if len(rules) > 0 {
		for _, rule := range rules {
			rule.ChallengeID = challenge.ID
		}
		if err := s.ruleRepo.CreateBatch(ctx, rules); err != nil {
			return nil, fmt.Errorf("failed to create rules: %w", err)
		}
	}

	publishEvent(s.eventPublisher, events.ChallengeCreatedEvent{
		ChallengeID: challenge.ID,
		CreatorID:   creatorID,
		OpponentID:  params.OpponentID,
		Category:    category,
		Prize:       challenge.Prize,
		IsPrivate:   challenge.IsPrivate,
	})

	log.WithFields(log.Fields{
		"challengeID": challenge.ID,
		"creatorID":   creatorID,
		"category":    category,
		"entryFee":    challenge.EntryFee.String(),
		"prize":       challenge.Prize.String(),
		"rules":       len(rules),
	}).Info("Challenge created")

	return &entities.ChallengeDetail{
		Challenge:    challenge,
		Participants: participants,
		Rules:        rules,
		Evidence:     []*entities.Evidence{},
	}, nil
}

// AcceptChallenge lets the challenger accept. An open challenge is joined by the first
// non-creator to accept; private ones need the invite code.
func (s *challengeService) AcceptChallenge(ctx context.Context, challengeID, userID int64, inviteCode string) (*entities.Challenge, error) {
	challenge, err := lockChallenge(ctx, s.challengeRepo, challengeID)
	if err != nil {
		return nil, err
	}

	if challenge.Status != entities.ChallengeStatusPending {
		return nil, domain.NewStateError("challenge cannot be accepted while it is %s", challenge.Status)
	}
	if userID == challenge.CreatorID {
		return nil, domain.NewForbiddenError("you cannot accept your own challenge")
	}

	participants, err := s.participantRepo.GetByChallenge(ctx, challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	challenger := entities.FindByRole(participants, entities.ParticipantRoleChallenger)
	if challenger != nil {
		if challenger.UserID != userID {
			return nil, domain.NewForbiddenError("this challenge was issued to another user")
		}
		challenger.Status = entities.ParticipantStatusAccepted
		if err := s.participantRepo.Update(ctx, challenger); err != nil {
			return nil, fmt.Errorf("failed to update challenger: %w", err)
		}
	} else {
		if challenge.IsPrivate && (challenge.InviteCode == nil || !strings.EqualFold(strings.TrimSpace(inviteCode), *challenge.InviteCode)) {
			return nil, domain.NewForbiddenError("a valid invite code is required to join this private challenge")
		}
		if existing := entities.FindParticipant(participants, userID); existing != nil {
			return nil, domain.NewConflictError("you already take part in this challenge as %s", existing.Role)
		}
		challenger = &entities.Participant{
			ChallengeID:   challenge.ID,
			UserID:        userID,
			Role:          entities.ParticipantRoleChallenger,
			Status:        entities.ParticipantStatusAccepted,
			Result:        entities.ParticipantResultNone,
			PaymentStatus: entities.PaymentStatusNone,
		}
		if err := s.participantRepo.Create(ctx, challenger); err != nil {
			return nil, fmt.Errorf("failed to add challenger: %w", err)
		}
	}

	if err := transitionChallenge(ctx, s.challengeRepo, s.eventPublisher, challenge, entities.ChallengeStatusAccepted, userID, time.Now().UTC()); err != nil {
		return nil, err
	}

	publishEvent(s.eventPublisher, events.ChallengeAcceptedEvent{
		ChallengeID:  challenge.ID,
		CreatorID:    challenge.CreatorID,
		ChallengerID: userID,
	})

	return challenge, nil
}

// RejectChallenge lets the invited challenger decline, which cancels the challenge
func (s *challengeService) RejectChallenge(ctx context.Context, challengeID, userID int64) (*entities.Challenge, error) {
	challenge, err := lockChallenge(ctx, s.challengeRepo, challengeID)
	if err != nil {
		return nil, err
	}

	if challenge.Status != entities.ChallengeStatusPending {
		return nil, domain.NewStateError("challenge cannot be rejected while it is %s", challenge.Status)
	}

	challenger, err := s.participantRepo.GetByChallengeAndUser(ctx, challenge.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if challenger == nil || challenger.Role != entities.ParticipantRoleChallenger {
		return nil, domain.NewForbiddenError("only the invited challenger can reject this challenge")
	}

	challenger.Status = entities.ParticipantStatusRejected
	if err := s.participantRepo.Update(ctx, challenger); err != nil {
		return nil, fmt.Errorf("failed to update challenger: %w", err)
	}

	if err := transitionChallenge(ctx, s.challengeRepo, s.eventPublisher, challenge, entities.ChallengeStatusCancelled, userID, time.Now().UTC()); err != nil {
		return nil, err
	}

	return challenge, nil
}

// CancelChallenge cancels a challenge. Creators may cancel until evidence starts coming in;
// admins may cancel any non-terminal challenge.
func (s *challengeService) CancelChallenge(ctx context.Context, challengeID int64, actor entities.Actor, reason string) (*entities.Challenge, error) {
	challenge, err := lockChallenge(ctx, s.challengeRepo, challengeID)
	if err != nil {
		return nil, err
	}

	if challenge.Status.IsTerminal() {
		return nil, domain.NewStateError("challenge is already %s", challenge.Status)
	}

	if !actor.IsAdmin() {
		if actor.UserID != challenge.CreatorID {
			return nil, domain.NewForbiddenError("only the creator can cancel this challenge")
		}
		switch challenge.Status {
		case entities.ChallengeStatusPending, entities.ChallengeStatusAccepted, entities.ChallengeStatusJudgeAssigned:
		default:
			return nil, domain.NewStateError("a challenge that is %s can only be cancelled by an admin", challenge.Status)
		}
	}

	if err := transitionChallenge(ctx, s.challengeRepo, s.eventPublisher, challenge, entities.ChallengeStatusCancelled, actor.UserID, time.Now().UTC()); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"challengeID": challenge.ID,
		"actorID":     actor.UserID,
		"admin":       actor.IsAdmin(),
		"reason":      reason,
	}).Info("Challenge cancelled")

	return challenge, nil
}

// SubmitEvidence records proof from a principal. The first submission after the judge
// accepted starts the contest.
func (s *challengeService) SubmitEvidence(ctx context.Context, challengeID, userID int64, input entities.EvidenceInput) (*entities.Evidence, error) {
	description := strings.TrimSpace(input.Description)
	fileURL := strings.TrimSpace(input.FileURL)
	if description == "" && fileURL == "" {
		return nil, domain.NewValidationError("evidence needs a description or a file")
	}

	challenge, err := lockChallenge(ctx, s.challengeRepo, challengeID)
	if err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.GetByChallenge(ctx, challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	participant := entities.FindParticipant(participants, userID)
	if participant == nil || !participant.IsPrincipal() {
		return nil, domain.NewForbiddenError("only challenge participants can submit evidence")
	}

	if !challenge.Status.AcceptsEvidence() {
		return nil, domain.NewStateError("evidence cannot be submitted while the challenge is %s", challenge.Status)
	}

	now := time.Now().UTC()
	if challenge.IsExpired(now) {
		return nil, domain.NewStateError("the contest window closed on %s", challenge.EndDate.Format(time.RFC3339))
	}

	evidence := &entities.Evidence{
		ChallengeID: challenge.ID,
		UserID:      userID,
		Description: description,
		FileURL:     fileURL,
		FileType:    strings.TrimSpace(input.FileType),
		Status:      entities.EvidenceStatusPending,
	}
	if err := s.evidenceRepo.Create(ctx, evidence); err != nil {
		return nil, fmt.Errorf("failed to create evidence: %w", err)
	}

	if challenge.Status == entities.ChallengeStatusJudgeAssigned {
		if err := transitionChallenge(ctx, s.challengeRepo, s.eventPublisher, challenge, entities.ChallengeStatusInProgress, userID, now); err != nil {
			return nil, err
		}
	}

	publishEvent(s.eventPublisher, events.EvidenceSubmittedEvent{
		ChallengeID: challenge.ID,
		EvidenceID:  evidence.ID,
		UserID:      userID,
		OpponentID:  opponentOf(entities.PrincipalParticipants(participants), userID),
		JudgeID:     challenge.JudgeID,
	})

	return evidence, nil
}

// DeleteEvidence removes the owner's evidence while it is still pending review
func (s *challengeService) DeleteEvidence(ctx context.Context, evidenceID, userID int64) error {
	evidence, err := s.evidenceRepo.GetByID(ctx, evidenceID)
	if err != nil {
		return fmt.Errorf("failed to get evidence: %w", err)
	}
	if evidence == nil {
		return domain.NewNotFoundError("evidence", evidenceID)
	}
	if evidence.UserID != userID {
		return domain.NewForbiddenError("only the owner can delete evidence")
	}

	challenge, err := lockChallenge(ctx, s.challengeRepo, evidence.ChallengeID)
	if err != nil {
		return err
	}
	if challenge.Status.IsTerminal() {
		return domain.NewStateError("evidence cannot be deleted once the challenge is %s", challenge.Status)
	}

	// The judge may have reviewed it while we waited for the lock
	evidence, err = s.evidenceRepo.GetByID(ctx, evidenceID)
	if err != nil {
		return fmt.Errorf("failed to reload evidence: %w", err)
	}
	if evidence == nil {
		return domain.NewNotFoundError("evidence", evidenceID)
	}
	if !evidence.IsPending() {
		return domain.NewStateError("evidence that was %s cannot be deleted", evidence.Status)
	}

	if err := s.evidenceRepo.Delete(ctx, evidenceID); err != nil {
		return fmt.Errorf("failed to delete evidence: %w", err)
	}
	return nil
}

// RequestJudging hands an in-progress challenge to the judge
func (s *challengeService) RequestJudging(ctx context.Context, challengeID, userID int64) (*entities.Challenge, error) {
	challenge, err := lockChallenge(ctx, s.challengeRepo, challengeID)
	if err != nil {
		return nil, err
	}

	if !challenge.IsJudge(userID) {
		participant, err := s.participantRepo.GetByChallengeAndUser(ctx, challenge.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get participant: %w", err)
		}
		if participant == nil || !participant.IsPrincipal() {
			return nil, domain.NewForbiddenError("only participants or the judge can request judging")
		}
	}

	if challenge.Status != entities.ChallengeStatusInProgress {
		return nil, domain.NewStateError("judging can only be requested while the challenge is in progress, it is %s", challenge.Status)
	}

	if err := transitionChallenge(ctx, s.challengeRepo, s.eventPublisher, challenge, entities.ChallengeStatusJudging, userID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return challenge, nil
}

// GetChallengeDetail loads a challenge with participants, rules and evidence
func (s *challengeService) GetChallengeDetail(ctx context.Context, challengeID int64) (*entities.ChallengeDetail, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, domain.NewNotFoundError("challenge", challengeID)
	}

	participants, err := s.participantRepo.GetByChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	rules, err := s.ruleRepo.GetByChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rules: %w", err)
	}
	evidence, err := s.evidenceRepo.GetByChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence: %w", err)
	}

	return &entities.ChallengeDetail{
		Challenge:    challenge,
		Participants: participants,
		Rules:        rules,
		Evidence:     evidence,
	}, nil
}

// GetChallengeStats summarizes evidence and compliance per principal participant
func (s *challengeService) GetChallengeStats(ctx context.Context, challengeID int64) (*entities.ChallengeStats, error) {
	detail, err := s.GetChallengeDetail(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	compliances, err := s.complianceRepo.GetByChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule compliance: %w", err)
	}

	type complianceKey struct {
		ruleID        int64
		participantID int64
	}
	byKey := make(map[complianceKey]*entities.RuleCompliance, len(compliances))
	for _, rc := range compliances {
		byKey[complianceKey{rc.RuleID, rc.ParticipantID}] = rc
	}

	principals := detail.Principals()
	approvedCounts := make(map[int64]int, len(principals))
	stats := &entities.ChallengeStats{
		ChallengeID:      detail.Challenge.ID,
		Status:           detail.Challenge.Status,
		RuleCount:        len(detail.Rules),
		TotalEvidence:    len(detail.Evidence),
		DaysRemaining:    detail.Challenge.DaysRemaining(time.Now().UTC()),
		WinnerID:         detail.Challenge.WinnerID,
		WinnerDetermined: detail.Challenge.WinnerDetermined,
		Participants:     make([]*entities.ParticipantStats, 0, len(principals)),
	}

	for _, p := range principals {
		ps := &entities.ParticipantStats{
			ParticipantID: p.ID,
			UserID:        p.UserID,
			Role:          p.Role,
		}

		for _, e := range detail.Evidence {
			if e.UserID != p.UserID {
				continue
			}
			switch e.Status {
			case entities.EvidenceStatusApproved:
				ps.EvidenceApproved++
			case entities.EvidenceStatusRejected:
				ps.EvidenceRejected++
			default:
				ps.EvidencePending++
			}
		}
		approvedCounts[p.UserID] = ps.EvidenceApproved

		for _, rule := range detail.Rules {
			switch byKey[complianceKey{rule.ID, p.ID}].State() {
			case entities.ComplianceStateCompliant:
				ps.RulesCompliant++
			case entities.ComplianceStateNonCompliant:
				ps.RulesNonCompliant++
			default:
				ps.RulesUnevaluated++
			}
		}

		stats.Participants = append(stats.Participants, ps)
	}

	stats.ProjectedWinnerID = DetermineWinner(principals, approvedCounts).WinnerID

	return stats, nil
}

// GetUserChallenges lists challenges the user takes part in, optionally filtered by status
func (s *challengeService) GetUserChallenges(ctx context.Context, userID int64, statuses []entities.ChallengeStatus) ([]*entities.Challenge, error) {
	for _, status := range statuses {
		if !status.IsValid() {
			return nil, domain.NewValidationError("unknown challenge status %q", status)
		}
	}

	challenges, err := s.challengeRepo.GetByUser(ctx, userID, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to get user challenges: %w", err)
	}
	return challenges, nil
}

func validateMoney(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.NewValidationError("%s cannot be negative", field)
	}
	if !amount.Equal(amount.Round(2)) {
		return domain.NewValidationError("%s cannot have more than two decimal places", field)
	}
	return nil
}
