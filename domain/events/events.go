package events

import (
	"challenger/domain/entities"

	"github.com/shopspring/decimal"
)

// EventType represents different types of domain events
type EventType string

const (
	EventTypeChallengeCreated     EventType = "challenge_created"
	EventTypeChallengeAccepted    EventType = "challenge_accepted"
	EventTypeChallengeStateChange EventType = "challenge_state_change"
	EventTypeJudgeAssigned        EventType = "judge_assigned"
	EventTypeEvidenceSubmitted    EventType = "evidence_submitted"
	EventTypeEvidenceReviewed     EventType = "evidence_reviewed"
	EventTypeComplianceEvaluated  EventType = "compliance_evaluated"
	EventTypeChallengeCompleted   EventType = "challenge_completed"
	EventTypeBalanceChange        EventType = "balance_change"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// ChallengeCreatedEvent is published when a challenge is created
type ChallengeCreatedEvent struct {
	ChallengeID int64
	CreatorID   int64
	OpponentID  *int64
	Category    string
	Prize       decimal.Decimal
	IsPrivate   bool
}

func (e ChallengeCreatedEvent) Type() EventType {
	return EventTypeChallengeCreated
}

// ChallengeAcceptedEvent is published when the challenger accepts
type ChallengeAcceptedEvent struct {
	ChallengeID  int64
	CreatorID    int64
	ChallengerID int64
}

func (e ChallengeAcceptedEvent) Type() EventType {
	return EventTypeChallengeAccepted
}

// ChallengeStateChangeEvent is published on every status transition
type ChallengeStateChangeEvent struct {
	ChallengeID int64
	OldStatus   entities.ChallengeStatus
	NewStatus   entities.ChallengeStatus
	ActorID     int64
}

func (e ChallengeStateChangeEvent) Type() EventType {
	return EventTypeChallengeStateChange
}

// JudgeAssignedEvent is published when a judge candidate is invited
type JudgeAssignedEvent struct {
	ChallengeID int64
	JudgeID     int64
	AssignedBy  int64
	Title       string
}

func (e JudgeAssignedEvent) Type() EventType {
	return EventTypeJudgeAssigned
}

// EvidenceSubmittedEvent is published when a participant submits evidence
type EvidenceSubmittedEvent struct {
	ChallengeID int64
	EvidenceID  int64
	UserID      int64
	OpponentID  *int64
	JudgeID     *int64
}

func (e EvidenceSubmittedEvent) Type() EventType {
	return EventTypeEvidenceSubmitted
}

// EvidenceReviewedEvent is published when the judge approves or rejects evidence
type EvidenceReviewedEvent struct {
	ChallengeID int64
	EvidenceID  int64
	OwnerID     int64
	JudgeID     int64
	Status      entities.EvidenceStatus
	Comments    string
}

func (e EvidenceReviewedEvent) Type() EventType {
	return EventTypeEvidenceReviewed
}

// ComplianceEvaluatedEvent is published when the judge records a rule verdict
type ComplianceEvaluatedEvent struct {
	ChallengeID   int64
	RuleID        int64
	ParticipantID int64
	JudgeID       int64
	IsCompliant   bool
}

func (e ComplianceEvaluatedEvent) Type() EventType {
	return EventTypeComplianceEvaluated
}

// ChallengeCompletedEvent is published when a challenge reaches completed or closed
type ChallengeCompletedEvent struct {
	ChallengeID    int64
	Source         entities.SettlementSource
	Outcome        entities.SettlementOutcome
	Status         entities.ChallengeStatus
	WinnerID       *int64
	JudgeID        *int64
	ParticipantIDs []int64
	Prize          decimal.Decimal
	Reason         string
}

func (e ChallengeCompletedEvent) Type() EventType {
	return EventTypeChallengeCompleted
}

// BalanceChangeEvent is published for every ledger transaction row
type BalanceChangeEvent struct {
	UserID          int64
	WalletID        int64
	TransactionID   int64
	OldBalance      decimal.Decimal
	NewBalance      decimal.Decimal
	ChangeAmount    decimal.Decimal
	TransactionType entities.TransactionType
	ChallengeID     *int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}
