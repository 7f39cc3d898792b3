package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChallengeStatus represents the lifecycle state of a challenge
type ChallengeStatus string

const (
	ChallengeStatusPending       ChallengeStatus = "pending"
	ChallengeStatusAccepted      ChallengeStatus = "accepted"
	ChallengeStatusJudgeAssigned ChallengeStatus = "judge_assigned"
	ChallengeStatusInProgress    ChallengeStatus = "in_progress"
	ChallengeStatusJudging       ChallengeStatus = "judging"
	ChallengeStatusCompleted     ChallengeStatus = "completed"
	ChallengeStatusClosed        ChallengeStatus = "closed"
	ChallengeStatusCancelled     ChallengeStatus = "cancelled"
)

// HeadToHeadParticipants is the fixed number of principal participants in a challenge
const HeadToHeadParticipants = 2

// DefaultCategory is used when a challenge is created without a category
const DefaultCategory = "general"

var challengeTransitions = map[ChallengeStatus][]ChallengeStatus{
	ChallengeStatusPending:       {ChallengeStatusAccepted, ChallengeStatusCancelled},
	ChallengeStatusAccepted:      {ChallengeStatusJudgeAssigned, ChallengeStatusCancelled},
	ChallengeStatusJudgeAssigned: {ChallengeStatusAccepted, ChallengeStatusInProgress, ChallengeStatusCompleted, ChallengeStatusClosed, ChallengeStatusCancelled},
	ChallengeStatusInProgress:    {ChallengeStatusJudging, ChallengeStatusCompleted, ChallengeStatusClosed, ChallengeStatusCancelled},
	ChallengeStatusJudging:       {ChallengeStatusCompleted, ChallengeStatusClosed, ChallengeStatusCancelled},
}

// IsTerminal returns true once the challenge can no longer change
func (s ChallengeStatus) IsTerminal() bool {
	return s == ChallengeStatusCompleted || s == ChallengeStatusClosed || s == ChallengeStatusCancelled
}

// IsValid reports whether s is a known status
func (s ChallengeStatus) IsValid() bool {
	switch s {
	case ChallengeStatusPending, ChallengeStatusAccepted, ChallengeStatusJudgeAssigned,
		ChallengeStatusInProgress, ChallengeStatusJudging, ChallengeStatusCompleted,
		ChallengeStatusClosed, ChallengeStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal transition
func (s ChallengeStatus) CanTransitionTo(next ChallengeStatus) bool {
	for _, allowed := range challengeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsEvidence reports whether evidence may be submitted in this status
func (s ChallengeStatus) AcceptsEvidence() bool {
	return s == ChallengeStatusJudgeAssigned || s == ChallengeStatusInProgress
}

// AcceptsVerdict reports whether the judge may rule in this status
func (s ChallengeStatus) AcceptsVerdict() bool {
	return s == ChallengeStatusJudgeAssigned || s == ChallengeStatusInProgress || s == ChallengeStatusJudging
}

// Challenge is a wagered head-to-head contest between a creator and a challenger
type Challenge struct {
	ID                int64           `db:"id"`
	CreatorID         int64           `db:"creator_id"`
	Title             string          `db:"title"`
	Description       string          `db:"description"`
	Category          string          `db:"category"`
	EntryFee          decimal.Decimal `db:"entry_fee"`
	Prize             decimal.Decimal `db:"prize"`
	MaxParticipants   int             `db:"max_participants"`
	StartDate         time.Time       `db:"start_date"`
	EndDate           time.Time       `db:"end_date"`
	Status            ChallengeStatus `db:"status"`
	JudgeID           *int64          `db:"judge_id"`
	WinnerID          *int64          `db:"winner_id"`
	WinnerDetermined  bool            `db:"winner_determined"`
	WinnerReason      string          `db:"winner_reason"`
	JudgeVerdict      string          `db:"judge_verdict"`
	JudgeDecisionDate *time.Time      `db:"judge_decision_date"`
	StartedAt         *time.Time      `db:"started_at"`
	JudgingStartedAt  *time.Time      `db:"judging_started_at"`
	ClosedAt          *time.Time      `db:"closed_at"`
	CompletedAt       *time.Time      `db:"completed_at"`
	CancelledAt       *time.Time      `db:"cancelled_at"`
	PrizeFrozen       bool            `db:"prize_frozen"`
	IsPrivate         bool            `db:"is_private"`
	InviteCode        *string         `db:"invite_code"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// IsJudge returns true if userID is the currently assigned judge
func (c *Challenge) IsJudge(userID int64) bool {
	return c.JudgeID != nil && *c.JudgeID == userID
}

// HasJudge returns true if a judge has been invited or assigned
func (c *Challenge) HasJudge() bool {
	return c.JudgeID != nil
}

// IsExpired returns true once the end date lies strictly before now
func (c *Challenge) IsExpired(now time.Time) bool {
	return c.EndDate.Before(now)
}

// IsDueForSettlement reports whether the settlement sweep should finalize the challenge
func (c *Challenge) IsDueForSettlement(now time.Time) bool {
	return c.Status == ChallengeStatusInProgress && !c.WinnerDetermined && c.IsExpired(now)
}

// DaysRemaining returns whole days left until the end date, never negative
func (c *Challenge) DaysRemaining(now time.Time) int {
	if !c.EndDate.After(now) {
		return 0
	}
	return int(c.EndDate.Sub(now).Hours() / 24)
}

// ChallengeDetail bundles a challenge with its participants, rules and evidence
type ChallengeDetail struct {
	Challenge    *Challenge
	Participants []*Participant
	Rules        []*Rule
	Evidence     []*Evidence
}

// Principals returns the creator and challenger participants in that order
func (d *ChallengeDetail) Principals() []*Participant {
	return PrincipalParticipants(d.Participants)
}
