package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleInput is a rule supplied at challenge creation
type RuleInput struct {
	Description string
	IsMandatory bool
}

// CreateChallengeParams holds the creator-supplied terms of a new challenge
type CreateChallengeParams struct {
	Title       string
	Description string
	Category    string
	EntryFee    decimal.Decimal
	Prize       decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	IsPrivate   bool
	// OpponentID invites a specific challenger. When nil any user may accept.
	OpponentID *int64
	Rules      []RuleInput
}

// EvidenceInput is a participant's evidence submission
type EvidenceInput struct {
	Description string
	FileURL     string
	FileType    string
}

// ComplianceInput is a judge's evaluation of one rule for one participant
type ComplianceInput struct {
	RuleID        int64
	ParticipantID int64
	IsCompliant   bool
	Comments      string
}
