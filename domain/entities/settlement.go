package entities

import "time"

// SettlementSource identifies which path finalized a challenge
type SettlementSource string

const (
	SettlementSourceSweep   SettlementSource = "sweep"
	SettlementSourceVerdict SettlementSource = "verdict"
)

// SettlementOutcome is the result of trying to finalize a challenge
type SettlementOutcome string

const (
	SettlementOutcomeWinner   SettlementOutcome = "winner"
	SettlementOutcomeTie      SettlementOutcome = "tie"
	SettlementOutcomeNoWinner SettlementOutcome = "no_winner"
	SettlementOutcomeSkipped  SettlementOutcome = "skipped"
)

// SettlementResult describes what happened to one challenge
type SettlementResult struct {
	ChallengeID int64
	Source      SettlementSource
	Outcome     SettlementOutcome
	OldStatus   ChallengeStatus
	NewStatus   ChallengeStatus
	WinnerID    *int64
	Payout      *Transaction
	Reason      string
}

// WinnerDecision is the output of automatic winner determination
type WinnerDecision struct {
	WinnerID *int64
	Reason   string
	// ApprovedCounts holds approved evidence per principal user id
	ApprovedCounts map[int64]int
}

// HasWinner returns true when a strict winner exists
func (d WinnerDecision) HasWinner() bool {
	return d.WinnerID != nil
}

// SweepReport summarizes one settlement sweep pass
type SweepReport struct {
	StartedAt time.Time
	Duration  time.Duration
	Scanned   int
	Settled   int
	Tied      int
	Skipped   int
	Failed    int
	FailedIDs []int64
	// LockNotAcquired is set when another instance held the sweep lock and nothing was scanned
	LockNotAcquired bool
}
