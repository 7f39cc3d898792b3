package entities

import "time"

// Rule is an ordered clause of the challenge contract
type Rule struct {
	ID          int64     `db:"id"`
	ChallengeID int64     `db:"challenge_id"`
	Description string    `db:"description"`
	OrderIndex  int       `db:"order_index"`
	IsMandatory bool      `db:"is_mandatory"`
	CreatedAt   time.Time `db:"created_at"`
}

// RuleCompliance is a judge's verdict on one participant's adherence to one rule.
// IsCompliant is nil until the rule has been evaluated.
type RuleCompliance struct {
	ID            int64      `db:"id"`
	RuleID        int64      `db:"rule_id"`
	ParticipantID int64      `db:"participant_id"`
	JudgeID       *int64     `db:"judge_id"`
	IsCompliant   *bool      `db:"is_compliant"`
	JudgeComments string     `db:"judge_comments"`
	EvaluatedAt   *time.Time `db:"evaluated_at"`
	AutoEvaluated bool       `db:"auto_evaluated"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// IsEvaluated returns true once the judge has recorded a verdict
func (rc *RuleCompliance) IsEvaluated() bool {
	return rc.IsCompliant != nil
}

// ComplianceState is the tri-state reading of a compliance record
type ComplianceState string

const (
	ComplianceStateUnevaluated  ComplianceState = "unevaluated"
	ComplianceStateCompliant    ComplianceState = "compliant"
	ComplianceStateNonCompliant ComplianceState = "non_compliant"
)

// State returns the tri-state value of the record
func (rc *RuleCompliance) State() ComplianceState {
	switch {
	case rc == nil || rc.IsCompliant == nil:
		return ComplianceStateUnevaluated
	case *rc.IsCompliant:
		return ComplianceStateCompliant
	default:
		return ComplianceStateNonCompliant
	}
}
