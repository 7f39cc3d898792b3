package entities

import "time"

// EvidenceStatus is the moderation state of submitted evidence
type EvidenceStatus string

const (
	EvidenceStatusPending  EvidenceStatus = "pending"
	EvidenceStatusApproved EvidenceStatus = "approved"
	EvidenceStatusRejected EvidenceStatus = "rejected"
)

// IsReviewDecision returns true for the statuses a judge may set
func (s EvidenceStatus) IsReviewDecision() bool {
	return s == EvidenceStatusApproved || s == EvidenceStatusRejected
}

// Evidence is proof submitted by a principal participant
type Evidence struct {
	ID            int64          `db:"id"`
	ChallengeID   int64          `db:"challenge_id"`
	UserID        int64          `db:"user_id"`
	Description   string         `db:"description"`
	FileURL       string         `db:"file_url"`
	FileType      string         `db:"file_type"`
	Status        EvidenceStatus `db:"status"`
	JudgeComments string         `db:"judge_comments"`
	ReviewedBy    *int64         `db:"reviewed_by"`
	ReviewedAt    *time.Time     `db:"reviewed_at"`
	SubmittedAt   time.Time      `db:"submitted_at"`
}

// IsPending returns true while the evidence awaits review
func (e *Evidence) IsPending() bool {
	return e.Status == EvidenceStatusPending
}
