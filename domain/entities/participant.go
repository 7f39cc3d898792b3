package entities

import "time"

// ParticipantRole identifies how a user takes part in a challenge
type ParticipantRole string

const (
	ParticipantRoleCreator    ParticipantRole = "creator"
	ParticipantRoleChallenger ParticipantRole = "challenger"
	ParticipantRoleJudge      ParticipantRole = "judge"
	ParticipantRoleObserver   ParticipantRole = "observer"
)

// IsPrincipal returns true for the two competing roles
func (r ParticipantRole) IsPrincipal() bool {
	return r == ParticipantRoleCreator || r == ParticipantRoleChallenger
}

// ParticipantStatus tracks a participant's response to the challenge
type ParticipantStatus string

const (
	ParticipantStatusPending   ParticipantStatus = "pending"
	ParticipantStatusAccepted  ParticipantStatus = "accepted"
	ParticipantStatusRejected  ParticipantStatus = "rejected"
	ParticipantStatusCompleted ParticipantStatus = "completed"
)

// ParticipantResult is the outcome recorded for a principal once the challenge completes
type ParticipantResult string

const (
	ParticipantResultWin  ParticipantResult = "win"
	ParticipantResultLoss ParticipantResult = "loss"
	ParticipantResultTie  ParticipantResult = "tie"
	ParticipantResultNone ParticipantResult = "none"
)

// PaymentStatus tracks whether the prize has been credited to the participant
type PaymentStatus string

const (
	PaymentStatusNone PaymentStatus = "none"
	PaymentStatusPaid PaymentStatus = "paid"
)

// Participant is a user's membership in a challenge
type Participant struct {
	ID            int64             `db:"id"`
	ChallengeID   int64             `db:"challenge_id"`
	UserID        int64             `db:"user_id"`
	Role          ParticipantRole   `db:"role"`
	Status        ParticipantStatus `db:"status"`
	Result        ParticipantResult `db:"result"`
	IsWinner      bool              `db:"is_winner"`
	PaymentStatus PaymentStatus     `db:"payment_status"`
	JoinedAt      time.Time         `db:"joined_at"`
	UpdatedAt     time.Time         `db:"updated_at"`
}

// IsPrincipal returns true if the participant is the creator or the challenger
func (p *Participant) IsPrincipal() bool {
	return p.Role.IsPrincipal()
}

// PrincipalParticipants filters participants down to the creator and challenger, creator first
func PrincipalParticipants(participants []*Participant) []*Participant {
	var creator, challenger *Participant
	for _, p := range participants {
		switch p.Role {
		case ParticipantRoleCreator:
			creator = p
		case ParticipantRoleChallenger:
			challenger = p
		}
	}

	principals := make([]*Participant, 0, HeadToHeadParticipants)
	if creator != nil {
		principals = append(principals, creator)
	}
	if challenger != nil {
		principals = append(principals, challenger)
	}
	return principals
}

// FindParticipant returns the participant for userID or nil
func FindParticipant(participants []*Participant, userID int64) *Participant {
	for _, p := range participants {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// FindByRole returns the first participant with the given role or nil
func FindByRole(participants []*Participant, role ParticipantRole) *Participant {
	for _, p := range participants {
		if p.Role == role {
			return p
		}
	}
	return nil
}
