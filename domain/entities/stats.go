package entities

// ParticipantStats summarizes one principal's evidence and compliance record
type ParticipantStats struct {
	ParticipantID     int64
	UserID            int64
	Role              ParticipantRole
	EvidencePending   int
	EvidenceApproved  int
	EvidenceRejected  int
	RulesCompliant    int
	RulesNonCompliant int
	RulesUnevaluated  int
}

// EvidenceSubmitted returns the total evidence count regardless of status
func (s *ParticipantStats) EvidenceSubmitted() int {
	return s.EvidencePending + s.EvidenceApproved + s.EvidenceRejected
}

// ChallengeStats is the read model returned by GetChallengeStats
type ChallengeStats struct {
	ChallengeID      int64
	Status           ChallengeStatus
	RuleCount        int
	TotalEvidence    int
	DaysRemaining    int
	WinnerID         *int64
	WinnerDetermined bool
	// ProjectedWinnerID is who the automatic settlement would pick from approved evidence right now
	ProjectedWinnerID *int64
	Participants      []*ParticipantStats
}
