package entities

// NotificationType identifies a user-facing notification
type NotificationType string

const (
	NotificationEvidenceSubmitted  NotificationType = "evidence_submitted"
	NotificationEvidenceReviewed   NotificationType = "evidence_reviewed"
	NotificationJudgeAssigned      NotificationType = "judge_assigned"
	NotificationVerdictIssued      NotificationType = "verdict_issued"
	NotificationChallengeCompleted NotificationType = "challenge_completed"
)

// GamificationAction identifies an action that earns points
type GamificationAction string

const (
	GamificationActionCreate GamificationAction = "challenge_create"
	GamificationActionAccept GamificationAction = "challenge_accept"
	GamificationActionWin    GamificationAction = "challenge_win"
	GamificationActionJudge  GamificationAction = "challenge_judge"
)
