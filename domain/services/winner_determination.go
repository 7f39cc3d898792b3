package services

import (
	"fmt"

	"challenger/domain/entities"
)

// DetermineWinner picks the principal with strictly the greatest approved evidence count.
// Any tie, including nobody having approved evidence, produces no winner.
func DetermineWinner(principals []*entities.Participant, approvedCounts map[int64]int) entities.WinnerDecision {
	decision := entities.WinnerDecision{ApprovedCounts: make(map[int64]int, len(principals))}

	if len(principals) < entities.HeadToHeadParticipants {
		decision.Reason = "No winner: the challenge does not have two competing participants"
		for _, p := range principals {
			decision.ApprovedCounts[p.UserID] = approvedCounts[p.UserID]
		}
		return decision
	}

	var leader *entities.Participant
	best, runnerUp := -1, -1
	for _, p := range principals {
		count := approvedCounts[p.UserID]
		decision.ApprovedCounts[p.UserID] = count

		switch {
		case count > best:
			runnerUp = best
			best = count
			leader = p
		case count > runnerUp:
			runnerUp = count
		}
	}

	if best == runnerUp {
		decision.Reason = fmt.Sprintf("Tie: both participants have %d approved evidence", best)
		return decision
	}

	winnerID := leader.UserID
	decision.WinnerID = &winnerID
	decision.Reason = fmt.Sprintf("Automatic settlement: %d approved evidence against %d", best, runnerUp)
	return decision
}
