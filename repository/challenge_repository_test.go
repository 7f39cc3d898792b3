package repository

import (
	"context"
	"testing"
	"time"

	"challenger/domain/entities"
	"challenger/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewChallengeRepository(testDB.DB)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		challenge, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, challenge)
	})

	t.Run("round trip", func(t *testing.T) {
		code := "ABCDE12345"
		challenge := testutil.NewTestChallenge(1, "Plank every day")
		challenge.IsPrivate = true
		challenge.InviteCode = &code

		require.NoError(t, repo.Create(ctx, challenge))
		assert.NotZero(t, challenge.ID)
		assert.False(t, challenge.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, challenge.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Plank every day", got.Title)
		assert.True(t, got.Prize.Equal(challenge.Prize))
		assert.Equal(t, entities.ChallengeStatusPending, got.Status)
		assert.Nil(t, got.JudgeID)

		require.NotNil(t, got.InviteCode)
		assert.Equal(t, code, *got.InviteCode)
	})

	t.Run("update persists lifecycle fields", func(t *testing.T) {
		challenge := testutil.NewTestChallenge(1, "Cold showers")
		require.NoError(t, repo.Create(ctx, challenge))

		now := time.Now().UTC()
		judgeID := int64(3)
		challenge.Status = entities.ChallengeStatusInProgress
		challenge.JudgeID = &judgeID
		challenge.StartedAt = &now
		challenge.PrizeFrozen = true
		require.NoError(t, repo.Update(ctx, challenge))

		got, err := repo.GetByID(ctx, challenge.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ChallengeStatusInProgress, got.Status)
		require.NotNil(t, got.JudgeID)
		assert.Equal(t, judgeID, *got.JudgeID)
		assert.NotNil(t, got.StartedAt)
		assert.True(t, got.PrizeFrozen)
	})

	t.Run("winner flag requires a winner", func(t *testing.T) {
		challenge := testutil.NewTestChallenge(1, "No winner")
		require.NoError(t, repo.Create(ctx, challenge))

		challenge.WinnerDetermined = true
		assert.Error(t, repo.Update(ctx, challenge))
	})
}

func TestChallengeRepository_GetDueForSettlement(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewChallengeRepository(testDB.DB)
	ctx := context.Background()
	now := time.Now().UTC()

	create := func(status entities.ChallengeStatus, endDate time.Time, winnerDetermined bool) int64 {
		challenge := testutil.NewTestChallenge(1, "due")
		challenge.StartDate = endDate.Add(-48 * time.Hour)
		challenge.EndDate = endDate
		require.NoError(t, repo.Create(ctx, challenge))

		challenge.Status = status
		if winnerDetermined {
			winnerID := int64(1)
			challenge.WinnerID = &winnerID
			challenge.WinnerDetermined = true
		}
		require.NoError(t, repo.Update(ctx, challenge))
		return challenge.ID
	}

	due1 := create(entities.ChallengeStatusInProgress, now.Add(-2*time.Hour), false)
	create(entities.ChallengeStatusInProgress, now.Add(2*time.Hour), false)
	create(entities.ChallengeStatusJudging, now.Add(-2*time.Hour), false)
	create(entities.ChallengeStatusInProgress, now.Add(-2*time.Hour), true)
	due2 := create(entities.ChallengeStatusInProgress, now.Add(-time.Minute), false)
	due3 := create(entities.ChallengeStatusInProgress, now.Add(-time.Hour), false)

	ids, err := repo.GetDueForSettlement(ctx, now, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []int64{due1, due2, due3}, ids)

	firstPage, err := repo.GetDueForSettlement(ctx, now, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{due1, due2}, firstPage)

	secondPage, err := repo.GetDueForSettlement(ctx, now, firstPage[len(firstPage)-1], 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{due3}, secondPage)
}

func TestChallengeRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	challengeRepo := NewChallengeRepository(testDB.DB)
	participantRepo := NewParticipantRepository(testDB.DB)
	ctx := context.Background()

	pending := testutil.NewTestChallenge(10, "pending one")
	require.NoError(t, challengeRepo.Create(ctx, pending))
	require.NoError(t, participantRepo.Create(ctx, testutil.NewTestParticipant(pending.ID, 10, entities.ParticipantRoleCreator)))

	cancelled := testutil.NewTestChallenge(20, "cancelled one")
	require.NoError(t, challengeRepo.Create(ctx, cancelled))
	require.NoError(t, participantRepo.Create(ctx, testutil.NewTestParticipant(cancelled.ID, 20, entities.ParticipantRoleCreator)))
	require.NoError(t, participantRepo.Create(ctx, testutil.NewTestParticipant(cancelled.ID, 10, entities.ParticipantRoleChallenger)))
	cancelled.Status = entities.ChallengeStatusCancelled
	require.NoError(t, challengeRepo.Update(ctx, cancelled))

	all, err := challengeRepo.GetByUser(ctx, 10, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyPending, err := challengeRepo.GetByUser(ctx, 10, []entities.ChallengeStatus{entities.ChallengeStatusPending})
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, pending.ID, onlyPending[0].ID)

	none, err := challengeRepo.GetByUser(ctx, 30, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
