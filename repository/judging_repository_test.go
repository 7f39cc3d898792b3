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

func TestRuleAndComplianceRepositories(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	challengeRepo := NewChallengeRepository(testDB.DB)
	participantRepo := NewParticipantRepository(testDB.DB)
	ruleRepo := NewRuleRepository(testDB.DB)
	complianceRepo := NewRuleComplianceRepository(testDB.DB)
	ctx := context.Background()

	challenge := testutil.NewTestChallenge(1, "Meditate")
	require.NoError(t, challengeRepo.Create(ctx, challenge))
	challenger := testutil.NewTestParticipant(challenge.ID, 2, entities.ParticipantRoleChallenger)
	require.NoError(t, participantRepo.Create(ctx, challenger))

	rules := []*entities.Rule{
		{ChallengeID: challenge.ID, Description: "Ten minutes a day", OrderIndex: 1, IsMandatory: true},
		{ChallengeID: challenge.ID, Description: "Log each session", OrderIndex: 2},
	}
	require.NoError(t, ruleRepo.CreateBatch(ctx, rules))
	assert.NotZero(t, rules[0].ID)

	t.Run("rules come back ordered", func(t *testing.T) {
		got, err := ruleRepo.GetByChallenge(ctx, challenge.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].OrderIndex)
		assert.Equal(t, "Log each session", got[1].Description)
	})

	t.Run("order index is unique per challenge", func(t *testing.T) {
		dup := []*entities.Rule{{ChallengeID: challenge.ID, Description: "dup", OrderIndex: 1}}
		assert.Error(t, ruleRepo.CreateBatch(ctx, dup))
	})

	t.Run("re-evaluation overwrites the single record", func(t *testing.T) {
		judgeID := int64(3)
		now := time.Now().UTC()
		yes, no := true, false

		first := &entities.RuleCompliance{RuleID: rules[0].ID, ParticipantID: challenger.ID, JudgeID: &judgeID, IsCompliant: &yes, EvaluatedAt: &now}
		require.NoError(t, complianceRepo.Upsert(ctx, first))

		second := &entities.RuleCompliance{RuleID: rules[0].ID, ParticipantID: challenger.ID, JudgeID: &judgeID, IsCompliant: &no, JudgeComments: "missed a day", EvaluatedAt: &now}
		require.NoError(t, complianceRepo.Upsert(ctx, second))
		assert.Equal(t, first.ID, second.ID)

		all, err := complianceRepo.GetByChallenge(ctx, challenge.ID)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, entities.ComplianceStateNonCompliant, all[0].State())
		assert.Equal(t, "missed a day", all[0].JudgeComments)
	})
}

func TestEvidenceRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	challengeRepo := NewChallengeRepository(testDB.DB)
	repo := NewEvidenceRepository(testDB.DB)
	ctx := context.Background()

	challenge := testutil.NewTestChallenge(1, "Swim")
	require.NoError(t, challengeRepo.Create(ctx, challenge))

	for _, e := range []*entities.Evidence{
		testutil.NewTestEvidence(challenge.ID, 1, entities.EvidenceStatusApproved),
		testutil.NewTestEvidence(challenge.ID, 1, entities.EvidenceStatusApproved),
		testutil.NewTestEvidence(challenge.ID, 1, entities.EvidenceStatusRejected),
		testutil.NewTestEvidence(challenge.ID, 2, entities.EvidenceStatusApproved),
		testutil.NewTestEvidence(challenge.ID, 2, entities.EvidenceStatusPending),
	} {
		require.NoError(t, repo.Create(ctx, e))
	}

	counts, err := repo.CountApprovedByUser(ctx, challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 2, 2: 1}, counts)

	all, err := repo.GetByChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	require.Len(t, all, 5)

	pending := all[4]
	judgeID := int64(3)
	now := time.Now().UTC()
	pending.Status = entities.EvidenceStatusApproved
	pending.ReviewedBy = &judgeID
	pending.ReviewedAt = &now
	require.NoError(t, repo.UpdateReview(ctx, pending))

	counts, err = repo.CountApprovedByUser(ctx, challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[2])

	require.NoError(t, repo.Delete(ctx, all[2].ID))
	gone, err := repo.GetByID(ctx, all[2].ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.Error(t, repo.Delete(ctx, all[2].ID))
}
