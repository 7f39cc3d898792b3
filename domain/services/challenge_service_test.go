package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"challenger/domain"
	"challenger/domain/entities"
	"challenger/domain/events"
	"challenger/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validCreateParams() entities.CreateChallengeParams {
	return entities.CreateChallengeParams{
		Title:    "Read 5 books",
		Category: "Reading",
		EntryFee: decimal.NewFromInt(10),
		Prize:    decimal.NewFromInt(50),
		EndDate:  time.Now().UTC().Add(7 * 24 * time.Hour),
		Rules: []entities.RuleInput{
			{Description: "Books must be over 200 pages", IsMandatory: true},
			{Description: "Post a photo of each finished book"},
		},
	}
}

func TestChallengeService_CreateChallenge_Validation(t *testing.T) {
	policy := testhelpers.StaticCategoryPolicy{"fitness": decimal.NewFromInt(20)}

	tests := []struct {
		name   string
		mutate func(*entities.CreateChallengeParams)
	}{
		{"missing title", func(p *entities.CreateChallengeParams) { p.Title = "   " }},
		{"title too long", func(p *entities.CreateChallengeParams) { p.Title = strings.Repeat("x", maxTitleLength+1) }},
		{"negative entry fee", func(p *entities.CreateChallengeParams) { p.EntryFee = decimal.NewFromInt(-1) }},
		{"negative prize", func(p *entities.CreateChallengeParams) { p.Prize = decimal.NewFromInt(-1) }},
		{"end before start", func(p *entities.CreateChallengeParams) {
			p.StartDate = time.Now().UTC().Add(48 * time.Hour)
			p.EndDate = time.Now().UTC().Add(24 * time.Hour)
		}},
		{"end in the past", func(p *entities.CreateChallengeParams) {
			p.StartDate = time.Now().UTC().Add(-48 * time.Hour)
			p.EndDate = time.Now().UTC().Add(-24 * time.Hour)
		}},
		{"below category minimum", func(p *entities.CreateChallengeParams) { p.Category = "Fitness" }},
		{"challenging yourself", func(p *entities.CreateChallengeParams) { p.OpponentID = int64Ptr(TestCreatorID) }},
		{"empty rule", func(p *entities.CreateChallengeParams) { p.Rules[1].Description = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			service := mocks.newChallengeService(policy)
			params := validCreateParams()
			tt.mutate(&params)

			_, err := service.CreateChallenge(context.Background(), TestCreatorID, params)

			assertErrorKind(t, err, domain.ErrorKindValidation)
			mocks.ChallengeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestChallengeService_CreateChallenge(t *testing.T) {
	mocks := NewTestMocks()
	helper := NewMockHelper(mocks)
	service := mocks.newChallengeService(nil)

	params := validCreateParams()
	params.IsPrivate = true
	params.OpponentID = int64Ptr(TestChallengerID)

	mocks.ChallengeRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Challenge) bool {
		return c.Status == entities.ChallengeStatusPending &&
			c.Category == "reading" &&
			c.MaxParticipants == entities.HeadToHeadParticipants &&
			!c.StartDate.IsZero()
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.Challenge).ID = TestChallengeID
	}).Return(nil)
	mocks.ParticipantRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.Participant) bool {
		return p.UserID == TestCreatorID && p.Role == entities.ParticipantRoleCreator && p.Status == entities.ParticipantStatusAccepted
	})).Return(nil)
	mocks.ParticipantRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.Participant) bool {
		return p.UserID == TestChallengerID && p.Role == entities.ParticipantRoleChallenger && p.Status == entities.ParticipantStatusPending
	})).Return(nil)
	mocks.RuleRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(rules []*entities.Rule) bool {
		return len(rules) == 2 &&
			rules[0].OrderIndex == 1 && rules[1].OrderIndex == 2 &&
			rules[0].ChallengeID == TestChallengeID && rules[0].IsMandatory
	})).Return(nil)
	helper.ExpectEventPublish(events.EventTypeChallengeCreated)

	detail, err := service.CreateChallenge(helper.ctx, TestCreatorID, params)

	require.NoError(t, err)
	assert.Equal(t, TestChallengeID, detail.Challenge.ID)
	require.NotNil(t, detail.Challenge.InviteCode)
	assert.Len(t, *detail.Challenge.InviteCode, inviteCodeLength)
	assert.Len(t, detail.Participants, 2)
	assert.Len(t, detail.Rules, 2)
	mocks.AssertAllExpectations(t)
}

func TestChallengeService_AcceptChallenge(t *testing.T) {
	t.Run("invited challenger accepts", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		service := mocks.newChallengeService(nil)

		challenger := newChallengerParticipant(entities.ParticipantStatusPending)
		helper.ExpectChallengeLock(newTestChallenge(entities.ChallengeStatusPending))
		helper.ExpectParticipants(TestChallengeID, newCreatorParticipant(), challenger)
		mocks.ParticipantRepo.On("Update", mock.Anything, challenger).Return(nil)
		helper.ExpectChallengeUpdate(entities.ChallengeStatusAccepted)
		helper.ExpectEventPublish(events.EventTypeChallengeStateChange)
		helper.ExpectEventPublish(events.EventTypeChallengeAccepted)

		challenge, err := service.AcceptChallenge(helper.ctx, TestChallengeID, TestChallengerID, "")

		require.NoError(t, err)
		assert.Equal(t, entities.ChallengeStatusAccepted, challenge.Status)
		assert.Equal(t, entities.ParticipantStatusAccepted, challenger.Status)
		mocks.AssertAllExpectations(t)
	})

	t.Run("open challenge joined by anyone", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		service := mocks.newChallengeService(nil)

		helper.ExpectChallengeLock(newTestChallenge(entities.ChallengeStatusPending))
		helper.ExpectParticipants(TestChallengeID, newCreatorParticipant())
		mocks.ParticipantRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.Participant) bool {
			return p.UserID == TestOutsiderID && p.Role == entities.ParticipantRoleChallenger
		})).Return(nil)
		helper.ExpectChallengeUpdate(entities.ChallengeStatusAccepted)
		helper.AllowAnyEvents()

		_, err := service.AcceptChallenge(helper.ctx, TestChallengeID, TestOutsiderID, "")

		require.NoError(t, err)
		mocks.AssertAllExpectations(t)
	})

	t.Run("private challenge with the invite code", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		service := mocks.newChallengeService(nil)

		challenge := newTestChallenge(entities.ChallengeStatusPending)
		challenge.IsPrivate = true
		code := "ABCDEF1234"
		challenge.InviteCode = &code

		helper.ExpectChallengeLock(challenge)
		helper.ExpectParticipants(TestChallengeID, newCreatorParticipant())
		mocks.ParticipantRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		helper.ExpectChallengeUpdate(entities.ChallengeStatusAccepted)
		helper.AllowAnyEvents()

		_, err := service.AcceptChallenge(helper.ctx, TestChallengeID, TestOutsiderID, "abcdef1234")

		require.NoError(t, err)
	})

	tests := []struct {
		name         string
		challenge    func() *entities.Challenge
		participants []*entities.Participant
		userID       int64
		inviteCode   string
		wantKind     domain.ErrorKind
	}{
		{
			name:         "creator cannot accept",
			challenge:    func() *entities.Challenge { return newTestChallenge(entities.ChallengeStatusPending) },
			participants: []*entities.Participant{newCreatorParticipant()},
			userID:       TestCreatorID,
			wantKind:     domain.ErrorKindForbidden,
		},
		{
			name:         "only pending challenges",
			challenge:    func() *entities.Challenge { return newTestChallenge(entities.ChallengeStatusAccepted) },
			participants: []*entities.Participant{newCreatorParticipant()},
			userID:       TestChallengerID,
			wantKind:     domain.ErrorKindState,
		},
		{
			name:      "challenge issued to someone else",
			challenge: func() *entities.Challenge { return newTestChallenge(entities.ChallengeStatusPending) },
			participants: []*entities.Participant{
				newCreatorParticipant(),
				newChallengerParticipant(entities.ParticipantStatusPending),
			},
			userID:   TestOutsiderID,
			wantKind: domain.ErrorKindForbidden,
		},
		{
			name: "private challenge without invite code",
			challenge: func() *entities.Challenge {
				c := newTestChallenge(entities.ChallengeStatusPending)
				c.IsPrivate = true
				code := "ABCDEF1234"
				c.InviteCode = &code
				return c
			},
			participants: []*entities.Participant{newCreatorParticipant()},
			userID:       TestOutsiderID,
			inviteCode:   "WRONG",
			wantKind:     domain.ErrorKindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			helper := NewMockHelper(mocks)
			service := mocks.newChallengeService(nil)

			helper.ExpectChallengeLock(tt.challenge())
			mocks.ParticipantRepo.On("GetByChallenge", mock.Anything, TestChallengeID).Return(tt.participants, nil).Maybe()

			_, err := service.AcceptChallenge(helper.ctx, TestChallengeID, tt.userID, tt.inviteCode)

			assertErrorKind(t, err, tt.wantKind)
			assert.True(t, domain.IsStateError(err))
			mocks.ChallengeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestChallengeService_RejectChallenge(t *testing.T) {
	mocks := NewTestMocks()
	helper := NewMockHelper(mocks)
	service := mocks.newChallengeService(nil)

	challenger := newChallengerParticipant(entities.ParticipantStatusPending)
	helper.ExpectChallengeLock(newTestChallenge(entities.ChallengeStatusPending))
	mocks.ParticipantRepo.On("GetByChallengeAndUser", mock.Anything, TestChallengeID, TestChallengerID).Return(challenger, nil)
	mocks.ParticipantRepo.On("Update", mock.Anything, challenger).Return(nil)
	helper.ExpectChallengeUpdate(entities.ChallengeStatusCancelled)
	helper.ExpectEventPublish(events.EventTypeChallengeStateChange)

	challenge, err := service.RejectChallenge(helper.ctx, TestChallengeID, TestChallengerID)

	require.NoError(t, err)
	assert.Equal(t, entities.ChallengeStatusCancelled, challenge.Status)
	assert.NotNil(t, challenge.CancelledAt)
	assert.Equal(t, entities.ParticipantStatusRejected, challenger.Status)
	mocks.AssertAllExpectations(t)
}

func TestChallengeService_CancelChallenge(t *testing.T) {
	tests := []struct {
		name     string
		status   entities.ChallengeStatus
		actor    entities.Actor
		wantKind domain.ErrorKind
	}{
		{"creator cancels pending", entities.ChallengeStatusPending, entities.UserActor(TestCreatorID), ""},
		{"creator cancels before contest", entities.ChallengeStatusJudgeAssigned, entities.UserActor(TestCreatorID), ""},
		{"creator cannot cancel a live contest", entities.ChallengeStatusInProgress, entities.UserActor(TestCreatorID), domain.ErrorKindState},
		{"admin cancels a live contest", entities.ChallengeStatusJudging, entities.Actor{UserID: TestAdminID, Role: entities.ActorRoleAdmin}, ""},
		{"outsider cannot cancel", entities.ChallengeStatusPending, entities.UserActor(TestOutsiderID), domain.ErrorKindForbidden},
		{"terminal challenge", entities.ChallengeStatusCompleted, entities.Actor{UserID: TestAdminID, Role: entities.ActorRoleAdmin}, domain.ErrorKindState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			helper := NewMockHelper(mocks)
			service := mocks.newChallengeService(nil)

			helper.ExpectChallengeLock(newJudgedChallenge(tt.status))
			if tt.wantKind == "" {
				helper.ExpectChallengeUpdate(entities.ChallengeStatusCancelled)
				helper.ExpectEventPublish(events.EventTypeChallengeStateChange)
			}

			challenge, err := service.CancelChallenge(helper.ctx, TestChallengeID, tt.actor, "changed plans")

			if tt.wantKind != "" {
				assertErrorKind(t, err, tt.wantKind)
				mocks.ChallengeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entities.ChallengeStatusCancelled, challenge.Status)
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestChallengeService_SubmitEvidence(t *testing.T) {
	input := entities.EvidenceInput{Description: "Finished book one", FileURL: "https://cdn.example.com/book.jpg", FileType: "image/jpeg"}

	t.Run("first submission starts the contest", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		service := mocks.newChallengeService(nil)

		challenge := newJudgedChallenge(entities.ChallengeStatusJudgeAssigned)
		helper.ExpectChallengeLock(challenge)
		helper.ExpectParticipants(TestChallengeID, newCreatorParticipant(), newChallengerParticipant(entities.ParticipantStatusAccepted))
		mocks.EvidenceRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *entities.Evidence) bool {
			return e.UserID == TestChallengerID && e.Status == entities.EvidenceStatusPending
		})).Return(nil)
		helper.ExpectChallengeUpdate(entities.ChallengeStatusInProgress)
		helper.ExpectEventPublish(events.EventTypeChallengeStateChange)
		mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			submitted, ok := e.(events.EvidenceSubmittedEvent)
			return ok && submitted.OpponentID != nil && *submitted.OpponentID == TestCreatorID &&
				submitted.JudgeID != nil && *submitted.JudgeID == TestJudgeID
		})).Return(nil)

		evidence, err := service.SubmitEvidence(helper.ctx, TestChallengeID, TestChallengerID, input)

		require.NoError(t, err)
		assert.Equal(t, entities.EvidenceStatusPending, evidence.Status)
		assert.Equal(t, entities.ChallengeStatusInProgress, challenge.Status)
		assert.True(t, challenge.PrizeFrozen)
		assert.NotNil(t, challenge.StartedAt)
		mocks.AssertAllExpectations(t)
	})

	t.Run("later submissions keep the status", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		service := mocks.newChallengeService(nil)

		helper.ExpectChallengeLock(newJudgedChallenge(entities.ChallengeStatusInProgress))
		helper.ExpectParticipants(TestChallengeID, newCreatorParticipant(), newChallengerParticipant(entities.ParticipantStatusAccepted))
		mocks.EvidenceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		helper.ExpectEventPublish(events.EventTypeEvidenceSubmitted)

		_, err := service.SubmitEvidence(helper.ctx, TestChallengeID, TestCreatorID, input)

		require.NoError(t, err)
		mocks.ChallengeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	tests := []struct {
		name      string
		challenge func() *entities.Challenge
		userID    int64
		input     entities.EvidenceInput
		wantKind  domain.ErrorKind
	}{
		{
			name:      "empty evidence",
			challenge: func() *entities.Challenge { return newJudgedChallenge(entities.ChallengeStatusInProgress) },
			userID:    TestCreatorID,
			wantKind:  domain.ErrorKindValidation,
		},
		{
			name:      "judge cannot submit",
			challenge: func() *entities.Challenge { return newJudgedChallenge(entities.ChallengeStatusInProgress) },
			userID:    TestJudgeID,
			input:     input,
			wantKind:  domain.ErrorKindForbidden,
		},
		{
			name:      "not before a judge accepted",
			challenge: func() *entities.Challenge { return newTestChallenge(entities.ChallengeStatusAccepted) },
			userID:    TestCreatorID,
			input:     input,
			wantKind:  domain.ErrorKindState,
		},
		{
			name: "contest window closed",
			challenge: func() *entities.Challenge {
				c := newJudgedChallenge(entities.ChallengeStatusInProgress)
				c.EndDate = time.Now().UTC().Add(-time.Minute)
				return c
			},
			userID:   TestCreatorID,
			input:    input,
			wantKind: domain.ErrorKindState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			helper := NewMockHelper(mocks)
			service := mocks.newChallengeService(nil)

			mocks.ChallengeRepo.On("GetByIDForUpdate", mock.Anything, TestChallengeID).Return(tt.challenge(), nil).Maybe()
			mocks.ParticipantRepo.On("GetByChallenge", mock.Anything, TestChallengeID).Return([]*entities.Participant{
				newCreatorParticipant(),
				newChallengerParticipant(entities.ParticipantStatusAccepted),
				newJudgeParticipant(entities.ParticipantStatusAccepted),
			}, nil).Maybe()

			_, err := service.SubmitEvidence(helper.ctx, TestChallengeID, tt.userID, tt.input)

			assertErrorKind(t, err, tt.wantKind)
			mocks.EvidenceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestChallengeService_DeleteEvidence(t *testing.T) {
	pending := &entities.Evidence{ID: 5, ChallengeID: TestChallengeID, UserID: TestCreatorID, Status: entities.EvidenceStatusPending}

	t.Run("owner deletes pending evidence", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		service := mocks.newChallengeService(nil)

		mocks.EvidenceRepo.On("GetByID", mock.Anything, int64(5)).Return(pending, nil)
		helper.ExpectChallengeLock(newJudgedChallenge(entities.ChallengeStatusInProgress))
		mocks.EvidenceRepo.On("Delete", mock.Anything, int64(5)).Return(nil)

		require.NoError(t, service.DeleteEvidence(helper.ctx, 5, TestCreatorID))
		mocks.AssertAllExpectations(t)
	})

	t.Run("reviewed evidence stays", func(t *testing.T) {
		mocks := NewTestMocks()
		helper := NewMockHelper(mocks)
		service := mocks.newChallengeService(nil)

		reviewed := *pending
		reviewed.Status = entities.EvidenceStatusApproved
		mocks.EvidenceRepo.On("GetByID", mock.Anything, int64(5)).Return(&reviewed, nil)
		helper.ExpectChallengeLock(newJudgedChallenge(entities.ChallengeStatusInProgress))

		err := service.DeleteEvidence(helper.ctx, 5, TestCreatorID)

		assertErrorKind(t, err, domain.ErrorKindState)
		mocks.EvidenceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("someone else's evidence", func(t *testing.T) {
		mocks := NewTestMocks()
		service := mocks.newChallengeService(nil)

		mocks.EvidenceRepo.On("GetByID", mock.Anything, int64(5)).Return(pending, nil)

		err := service.DeleteEvidence(context.Background(), 5, TestChallengerID)

		assertErrorKind(t, err, domain.ErrorKindForbidden)
	})
}

func TestChallengeService_RequestJudging(t *testing.T) {
	mocks := NewTestMocks()
	helper := NewMockHelper(mocks)
	service := mocks.newChallengeService(nil)

	challenge := newJudgedChallenge(entities.ChallengeStatusInProgress)
	helper.ExpectChallengeLock(challenge)
	helper.ExpectChallengeUpdate(entities.ChallengeStatusJudging)
	helper.ExpectEventPublish(events.EventTypeChallengeStateChange)

	_, err := service.RequestJudging(helper.ctx, TestChallengeID, TestJudgeID)

	require.NoError(t, err)
	assert.NotNil(t, challenge.JudgingStartedAt)
	mocks.AssertAllExpectations(t)
}

func TestChallengeService_GetChallengeStats(t *testing.T) {
	mocks := NewTestMocks()
	service := mocks.newChallengeService(nil)

	creator := newCreatorParticipant()
	challenger := newChallengerParticipant(entities.ParticipantStatusAccepted)
	rules := []*entities.Rule{
		{ID: 1, ChallengeID: TestChallengeID, OrderIndex: 1, Description: "one"},
		{ID: 2, ChallengeID: TestChallengeID, OrderIndex: 2, Description: "two"},
	}
	evidence := []*entities.Evidence{
		{ID: 1, UserID: TestCreatorID, Status: entities.EvidenceStatusApproved},
		{ID: 2, UserID: TestCreatorID, Status: entities.EvidenceStatusApproved},
		{ID: 3, UserID: TestCreatorID, Status: entities.EvidenceStatusPending},
		{ID: 4, UserID: TestChallengerID, Status: entities.EvidenceStatusApproved},
		{ID: 5, UserID: TestChallengerID, Status: entities.EvidenceStatusRejected},
	}
	yes, no := true, false
	compliances := []*entities.RuleCompliance{
		{RuleID: 1, ParticipantID: creator.ID, IsCompliant: &yes},
		{RuleID: 2, ParticipantID: creator.ID, IsCompliant: &no},
		{RuleID: 1, ParticipantID: challenger.ID, IsCompliant: &yes},
	}

	mocks.ChallengeRepo.On("GetByID", mock.Anything, TestChallengeID).Return(newJudgedChallenge(entities.ChallengeStatusInProgress), nil)
	mocks.ParticipantRepo.On("GetByChallenge", mock.Anything, TestChallengeID).Return([]*entities.Participant{creator, challenger, newJudgeParticipant(entities.ParticipantStatusAccepted)}, nil)
	mocks.RuleRepo.On("GetByChallenge", mock.Anything, TestChallengeID).Return(rules, nil)
	mocks.EvidenceRepo.On("GetByChallenge", mock.Anything, TestChallengeID).Return(evidence, nil)
	mocks.ComplianceRepo.On("GetByChallenge", mock.Anything, TestChallengeID).Return(compliances, nil)

	stats, err := service.GetChallengeStats(context.Background(), TestChallengeID)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.RuleCount)
	assert.Equal(t, 5, stats.TotalEvidence)
	require.Len(t, stats.Participants, 2)

	creatorStats := stats.Participants[0]
	assert.Equal(t, TestCreatorID, creatorStats.UserID)
	assert.Equal(t, 2, creatorStats.EvidenceApproved)
	assert.Equal(t, 1, creatorStats.EvidencePending)
	assert.Equal(t, 3, creatorStats.EvidenceSubmitted())
	assert.Equal(t, 1, creatorStats.RulesCompliant)
	assert.Equal(t, 1, creatorStats.RulesNonCompliant)
	assert.Equal(t, 0, creatorStats.RulesUnevaluated)

	challengerStats := stats.Participants[1]
	assert.Equal(t, 1, challengerStats.EvidenceApproved)
	assert.Equal(t, 1, challengerStats.EvidenceRejected)
	assert.Equal(t, 1, challengerStats.RulesUnevaluated)

	require.NotNil(t, stats.ProjectedWinnerID)
	assert.Equal(t, TestCreatorID, *stats.ProjectedWinnerID)
}

func TestChallengeService_GetChallengeDetail_NotFound(t *testing.T) {
	mocks := NewTestMocks()
	service := mocks.newChallengeService(nil)

	mocks.ChallengeRepo.On("GetByID", mock.Anything, TestChallengeID).Return(nil, nil)

	_, err := service.GetChallengeDetail(context.Background(), TestChallengeID)

	assertErrorKind(t, err, domain.ErrorKindNotFound)
}
