package services

import (
	"context"
	"testing"
	"time"

	"challenger/domain"
	"challenger/domain/entities"
	"challenger/domain/events"
	"challenger/domain/interfaces"
	"challenger/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Test constants for consistent test data
const (
	TestChallengeID  = int64(42)
	TestCreatorID    = int64(100)
	TestChallengerID = int64(200)
	TestJudgeID      = int64(300)
	TestOutsiderID   = int64(400)
	TestAdminID      = int64(900)

	TestCreatorParticipantID    = int64(1)
	TestChallengerParticipantID = int64(2)
	TestJudgeParticipantID      = int64(3)
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	ChallengeRepo   *testhelpers.MockChallengeRepository
	ParticipantRepo *testhelpers.MockParticipantRepository
	RuleRepo        *testhelpers.MockRuleRepository
	ComplianceRepo  *testhelpers.MockRuleComplianceRepository
	EvidenceRepo    *testhelpers.MockEvidenceRepository
	WalletRepo      *testhelpers.MockWalletRepository
	TransactionRepo *testhelpers.MockTransactionRepository
	LedgerService   *testhelpers.MockLedgerService
	EventPublisher  *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		ChallengeRepo:   &testhelpers.MockChallengeRepository{},
		ParticipantRepo: &testhelpers.MockParticipantRepository{},
		RuleRepo:        &testhelpers.MockRuleRepository{},
		ComplianceRepo:  &testhelpers.MockRuleComplianceRepository{},
		EvidenceRepo:    &testhelpers.MockEvidenceRepository{},
		WalletRepo:      &testhelpers.MockWalletRepository{},
		TransactionRepo: &testhelpers.MockTransactionRepository{},
		LedgerService:   &testhelpers.MockLedgerService{},
		EventPublisher:  &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.ChallengeRepo.AssertExpectations(t)
	m.ParticipantRepo.AssertExpectations(t)
	m.RuleRepo.AssertExpectations(t)
	m.ComplianceRepo.AssertExpectations(t)
	m.EvidenceRepo.AssertExpectations(t)
	m.WalletRepo.AssertExpectations(t)
	m.TransactionRepo.AssertExpectations(t)
	m.LedgerService.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

func (m *TestMocks) newLedgerService() interfaces.LedgerService {
	return NewLedgerService(m.WalletRepo, m.TransactionRepo, m.EventPublisher)
}

func (m *TestMocks) newChallengeService(policy interfaces.CategoryPolicy) interfaces.ChallengeService {
	if policy == nil {
		policy = testhelpers.StaticCategoryPolicy{}
	}
	return NewChallengeService(m.ChallengeRepo, m.ParticipantRepo, m.RuleRepo, m.ComplianceRepo, m.EvidenceRepo, m.EventPublisher, policy)
}

func (m *TestMocks) newJudgingService() interfaces.JudgingService {
	return NewJudgingService(m.ChallengeRepo, m.ParticipantRepo, m.RuleRepo, m.ComplianceRepo, m.EvidenceRepo, m.LedgerService, m.EventPublisher)
}

func (m *TestMocks) newSettlementService() interfaces.SettlementService {
	return NewSettlementService(m.ChallengeRepo, m.ParticipantRepo, m.EvidenceRepo, m.LedgerService, m.EventPublisher)
}

// MockHelper provides common mock setup patterns
type MockHelper struct {
	mocks *TestMocks
	ctx   context.Context
}

// NewMockHelper creates a new mock helper
func NewMockHelper(mocks *TestMocks) *MockHelper {
	return &MockHelper{
		mocks: mocks,
		ctx:   context.Background(),
	}
}

// ExpectChallengeLock sets up the FOR UPDATE lookup of a challenge
func (h *MockHelper) ExpectChallengeLock(challenge *entities.Challenge) {
	h.mocks.ChallengeRepo.On("GetByIDForUpdate", mock.Anything, challenge.ID).Return(challenge, nil)
}

// ExpectChallengeUpdate expects the challenge to be saved with the given status
func (h *MockHelper) ExpectChallengeUpdate(status entities.ChallengeStatus) {
	h.mocks.ChallengeRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *entities.Challenge) bool {
		return c.Status == status
	})).Return(nil)
}

// ExpectParticipants sets up the participant list of a challenge
func (h *MockHelper) ExpectParticipants(challengeID int64, participants ...*entities.Participant) {
	h.mocks.ParticipantRepo.On("GetByChallenge", mock.Anything, challengeID).Return(participants, nil)
}

// ExpectParticipantUpdates accepts any participant update
func (h *MockHelper) ExpectParticipantUpdates() {
	h.mocks.ParticipantRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
}

// ExpectEventPublish sets up event publisher mock expectations
func (h *MockHelper) ExpectEventPublish(eventType events.EventType) {
	h.mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == eventType
	})).Return(nil)
}

// AllowAnyEvents accepts any further event without requiring one
func (h *MockHelper) AllowAnyEvents() {
	h.mocks.EventPublisher.On("Publish", mock.Anything).Return(nil).Maybe()
}

func newTestChallenge(status entities.ChallengeStatus) *entities.Challenge {
	now := time.Now().UTC()
	return &entities.Challenge{
		ID:              TestChallengeID,
		CreatorID:       TestCreatorID,
		Title:           "Run 100km",
		Category:        "fitness",
		EntryFee:        decimal.NewFromInt(10),
		Prize:           decimal.NewFromInt(100),
		MaxParticipants: entities.HeadToHeadParticipants,
		StartDate:       now.Add(-48 * time.Hour),
		EndDate:         now.Add(72 * time.Hour),
		Status:          status,
	}
}

func newJudgedChallenge(status entities.ChallengeStatus) *entities.Challenge {
	challenge := newTestChallenge(status)
	judgeID := TestJudgeID
	challenge.JudgeID = &judgeID
	return challenge
}

func newCreatorParticipant() *entities.Participant {
	return &entities.Participant{
		ID:            TestCreatorParticipantID,
		ChallengeID:   TestChallengeID,
		UserID:        TestCreatorID,
		Role:          entities.ParticipantRoleCreator,
		Status:        entities.ParticipantStatusAccepted,
		Result:        entities.ParticipantResultNone,
		PaymentStatus: entities.PaymentStatusNone,
	}
}

func newChallengerParticipant(status entities.ParticipantStatus) *entities.Participant {
	return &entities.Participant{
		ID:            TestChallengerParticipantID,
		ChallengeID:   TestChallengeID,
		UserID:        TestChallengerID,
		Role:          entities.ParticipantRoleChallenger,
		Status:        status,
		Result:        entities.ParticipantResultNone,
		PaymentStatus: entities.PaymentStatusNone,
	}
}

func newJudgeParticipant(status entities.ParticipantStatus) *entities.Participant {
	return &entities.Participant{
		ID:            TestJudgeParticipantID,
		ChallengeID:   TestChallengeID,
		UserID:        TestJudgeID,
		Role:          entities.ParticipantRoleJudge,
		Status:        status,
		Result:        entities.ParticipantResultNone,
		PaymentStatus: entities.PaymentStatusNone,
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func decimalEq(expected string) interface{} {
	want := decimal.RequireFromString(expected)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(want)
	})
}

func assertErrorKind(t *testing.T, err error, kind domain.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, domain.KindOf(err), "unexpected error: %v", err)
}
