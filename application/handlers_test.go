package application

import (
	"context"
	"errors"
	"testing"

	"challenger/domain/entities"
	"challenger/domain/events"
	"challenger/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestNotificationHandler_EvidenceSubmitted(t *testing.T) {
	notifier := new(testhelpers.MockNotifier)
	handler := NewNotificationHandler(notifier)

	notifier.On("Notify", mock.Anything, int64(200), entities.NotificationEvidenceSubmitted, mock.Anything).Return(nil)
	notifier.On("Notify", mock.Anything, int64(300), entities.NotificationEvidenceSubmitted, mock.Anything).Return(errors.New("dms closed"))

	err := handler.HandleEvidenceSubmitted(context.Background(), events.EvidenceSubmittedEvent{
		ChallengeID: 42,
		EvidenceID:  7,
		UserID:      100,
		OpponentID:  int64Ptr(200),
		JudgeID:     int64Ptr(300),
	})

	// Delivery failures are swallowed
	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestNotificationHandler_EvidenceSubmittedWithoutJudge(t *testing.T) {
	notifier := new(testhelpers.MockNotifier)
	handler := NewNotificationHandler(notifier)

	notifier.On("Notify", mock.Anything, int64(200), entities.NotificationEvidenceSubmitted, mock.Anything).Return(nil).Once()

	err := handler.HandleEvidenceSubmitted(context.Background(), events.EvidenceSubmittedEvent{
		ChallengeID: 42,
		UserID:      100,
		OpponentID:  int64Ptr(200),
	})

	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestNotificationHandler_EvidenceReviewed(t *testing.T) {
	notifier := new(testhelpers.MockNotifier)
	handler := NewNotificationHandler(notifier)

	notifier.On("Notify", mock.Anything, int64(100), entities.NotificationEvidenceReviewed,
		mock.MatchedBy(func(payload map[string]any) bool {
			return payload["status"] == "rejected" && payload["comments"] == "blurry photo"
		})).Return(nil)

	err := handler.HandleEvidenceReviewed(context.Background(), events.EvidenceReviewedEvent{
		ChallengeID: 42,
		EvidenceID:  7,
		OwnerID:     100,
		JudgeID:     300,
		Status:      entities.EvidenceStatusRejected,
		Comments:    "blurry photo",
	})

	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestNotificationHandler_JudgeAssigned(t *testing.T) {
	notifier := new(testhelpers.MockNotifier)
	handler := NewNotificationHandler(notifier)

	notifier.On("Notify", mock.Anything, int64(300), entities.NotificationJudgeAssigned, mock.Anything).Return(nil)

	err := handler.HandleJudgeAssigned(context.Background(), events.JudgeAssignedEvent{
		ChallengeID: 42,
		JudgeID:     300,
		AssignedBy:  100,
		Title:       "10k steps",
	})

	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestNotificationHandler_ChallengeCompleted(t *testing.T) {
	tests := []struct {
		name             string
		event            events.ChallengeCompletedEvent
		notificationType entities.NotificationType
		winnerMessage    string
	}{
		{
			name: "verdict with winner",
			event: events.ChallengeCompletedEvent{
				ChallengeID:    42,
				Source:         entities.SettlementSourceVerdict,
				Outcome:        entities.SettlementOutcomeWinner,
				WinnerID:       int64Ptr(100),
				ParticipantIDs: []int64{100, 200},
				Prize:          decimal.NewFromInt(100),
			},
			notificationType: entities.NotificationVerdictIssued,
			winnerMessage:    "You won the challenge!",
		},
		{
			name: "sweep tie",
			event: events.ChallengeCompletedEvent{
				ChallengeID:    42,
				Source:         entities.SettlementSourceSweep,
				Outcome:        entities.SettlementOutcomeTie,
				ParticipantIDs: []int64{100, 200},
				Reason:         "tie",
			},
			notificationType: entities.NotificationChallengeCompleted,
			winnerMessage:    "The challenge ended without a winner.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := new(testhelpers.MockNotifier)
			handler := NewNotificationHandler(notifier)

			notifier.On("Notify", mock.Anything, int64(100), tt.notificationType,
				mock.MatchedBy(func(payload map[string]any) bool {
					return payload["message"] == tt.winnerMessage
				})).Return(nil)
			notifier.On("Notify", mock.Anything, int64(200), tt.notificationType, mock.Anything).Return(nil)

			assert.NoError(t, handler.HandleChallengeCompleted(context.Background(), tt.event))
			notifier.AssertExpectations(t)
		})
	}
}

func TestNotificationHandler_WrongEventType(t *testing.T) {
	handler := NewNotificationHandler(new(testhelpers.MockNotifier))
	assert.Error(t, handler.HandleJudgeAssigned(context.Background(), events.ChallengeCreatedEvent{}))
}

func TestGamificationHandler(t *testing.T) {
	t.Run("create and accept", func(t *testing.T) {
		awarder := new(testhelpers.MockPointsAwarder)
		handler := NewGamificationHandler(awarder)

		awarder.On("AwardPoints", mock.Anything, int64(100), entities.GamificationActionCreate, PointsCreate).Return(nil)
		awarder.On("AwardPoints", mock.Anything, int64(200), entities.GamificationActionAccept, PointsAccept).Return(nil)

		assert.NoError(t, handler.HandleChallengeCreated(context.Background(), events.ChallengeCreatedEvent{ChallengeID: 1, CreatorID: 100}))
		assert.NoError(t, handler.HandleChallengeAccepted(context.Background(), events.ChallengeAcceptedEvent{ChallengeID: 1, CreatorID: 100, ChallengerID: 200}))
		awarder.AssertExpectations(t)
	})

	t.Run("verdict rewards winner and judge", func(t *testing.T) {
		awarder := new(testhelpers.MockPointsAwarder)
		handler := NewGamificationHandler(awarder)

		awarder.On("AwardPoints", mock.Anything, int64(100), entities.GamificationActionWin, PointsWin).Return(nil)
		awarder.On("AwardPoints", mock.Anything, int64(300), entities.GamificationActionJudge, PointsJudge).Return(errors.New("nats down"))

		err := handler.HandleChallengeCompleted(context.Background(), events.ChallengeCompletedEvent{
			ChallengeID: 1,
			Source:      entities.SettlementSourceVerdict,
			WinnerID:    int64Ptr(100),
			JudgeID:     int64Ptr(300),
		})
		assert.NoError(t, err)
		awarder.AssertExpectations(t)
	})

	t.Run("sweep tie awards nothing", func(t *testing.T) {
		awarder := new(testhelpers.MockPointsAwarder)
		handler := NewGamificationHandler(awarder)

		err := handler.HandleChallengeCompleted(context.Background(), events.ChallengeCompletedEvent{
			ChallengeID: 1,
			Source:      entities.SettlementSourceSweep,
			Outcome:     entities.SettlementOutcomeTie,
			JudgeID:     int64Ptr(300),
		})
		assert.NoError(t, err)
		awarder.AssertNotCalled(t, "AwardPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

type recordingSubscriber struct {
	handlers map[events.EventType]int
}

func (s *recordingSubscriber) RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error) {
	s.handlers[eventType]++
}

func TestRegisterApplicationSubscriptions(t *testing.T) {
	subscriber := &recordingSubscriber{handlers: map[events.EventType]int{}}

	RegisterApplicationSubscriptions(subscriber, new(testhelpers.MockPointsAwarder))

	assert.Equal(t, 2, subscriber.handlers[events.EventTypeChallengeCompleted])
	assert.Equal(t, 1, subscriber.handlers[events.EventTypeChallengeCreated])
	assert.Equal(t, 1, subscriber.handlers[events.EventTypeChallengeAccepted])
	assert.Equal(t, 1, subscriber.handlers[events.EventTypeChallengeStateChange])
	assert.Equal(t, 1, subscriber.handlers[events.EventTypeBalanceChange])
	assert.Zero(t, subscriber.handlers[events.EventTypeEvidenceSubmitted])
}

func TestRegisterNotificationSubscriptions(t *testing.T) {
	subscriber := &recordingSubscriber{handlers: map[events.EventType]int{}}

	RegisterNotificationSubscriptions(subscriber, new(testhelpers.MockNotifier))

	assert.Equal(t, 1, subscriber.handlers[events.EventTypeChallengeCompleted])
	assert.Equal(t, 1, subscriber.handlers[events.EventTypeEvidenceSubmitted])
	assert.Equal(t, 1, subscriber.handlers[events.EventTypeEvidenceReviewed])
	assert.Equal(t, 1, subscriber.handlers[events.EventTypeJudgeAssigned])
	assert.Len(t, subscriber.handlers, 4)
}
