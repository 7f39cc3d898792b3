package testhelpers

import (
	"context"

	"challenger/domain/entities"
	"challenger/domain/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID int64, notificationType entities.NotificationType, payload map[string]any) error {
	args := m.Called(ctx, userID, notificationType, payload)
	return args.Error(0)
}

// MockPointsAwarder is a mock implementation of PointsAwarder
type MockPointsAwarder struct {
	mock.Mock
}

func (m *MockPointsAwarder) AwardPoints(ctx context.Context, userID int64, action entities.GamificationAction, points int) error {
	args := m.Called(ctx, userID, action, points)
	return args.Error(0)
}

// StaticCategoryPolicy returns fixed minimum entry fees keyed by category
type StaticCategoryPolicy map[string]decimal.Decimal

func (p StaticCategoryPolicy) MinimumEntryFee(category string) decimal.Decimal {
	return p[category]
}
