package interfaces

import (
	"context"

	"challenger/domain/entities"
	"challenger/domain/events"

	"github.com/shopspring/decimal"
)

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the transaction outcome is known
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}

// Notifier delivers a user-facing notification. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, userID int64, notificationType entities.NotificationType, payload map[string]any) error
}

// PointsAwarder credits gamification points. Delivery is best effort.
type PointsAwarder interface {
	AwardPoints(ctx context.Context, userID int64, action entities.GamificationAction, points int) error
}

// CategoryPolicy exposes admin-configured category rules read during challenge creation
type CategoryPolicy interface {
	MinimumEntryFee(category string) decimal.Decimal
}
