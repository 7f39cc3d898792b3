package application

import (
	"context"
	"time"

	"challenger/domain/entities"
	"challenger/domain/events"
)

// EventSubscriber registers in-process handlers for domain events
type EventSubscriber interface {
	RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error)
}

// AdvisoryLocker takes a cross-process lock. Satisfied by *database.DB.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (release func(), acquired bool, err error)
}

// SettlementSweeper runs one settlement pass
type SettlementSweeper interface {
	RunSettlementSweep(ctx context.Context, now time.Time) (*entities.SweepReport, error)
}
