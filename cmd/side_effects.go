package cmd

import (
	"context"
	"fmt"
	"time"

	"challenger/application"
	"challenger/domain/interfaces"
	"challenger/infrastructure"
	"challenger/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// wireSideEffects sets up what reacts to committed events: metrics, gamification points and
// notifications. Every command that can change a challenge calls it.
//
// consumeNotifications marks the long-running process. With NATS enabled it delivers
// notifications from the durable stream consumer, for its own events and for those of
// one-shot commands, which therefore leave notifications alone. Without NATS each process
// notifies from its local handlers.
func wireSideEffects(ctx context.Context, rt *runtime, consumeNotifications bool) (func(), error) {
	log.Info("Initializing metrics...")
	if err := observability.InitializeGlobalMetrics(ctx, rt.cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	shutdownMetrics := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Error("Error shutting down metrics")
		}
	}

	if err := infrastructure.EnsureGamificationStream(rt.natsClient); err != nil {
		shutdownMetrics()
		return nil, fmt.Errorf("failed to ensure gamification stream: %w", err)
	}
	awarder := infrastructure.NewNATSPointsAwarder(rt.natsClient)

	var notifier interfaces.Notifier
	closeNotifier := func() {}
	if rt.natsClient == nil || consumeNotifications {
		var err error
		notifier, closeNotifier, err = newNotifier(rt.cfg)
		if err != nil {
			shutdownMetrics()
			return nil, err
		}
	}

	if err := subscribeEventReactions(rt, awarder, notifier); err != nil {
		closeNotifier()
		shutdownMetrics()
		return nil, err
	}

	return func() {
		closeNotifier()
		shutdownMetrics()
	}, nil
}

// subscribeEventReactions registers points and metrics on the local publisher. A nil notifier
// means another process delivers this process's notifications from the stream.
func subscribeEventReactions(rt *runtime, awarder interfaces.PointsAwarder, notifier interfaces.Notifier) error {
	log.Info("Registering event subscriptions...")
	application.RegisterApplicationSubscriptions(rt.publisher, awarder)

	switch {
	case notifier == nil:
		log.Info("Notifications are delivered by the engine's stream consumer")
	case rt.natsClient == nil:
		application.RegisterNotificationSubscriptions(rt.publisher, notifier)
	default:
		consumer := infrastructure.NewNATSEventConsumer(rt.natsClient, infrastructure.NewEventSubjectMapper())
		application.RegisterNotificationSubscriptions(consumer, notifier)
		if err := consumer.Start(); err != nil {
			return fmt.Errorf("failed to start notification consumer: %w", err)
		}
	}
	return nil
}
