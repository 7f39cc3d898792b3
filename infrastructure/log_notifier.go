package infrastructure

import (
	"context"

	"challenger/domain/entities"
	"challenger/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// LogNotifier writes notifications to the log. Used when no Discord token is configured.
type LogNotifier struct{}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, userID int64, notificationType entities.NotificationType, payload map[string]any) error {
	log.WithFields(log.Fields{
		"userID":           userID,
		"notificationType": notificationType,
		"payload":          payload,
	}).Info("Notification")
	observability.GetMetrics().RecordNotification(string(notificationType), observability.NotificationResultSent)
	return nil
}
