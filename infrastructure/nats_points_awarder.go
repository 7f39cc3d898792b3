package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"challenger/domain/entities"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// PointsAwardedSubject is consumed by the gamification service
const PointsAwardedSubject = "gamification.points.awarded"

// PointsAwardedMessage is the JSON body published for each award
type PointsAwardedMessage struct {
	AwardID   string                      `json:"award_id"`
	UserID    int64                       `json:"user_id"`
	Action    entities.GamificationAction `json:"action"`
	Points    int                         `json:"points"`
	AwardedAt time.Time                   `json:"awarded_at"`
}

// messagePublisher is satisfied by *NATSClient
type messagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// NATSPointsAwarder forwards point awards to the gamification service over JetStream.
// With a nil client awards are only logged.
type NATSPointsAwarder struct {
	client messagePublisher
}

// NewNATSPointsAwarder creates a points awarder. Pass nil when NATS is disabled.
func NewNATSPointsAwarder(client *NATSClient) *NATSPointsAwarder {
	if client == nil {
		return &NATSPointsAwarder{}
	}
	return &NATSPointsAwarder{client: client}
}

// AwardPoints publishes one award
func (a *NATSPointsAwarder) AwardPoints(ctx context.Context, userID int64, action entities.GamificationAction, points int) error {
	if points <= 0 {
		return fmt.Errorf("points must be positive, got %d", points)
	}

	message := PointsAwardedMessage{
		AwardID:   uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Points:    points,
		AwardedAt: time.Now().UTC(),
	}

	fields := log.Fields{
		"userID":  userID,
		"action":  action,
		"points":  points,
		"awardID": message.AwardID,
	}

	if a.client == nil {
		log.WithFields(fields).Debug("NATS disabled, points award not forwarded")
		return nil
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal points award: %w", err)
	}

	if err := a.client.Publish(ctx, PointsAwardedSubject, data); err != nil {
		return fmt.Errorf("failed to publish points award: %w", err)
	}

	log.WithFields(fields).Debug("Published points award")
	return nil
}

// EnsureGamificationStream creates the stream that carries point awards
func EnsureGamificationStream(client *NATSClient) error {
	if client == nil {
		return nil
	}
	return client.EnsureStream("gamification_events", "Points awarded for challenge activity", []string{PointsAwardedSubject})
}
