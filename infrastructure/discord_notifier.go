package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"challenger/domain/entities"
	"challenger/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Discord color constants
const (
	colorInfo    = 0x3498DB // Blue
	colorSuccess = 0x57F287 // Green
	colorWarning = 0xFEE75C // Yellow
)

// directMessenger is the part of *discordgo.Session used to send DMs
type directMessenger interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier delivers notifications as Discord direct messages.
// Platform user ids are Discord user snowflakes.
type DiscordNotifier struct {
	session directMessenger
	limiter *rate.Limiter
}

// NewDiscordNotifier creates a notifier that sends at most ratePerSecond DMs per second
func NewDiscordNotifier(session directMessenger, ratePerSecond float64) *DiscordNotifier {
	burst := int(ratePerSecond)
	if burst < 1 {
		burst = 1
	}
	return &DiscordNotifier{
		session: session,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// Notify sends one embed to the user's DM channel
func (n *DiscordNotifier) Notify(ctx context.Context, userID int64, notificationType entities.NotificationType, payload map[string]any) error {
	metrics := observability.GetMetrics()

	if err := n.limiter.Wait(ctx); err != nil {
		metrics.RecordNotification(string(notificationType), observability.NotificationResultFailed)
		return fmt.Errorf("notification rate limit wait aborted: %w", err)
	}

	channel, err := n.session.UserChannelCreate(strconv.FormatInt(userID, 10), discordgo.WithContext(ctx))
	if err != nil {
		metrics.RecordNotification(string(notificationType), observability.NotificationResultFailed)
		return fmt.Errorf("failed to open DM channel for user %d: %w", userID, err)
	}

	if _, err := n.session.ChannelMessageSendEmbed(channel.ID, buildNotificationEmbed(notificationType, payload), discordgo.WithContext(ctx)); err != nil {
		metrics.RecordNotification(string(notificationType), observability.NotificationResultFailed)
		return fmt.Errorf("failed to send notification to user %d: %w", userID, err)
	}

	metrics.RecordNotification(string(notificationType), observability.NotificationResultSent)
	log.WithFields(log.Fields{
		"userID":           userID,
		"notificationType": notificationType,
	}).Debug("Sent Discord notification")
	return nil
}

func buildNotificationEmbed(notificationType entities.NotificationType, payload map[string]any) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: notificationTitle(notificationType),
		Color: colorInfo,
	}

	switch notificationType {
	case entities.NotificationChallengeCompleted, entities.NotificationVerdictIssued:
		embed.Color = colorSuccess
	case entities.NotificationJudgeAssigned:
		embed.Color = colorWarning
	}

	if message, ok := payload["message"].(string); ok {
		embed.Description = message
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		if key != "message" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   key,
			Value:  fmt.Sprintf("%v", payload[key]),
			Inline: true,
		})
	}

	return embed
}

func notificationTitle(notificationType entities.NotificationType) string {
	switch notificationType {
	case entities.NotificationEvidenceSubmitted:
		return "📎 New Evidence Submitted"
	case entities.NotificationEvidenceReviewed:
		return "🔍 Evidence Reviewed"
	case entities.NotificationJudgeAssigned:
		return "⚖️ You Have Been Asked To Judge"
	case entities.NotificationVerdictIssued:
		return "🏁 Verdict Issued"
	case entities.NotificationChallengeCompleted:
		return "🏆 Challenge Completed"
	default:
		return string(notificationType)
	}
}
