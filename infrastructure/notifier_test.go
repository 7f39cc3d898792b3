package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"challenger/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessenger struct {
	channelErr error
	sendErr    error
	recipients []string
	embeds     []*discordgo.MessageEmbed
	options    [][]discordgo.RequestOption
}

func (f *fakeMessenger) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	f.recipients = append(f.recipients, recipientID)
	f.options = append(f.options, options)
	return &discordgo.Channel{ID: "dm-" + recipientID}, nil
}

func (f *fakeMessenger) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.embeds = append(f.embeds, embed)
	f.options = append(f.options, options)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func TestDiscordNotifier_Notify(t *testing.T) {
	messenger := &fakeMessenger{}
	notifier := NewDiscordNotifier(messenger, 100)

	err := notifier.Notify(context.Background(), 123456789, entities.NotificationVerdictIssued, map[string]any{
		"message":      "You won",
		"challenge_id": int64(42),
		"prize":        "100.00",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"123456789"}, messenger.recipients)
	require.Len(t, messenger.embeds, 1)

	embed := messenger.embeds[0]
	assert.Equal(t, "You won", embed.Description)
	assert.Equal(t, colorSuccess, embed.Color)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "challenge_id", embed.Fields[0].Name)
	assert.Equal(t, "42", embed.Fields[0].Value)
	assert.Equal(t, "prize", embed.Fields[1].Name)
}

type ctxKey struct{}

func TestDiscordNotifier_RequestsCarryContext(t *testing.T) {
	messenger := &fakeMessenger{}
	notifier := NewDiscordNotifier(messenger, 100)

	ctx := context.WithValue(context.Background(), ctxKey{}, "notify")
	require.NoError(t, notifier.Notify(ctx, 7, entities.NotificationEvidenceReviewed, nil))

	// Channel create and message send
	require.Len(t, messenger.options, 2)
	for _, options := range messenger.options {
		require.Len(t, options, 1)

		cfg := &discordgo.RequestConfig{Request: httptest.NewRequest(http.MethodPost, "/", nil)}
		options[0](cfg)
		assert.Equal(t, "notify", cfg.Request.Context().Value(ctxKey{}))
	}
}

func TestDiscordNotifier_Errors(t *testing.T) {
	t.Run("channel create fails", func(t *testing.T) {
		notifier := NewDiscordNotifier(&fakeMessenger{channelErr: errors.New("unknown user")}, 100)
		err := notifier.Notify(context.Background(), 1, entities.NotificationJudgeAssigned, nil)
		assert.ErrorContains(t, err, "failed to open DM channel")
	})

	t.Run("send fails", func(t *testing.T) {
		notifier := NewDiscordNotifier(&fakeMessenger{sendErr: errors.New("dms closed")}, 100)
		err := notifier.Notify(context.Background(), 1, entities.NotificationJudgeAssigned, nil)
		assert.ErrorContains(t, err, "failed to send notification")
	})

	t.Run("cancelled context", func(t *testing.T) {
		messenger := &fakeMessenger{}
		notifier := NewDiscordNotifier(messenger, 0.001)
		// Drain the single burst token so the next wait blocks
		require.NoError(t, notifier.Notify(context.Background(), 1, entities.NotificationJudgeAssigned, nil))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := notifier.Notify(ctx, 1, entities.NotificationJudgeAssigned, nil)
		assert.Error(t, err)
		assert.Len(t, messenger.embeds, 1)
	})
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLogNotifier().Notify(context.Background(), 1, entities.NotificationEvidenceSubmitted, map[string]any{"challenge_id": 1}))
}

type recordingMessagePublisher struct {
	subject string
	data    []byte
	err     error
}

func (r *recordingMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	r.subject = subject
	r.data = data
	return r.err
}

func TestNATSPointsAwarder(t *testing.T) {
	t.Run("publishes award", func(t *testing.T) {
		client := &recordingMessagePublisher{}
		awarder := &NATSPointsAwarder{client: client}

		require.NoError(t, awarder.AwardPoints(context.Background(), 100, entities.GamificationActionWin, 50))

		assert.Equal(t, PointsAwardedSubject, client.subject)
		var message PointsAwardedMessage
		require.NoError(t, json.Unmarshal(client.data, &message))
		assert.Equal(t, int64(100), message.UserID)
		assert.Equal(t, entities.GamificationActionWin, message.Action)
		assert.Equal(t, 50, message.Points)
		assert.NotEmpty(t, message.AwardID)
	})

	t.Run("publish error is returned", func(t *testing.T) {
		awarder := &NATSPointsAwarder{client: &recordingMessagePublisher{err: errors.New("timeout")}}
		assert.Error(t, awarder.AwardPoints(context.Background(), 100, entities.GamificationActionWin, 50))
	})

	t.Run("disabled NATS only logs", func(t *testing.T) {
		awarder := NewNATSPointsAwarder(nil)
		assert.NoError(t, awarder.AwardPoints(context.Background(), 100, entities.GamificationActionCreate, 10))
	})

	t.Run("non-positive points rejected", func(t *testing.T) {
		awarder := NewNATSPointsAwarder(nil)
		assert.Error(t, awarder.AwardPoints(context.Background(), 100, entities.GamificationActionCreate, 0))
	})
}
