package testutil

import (
	"context"
	"testing"
	"time"

	"challenger/database"
	"challenger/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// NewTestChallenge returns an unsaved in-progress-ready challenge with sensible defaults
func NewTestChallenge(creatorID int64, title string) *entities.Challenge {
	now := time.Now().UTC()
	return &entities.Challenge{
		CreatorID:       creatorID,
		Title:           title,
		Category:        entities.DefaultCategory,
		EntryFee:        decimal.NewFromInt(10),
		Prize:           decimal.NewFromInt(100),
		MaxParticipants: entities.HeadToHeadParticipants,
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(7 * 24 * time.Hour),
		Status:          entities.ChallengeStatusPending,
	}
}

// NewTestParticipant returns an unsaved accepted participant
func NewTestParticipant(challengeID, userID int64, role entities.ParticipantRole) *entities.Participant {
	return &entities.Participant{
		ChallengeID:   challengeID,
		UserID:        userID,
		Role:          role,
		Status:        entities.ParticipantStatusAccepted,
		Result:        entities.ParticipantResultNone,
		PaymentStatus: entities.PaymentStatusNone,
	}
}

// NewTestEvidence returns unsaved evidence with the given status
func NewTestEvidence(challengeID, userID int64, status entities.EvidenceStatus) *entities.Evidence {
	return &entities.Evidence{
		ChallengeID: challengeID,
		UserID:      userID,
		Description: "proof",
		FileURL:     "https://cdn.example.com/proof.jpg",
		FileType:    "image/jpeg",
		Status:      status,
	}
}

// SeedWallet inserts a wallet holding balance together with the deposit that explains it
func SeedWallet(t *testing.T, db *database.DB, userID int64, balance string) *entities.Wallet {
	t.Helper()
	ctx := context.Background()
	amount := decimal.RequireFromString(balance)

	wallet := &entities.Wallet{UserID: userID, Balance: amount, Currency: entities.DefaultCurrency}
	err := db.QueryRow(ctx,
		`INSERT INTO wallets (user_id, balance, currency) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		userID, amount, wallet.Currency,
	).Scan(&wallet.ID, &wallet.CreatedAt, &wallet.UpdatedAt)
	require.NoError(t, err)

	if amount.IsPositive() {
		_, err = db.Exec(ctx,
			`INSERT INTO transactions (wallet_id, transaction_type, amount, balance_before, balance_after, description)
			 VALUES ($1, 'deposit', $2, 0, $2, 'seed')`,
			wallet.ID, amount,
		)
		require.NoError(t, err)
	}
	return wallet
}
