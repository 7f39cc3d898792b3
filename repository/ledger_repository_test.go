package repository

import (
	"context"
	"testing"

	"challenger/domain/entities"
	"challenger/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	t.Run("create is idempotent", func(t *testing.T) {
		first, err := repo.Create(ctx, 500)
		require.NoError(t, err)
		assert.True(t, first.Balance.IsZero())
		assert.Equal(t, entities.DefaultCurrency, first.Currency)

		second, err := repo.Create(ctx, 500)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("balance cannot go negative", func(t *testing.T) {
		wallet, err := repo.Create(ctx, 501)
		require.NoError(t, err)

		assert.Error(t, repo.UpdateBalance(ctx, wallet.ID, decimal.NewFromInt(-1)))
	})

	t.Run("cents survive the round trip", func(t *testing.T) {
		wallet, err := repo.Create(ctx, 502)
		require.NoError(t, err)

		require.NoError(t, repo.UpdateBalance(ctx, wallet.ID, decimal.RequireFromString("12.34")))

		got, err := repo.GetByUserID(ctx, 502)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.RequireFromString("12.34")), "got %s", got.Balance)
	})

	t.Run("list pages by id", func(t *testing.T) {
		wallets, err := repo.List(ctx, 0, 2)
		require.NoError(t, err)
		require.Len(t, wallets, 2)
		assert.Less(t, wallets[0].ID, wallets[1].ID)

		rest, err := repo.List(ctx, wallets[1].ID, 10)
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})
}

func TestTransactionRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTransactionRepository(testDB.DB)
	challengeRepo := NewChallengeRepository(testDB.DB)
	ctx := context.Background()

	wallet := testutil.SeedWallet(t, testDB.DB, 1, "40")

	t.Run("balance arithmetic is enforced", func(t *testing.T) {
		bad := &entities.Transaction{
			WalletID:        wallet.ID,
			TransactionType: entities.TransactionTypeDeposit,
			Amount:          decimal.NewFromInt(5),
			BalanceBefore:   decimal.NewFromInt(40),
			BalanceAfter:    decimal.NewFromInt(50),
		}
		assert.Error(t, repo.Record(ctx, bad))
	})

	t.Run("prize is paid at most once per challenge", func(t *testing.T) {
		challenge := testutil.NewTestChallenge(1, "Prize once")
		require.NoError(t, challengeRepo.Create(ctx, challenge))

		payout, err := repo.GetPrizePayout(ctx, challenge.ID)
		require.NoError(t, err)
		assert.Nil(t, payout)

		challengeID := challenge.ID
		win := &entities.Transaction{
			WalletID:        wallet.ID,
			TransactionType: entities.TransactionTypeChallengeWin,
			Amount:          decimal.NewFromInt(100),
			BalanceBefore:   decimal.NewFromInt(40),
			BalanceAfter:    decimal.NewFromInt(140),
			ChallengeID:     &challengeID,
		}
		require.NoError(t, repo.Record(ctx, win))

		again := *win
		again.ID = 0
		again.BalanceBefore = decimal.NewFromInt(140)
		again.BalanceAfter = decimal.NewFromInt(240)
		assert.Error(t, repo.Record(ctx, &again))

		payout, err = repo.GetPrizePayout(ctx, challenge.ID)
		require.NoError(t, err)
		require.NotNil(t, payout)
		assert.Equal(t, win.ID, payout.ID)
	})

	t.Run("sum and history", func(t *testing.T) {
		sum, count, err := repo.SumByWallet(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.True(t, sum.Equal(decimal.NewFromInt(140)), "got %s", sum)

		history, err := repo.GetByWallet(ctx, wallet.ID, 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, entities.TransactionTypeChallengeWin, history[0].TransactionType)
	})

	t.Run("empty wallet sums to zero", func(t *testing.T) {
		empty := testutil.SeedWallet(t, testDB.DB, 2, "0")
		sum, count, err := repo.SumByWallet(ctx, empty.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.True(t, sum.IsZero())
	})
}
