package repository

import (
	"context"
	"errors"
	"fmt"

	"challenger/database"
	"challenger/domain/entities"
	"challenger/domain/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const walletColumns = `id, user_id, balance, currency, created_at, updated_at`

type walletRepository struct {
	q Queryable
}

// NewWalletRepository creates a wallet repository on the pool
func NewWalletRepository(db *database.DB) interfaces.WalletRepository {
	return &walletRepository{q: db.Pool}
}

func newWalletRepositoryWithTx(tx Queryable) interfaces.WalletRepository {
	return &walletRepository{q: tx}
}

// Create opens an empty wallet, returning the existing one if the user already has it
func (r *walletRepository) Create(ctx context.Context, userID int64) (*entities.Wallet, error) {
	query := `
		INSERT INTO wallets (user_id, balance, currency)
		VALUES ($1, 0, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + walletColumns

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, userID, entities.DefaultCurrency))
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet for user %d: %w", userID, err)
	}
	return wallet, nil
}

func (r *walletRepository) GetByID(ctx context.Context, id int64) (*entities.Wallet, error) {
	wallet, err := scanWallet(r.q.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet %d: %w", id, err)
	}
	return wallet, nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	wallet, err := scanWallet(r.q.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}
	return wallet, nil
}

func (r *walletRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Wallet, error) {
	wallet, err := scanWallet(r.q.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet %d: %w", id, err)
	}
	return wallet, nil
}

func (r *walletRepository) UpdateBalance(ctx context.Context, walletID int64, newBalance decimal.Decimal) error {
	query := `
		UPDATE wallets
		SET balance = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, walletID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance of wallet %d: %w", walletID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet %d not found", walletID)
	}
	return nil
}

// List pages through wallets by id
func (r *walletRepository) List(ctx context.Context, afterID int64, limit int) ([]*entities.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id > $1 ORDER BY id LIMIT $2`

	rows, err := r.q.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	wallets, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[entities.Wallet])
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallets: %w", err)
	}
	return wallets, nil
}

func scanWallet(row pgx.Row) (*entities.Wallet, error) {
	var w entities.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}
