package interfaces

import (
	"context"
	"time"

	"challenger/domain/entities"

	"github.com/shopspring/decimal"
)

// LedgerService moves money between wallets. Every method runs inside the caller's unit of work.
type LedgerService interface {
	GetOrCreateWallet(ctx context.Context, userID int64) (*entities.Wallet, error)
	GetWallet(ctx context.Context, userID int64) (*entities.Wallet, error)
	Credit(ctx context.Context, walletID int64, amount decimal.Decimal, txType entities.TransactionType, description string, challengeID *int64) (*entities.Transaction, error)
	Debit(ctx context.Context, walletID int64, amount decimal.Decimal, txType entities.TransactionType, description string) (*entities.Transaction, error)
	Transfer(ctx context.Context, fromWalletID, toWalletID int64, amount decimal.Decimal, description string) (*entities.TransferResult, error)
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*entities.Transaction, error)
	Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*entities.Transaction, error)
	// PayPrize credits the challenge prize to its winner at most once
	PayPrize(ctx context.Context, challenge *entities.Challenge) (*entities.Transaction, error)
	Reconcile(ctx context.Context, walletID int64) (*entities.WalletReconciliation, error)
	GetTransactions(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error)
}

// ChallengeService owns challenge status transitions
type ChallengeService interface {
	CreateChallenge(ctx context.Context, creatorID int64, params entities.CreateChallengeParams) (*entities.ChallengeDetail, error)
	AcceptChallenge(ctx context.Context, challengeID, userID int64, inviteCode string) (*entities.Challenge, error)
	RejectChallenge(ctx context.Context, challengeID, userID int64) (*entities.Challenge, error)
	CancelChallenge(ctx context.Context, challengeID int64, actor entities.Actor, reason string) (*entities.Challenge, error)
	SubmitEvidence(ctx context.Context, challengeID, userID int64, input entities.EvidenceInput) (*entities.Evidence, error)
	DeleteEvidence(ctx context.Context, evidenceID, userID int64) error
	RequestJudging(ctx context.Context, challengeID, userID int64) (*entities.Challenge, error)
	GetChallengeDetail(ctx context.Context, challengeID int64) (*entities.ChallengeDetail, error)
	GetChallengeStats(ctx context.Context, challengeID int64) (*entities.ChallengeStats, error)
	GetUserChallenges(ctx context.Context, userID int64, statuses []entities.ChallengeStatus) ([]*entities.Challenge, error)
}

// JudgingService manages the judge lifecycle, compliance records and verdicts
type JudgingService interface {
	AssignJudge(ctx context.Context, challengeID, callerID, candidateID int64) (*entities.Challenge, error)
	AcceptJudgeAssignment(ctx context.Context, challengeID, judgeID int64) (*entities.Challenge, error)
	RejectJudgeAssignment(ctx context.Context, challengeID, judgeID int64) (*entities.Challenge, error)
	EvaluateCompliance(ctx context.Context, judgeID int64, input entities.ComplianceInput) (*entities.RuleCompliance, error)
	UpdateEvidenceStatus(ctx context.Context, evidenceID, judgeID int64, status entities.EvidenceStatus, comments string) (*entities.Evidence, error)
	// IssueVerdict completes the challenge with winnerID, or closes it without a winner when nil
	IssueVerdict(ctx context.Context, challengeID, judgeID int64, winnerID *int64, reason string) (*entities.SettlementResult, error)
}

// SettlementService finalizes expired challenges
type SettlementService interface {
	SettleExpiredChallenge(ctx context.Context, challengeID int64, now time.Time) (*entities.SettlementResult, error)
}
