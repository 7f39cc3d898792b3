package entities

// TransactionType represents the kind of ledger movement
type TransactionType string

const (
	TransactionTypeDeposit       TransactionType = "deposit"
	TransactionTypeWithdrawal    TransactionType = "withdrawal"
	TransactionTypeTransfer      TransactionType = "transfer"
	TransactionTypeChallengeWin  TransactionType = "challenge_win"
	TransactionTypeChallengeLoss TransactionType = "challenge_loss"
)

// IsCredit returns true for types that only ever add to a balance
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeChallengeWin
}

// IsDebit returns true for types that only ever subtract from a balance
func (t TransactionType) IsDebit() bool {
	return t == TransactionTypeWithdrawal || t == TransactionTypeChallengeLoss
}

// IsChallengeRelated returns true for types that must reference a challenge
func (t TransactionType) IsChallengeRelated() bool {
	return t == TransactionTypeChallengeWin || t == TransactionTypeChallengeLoss
}
