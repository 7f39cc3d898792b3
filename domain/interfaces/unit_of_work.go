package interfaces

import "context"

// UnitOfWork scopes a set of repositories to one database transaction.
// Events published through EventBus are delivered only after Commit succeeds.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChallengeRepository() ChallengeRepository
	ParticipantRepository() ParticipantRepository
	RuleRepository() RuleRepository
	RuleComplianceRepository() RuleComplianceRepository
	EvidenceRepository() EvidenceRepository
	WalletRepository() WalletRepository
	TransactionRepository() TransactionRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
