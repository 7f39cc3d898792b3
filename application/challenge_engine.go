package application

import (
	"context"
	"fmt"
	"time"

	"challenger/domain"
	"challenger/domain/entities"
	"challenger/domain/interfaces"
	"challenger/domain/services"
	"challenger/infrastructure/observability"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ChallengeEngine is the entry point for every challenge and ledger operation.
// Each call runs in its own unit of work; events are delivered after commit.
type ChallengeEngine struct {
	uowFactory     interfaces.UnitOfWorkFactory
	categoryPolicy interfaces.CategoryPolicy
	batchSize      int
	now            func() time.Time
}

// NewChallengeEngine creates an engine. batchSize bounds how many due challenges
// the settlement sweep loads per query.
func NewChallengeEngine(uowFactory interfaces.UnitOfWorkFactory, categoryPolicy interfaces.CategoryPolicy, batchSize int) *ChallengeEngine {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ChallengeEngine{
		uowFactory:     uowFactory,
		categoryPolicy: categoryPolicy,
		batchSize:      batchSize,
		now:            time.Now,
	}
}

// serviceSet holds the domain services bound to one unit of work
type serviceSet struct {
	uow        interfaces.UnitOfWork
	ledger     interfaces.LedgerService
	challenges interfaces.ChallengeService
	judging    interfaces.JudgingService
	settlement interfaces.SettlementService
}

func (e *ChallengeEngine) newServiceSet(uow interfaces.UnitOfWork) *serviceSet {
	ledger := services.NewLedgerService(
		uow.WalletRepository(),
		uow.TransactionRepository(),
		uow.EventBus(),
	)

	return &serviceSet{
		uow:    uow,
		ledger: ledger,
		challenges: services.NewChallengeService(
			uow.ChallengeRepository(),
			uow.ParticipantRepository(),
			uow.RuleRepository(),
			uow.RuleComplianceRepository(),
			uow.EvidenceRepository(),
			uow.EventBus(),
			e.categoryPolicy,
		),
		judging: services.NewJudgingService(
			uow.ChallengeRepository(),
			uow.ParticipantRepository(),
			uow.RuleRepository(),
			uow.RuleComplianceRepository(),
			uow.EvidenceRepository(),
			ledger,
			uow.EventBus(),
		),
		settlement: services.NewSettlementService(
			uow.ChallengeRepository(),
			uow.ParticipantRepository(),
			uow.EvidenceRepository(),
			ledger,
			uow.EventBus(),
		),
	}
}

// inUnitOfWork runs fn in a fresh transaction and commits when fn succeeds
func inUnitOfWork[T any](ctx context.Context, e *ChallengeEngine, fn func(svc *serviceSet) (T, error)) (T, error) {
	var zero T

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	result, err := fn(e.newServiceSet(uow))
	if err != nil {
		return zero, err
	}

	if err := uow.Commit(); err != nil {
		return zero, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

// CreateChallenge opens a new challenge created by the actor
func (e *ChallengeEngine) CreateChallenge(ctx context.Context, actor entities.Actor, params entities.CreateChallengeParams) (*entities.ChallengeDetail, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.ChallengeDetail, error) {
		return svc.challenges.CreateChallenge(ctx, actor.UserID, params)
	})
}

// AcceptChallenge joins the actor as challenger. inviteCode is only read for private challenges.
func (e *ChallengeEngine) AcceptChallenge(ctx context.Context, actor entities.Actor, challengeID int64, inviteCode string) (*entities.Challenge, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Challenge, error) {
		return svc.challenges.AcceptChallenge(ctx, challengeID, actor.UserID, inviteCode)
	})
}

// RejectChallenge declines an invitation
func (e *ChallengeEngine) RejectChallenge(ctx context.Context, actor entities.Actor, challengeID int64) (*entities.Challenge, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Challenge, error) {
		return svc.challenges.RejectChallenge(ctx, challengeID, actor.UserID)
	})
}

// CancelChallenge cancels a challenge on behalf of its creator or an admin
func (e *ChallengeEngine) CancelChallenge(ctx context.Context, actor entities.Actor, challengeID int64, reason string) (*entities.Challenge, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Challenge, error) {
		return svc.challenges.CancelChallenge(ctx, challengeID, actor, reason)
	})
}

// AssignJudge invites judgeUserID to judge the challenge
func (e *ChallengeEngine) AssignJudge(ctx context.Context, actor entities.Actor, challengeID, judgeUserID int64) (*entities.Challenge, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Challenge, error) {
		return svc.judging.AssignJudge(ctx, challengeID, actor.UserID, judgeUserID)
	})
}

// AcceptJudgeAssignment confirms the actor as judge
func (e *ChallengeEngine) AcceptJudgeAssignment(ctx context.Context, actor entities.Actor, challengeID int64) (*entities.Challenge, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Challenge, error) {
		return svc.judging.AcceptJudgeAssignment(ctx, challengeID, actor.UserID)
	})
}

// RejectJudgeAssignment declines or steps down from judging
func (e *ChallengeEngine) RejectJudgeAssignment(ctx context.Context, actor entities.Actor, challengeID int64) (*entities.Challenge, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Challenge, error) {
		return svc.judging.RejectJudgeAssignment(ctx, challengeID, actor.UserID)
	})
}

// SubmitEvidence records evidence from a principal
func (e *ChallengeEngine) SubmitEvidence(ctx context.Context, actor entities.Actor, challengeID int64, input entities.EvidenceInput) (*entities.Evidence, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Evidence, error) {
		return svc.challenges.SubmitEvidence(ctx, challengeID, actor.UserID, input)
	})
}

// DeleteEvidence removes the actor's own pending evidence
func (e *ChallengeEngine) DeleteEvidence(ctx context.Context, actor entities.Actor, evidenceID int64) error {
	_, err := inUnitOfWork(ctx, e, func(svc *serviceSet) (struct{}, error) {
		return struct{}{}, svc.challenges.DeleteEvidence(ctx, evidenceID, actor.UserID)
	})
	return err
}

// UpdateEvidenceStatus approves or rejects evidence as judge
func (e *ChallengeEngine) UpdateEvidenceStatus(ctx context.Context, actor entities.Actor, evidenceID int64, status entities.EvidenceStatus, comments string) (*entities.Evidence, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Evidence, error) {
		return svc.judging.UpdateEvidenceStatus(ctx, evidenceID, actor.UserID, status, comments)
	})
}

// EvaluateCompliance records the judge's verdict on one rule for one participant
func (e *ChallengeEngine) EvaluateCompliance(ctx context.Context, actor entities.Actor, input entities.ComplianceInput) (*entities.RuleCompliance, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.RuleCompliance, error) {
		return svc.judging.EvaluateCompliance(ctx, actor.UserID, input)
	})
}

// RequestJudging moves an in-progress challenge to judging
func (e *ChallengeEngine) RequestJudging(ctx context.Context, actor entities.Actor, challengeID int64) (*entities.Challenge, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Challenge, error) {
		return svc.challenges.RequestJudging(ctx, challengeID, actor.UserID)
	})
}

// IssueVerdict finalizes the challenge by judge decision. A nil winnerID closes it without a winner.
func (e *ChallengeEngine) IssueVerdict(ctx context.Context, actor entities.Actor, challengeID int64, winnerID *int64, reason string) (*entities.SettlementResult, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.SettlementResult, error) {
		return svc.judging.IssueVerdict(ctx, challengeID, actor.UserID, winnerID, reason)
	})
}

// GetChallengeDetail returns a challenge with participants, rules and evidence
func (e *ChallengeEngine) GetChallengeDetail(ctx context.Context, challengeID int64) (*entities.ChallengeDetail, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.ChallengeDetail, error) {
		return svc.challenges.GetChallengeDetail(ctx, challengeID)
	})
}

// GetChallengeStats returns evidence and compliance totals per principal
func (e *ChallengeEngine) GetChallengeStats(ctx context.Context, challengeID int64) (*entities.ChallengeStats, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.ChallengeStats, error) {
		return svc.challenges.GetChallengeStats(ctx, challengeID)
	})
}

// GetUserChallenges lists the actor's challenges, optionally filtered by status
func (e *ChallengeEngine) GetUserChallenges(ctx context.Context, actor entities.Actor, statuses []entities.ChallengeStatus) ([]*entities.Challenge, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) ([]*entities.Challenge, error) {
		return svc.challenges.GetUserChallenges(ctx, actor.UserID, statuses)
	})
}

// GetWallet returns the actor's wallet, opening an empty one on first use
func (e *ChallengeEngine) GetWallet(ctx context.Context, actor entities.Actor) (*entities.Wallet, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Wallet, error) {
		return svc.ledger.GetOrCreateWallet(ctx, actor.UserID)
	})
}

// Deposit credits the actor's wallet
func (e *ChallengeEngine) Deposit(ctx context.Context, actor entities.Actor, amount decimal.Decimal, description string) (*entities.Transaction, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Transaction, error) {
		return svc.ledger.Deposit(ctx, actor.UserID, amount, description)
	})
}

// Withdraw debits the actor's wallet. Overdrafts fail with a conflict error.
func (e *ChallengeEngine) Withdraw(ctx context.Context, actor entities.Actor, amount decimal.Decimal, description string) (*entities.Transaction, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.Transaction, error) {
		return svc.ledger.Withdraw(ctx, actor.UserID, amount, description)
	})
}

// Transfer moves amount from the actor's wallet to the recipient's
func (e *ChallengeEngine) Transfer(ctx context.Context, actor entities.Actor, recipientUserID int64, amount decimal.Decimal, description string) (*entities.TransferResult, error) {
	if recipientUserID == actor.UserID {
		return nil, domain.NewValidationError("cannot transfer to yourself")
	}

	return inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.TransferResult, error) {
		from, err := svc.ledger.GetOrCreateWallet(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		to, err := svc.ledger.GetOrCreateWallet(ctx, recipientUserID)
		if err != nil {
			return nil, err
		}
		return svc.ledger.Transfer(ctx, from.ID, to.ID, amount, description)
	})
}

// GetTransactions returns the actor's most recent ledger rows
func (e *ChallengeEngine) GetTransactions(ctx context.Context, actor entities.Actor, limit int) ([]*entities.Transaction, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) ([]*entities.Transaction, error) {
		return svc.ledger.GetTransactions(ctx, actor.UserID, limit)
	})
}

// ReconcileWallets compares every wallet balance with its transaction log and
// returns the wallets that disagree
func (e *ChallengeEngine) ReconcileWallets(ctx context.Context) ([]*entities.WalletReconciliation, error) {
	var mismatches []*entities.WalletReconciliation
	var afterID int64
	checked := 0

	for {
		batch, err := inUnitOfWork(ctx, e, func(svc *serviceSet) ([]*entities.WalletReconciliation, error) {
			wallets, err := svc.uow.WalletRepository().List(ctx, afterID, e.batchSize)
			if err != nil {
				return nil, fmt.Errorf("failed to list wallets: %w", err)
			}
			reports := make([]*entities.WalletReconciliation, 0, len(wallets))
			for _, wallet := range wallets {
				report, err := svc.ledger.Reconcile(ctx, wallet.ID)
				if err != nil {
					return nil, err
				}
				reports = append(reports, report)
			}
			return reports, nil
		})
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		for _, report := range batch {
			checked++
			afterID = report.WalletID
			if !report.IsBalanced() {
				log.WithFields(log.Fields{
					"walletID":      report.WalletID,
					"userID":        report.UserID,
					"storedBalance": report.StoredBalance.StringFixed(2),
					"ledgerBalance": report.LedgerBalance.StringFixed(2),
				}).Warn("Wallet balance does not match ledger")
				mismatches = append(mismatches, report)
			}
		}

		if len(batch) < e.batchSize {
			break
		}
	}

	log.WithFields(log.Fields{
		"walletsChecked": checked,
		"mismatches":     len(mismatches),
	}).Info("Wallet reconciliation complete")

	return mismatches, nil
}

// RunSettlementSweep finalizes every in-progress challenge whose end date is before now.
// Each challenge is settled in its own unit of work so one failure does not roll back the rest.
func (e *ChallengeEngine) RunSettlementSweep(ctx context.Context, now time.Time) (*entities.SweepReport, error) {
	report := &entities.SweepReport{StartedAt: e.now()}
	defer func() {
		report.Duration = e.now().Sub(report.StartedAt)
		observability.GetMetrics().RecordSweep(report.Duration, report.Failed)
	}()

	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		ids, err := e.dueChallengeIDs(ctx, now, afterID)
		if err != nil {
			return report, err
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				log.WithFields(log.Fields{
					"settled": report.Settled,
					"scanned": report.Scanned,
				}).Warn("Settlement sweep interrupted")
				return report, err
			}

			afterID = id
			report.Scanned++
			e.settleOne(ctx, id, now, report)
		}

		if len(ids) < e.batchSize {
			break
		}
	}

	log.WithFields(log.Fields{
		"scanned": report.Scanned,
		"settled": report.Settled,
		"tied":    report.Tied,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("Settlement sweep complete")

	return report, nil
}

func (e *ChallengeEngine) dueChallengeIDs(ctx context.Context, now time.Time, afterID int64) ([]int64, error) {
	return inUnitOfWork(ctx, e, func(svc *serviceSet) ([]int64, error) {
		ids, err := svc.uow.ChallengeRepository().GetDueForSettlement(ctx, now, afterID, e.batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list challenges due for settlement: %w", err)
		}
		return ids, nil
	})
}

func (e *ChallengeEngine) settleOne(ctx context.Context, challengeID int64, now time.Time, report *entities.SweepReport) {
	result, err := inUnitOfWork(ctx, e, func(svc *serviceSet) (*entities.SettlementResult, error) {
		return svc.settlement.SettleExpiredChallenge(ctx, challengeID, now)
	})
	if err != nil {
		report.Failed++
		report.FailedIDs = append(report.FailedIDs, challengeID)
		log.WithFields(log.Fields{
			"challengeID": challengeID,
			"error":       err,
		}).Error("Failed to settle challenge")
		return
	}

	switch result.Outcome {
	case entities.SettlementOutcomeWinner:
		report.Settled++
	case entities.SettlementOutcomeTie:
		report.Tied++
	default:
		report.Skipped++
	}
}
