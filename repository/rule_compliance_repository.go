package repository

import (
	"context"
	"errors"
	"fmt"

	"challenger/database"
	"challenger/domain/entities"
	"challenger/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const ruleComplianceColumns = `rc.id, rc.rule_id, rc.participant_id, rc.judge_id, rc.is_compliant, rc.judge_comments,
	rc.evaluated_at, rc.auto_evaluated, rc.created_at, rc.updated_at`

type ruleComplianceRepository struct {
	q Queryable
}

// NewRuleComplianceRepository creates a rule compliance repository on the pool
func NewRuleComplianceRepository(db *database.DB) interfaces.RuleComplianceRepository {
	return &ruleComplianceRepository{q: db.Pool}
}

func newRuleComplianceRepositoryWithTx(tx Queryable) interfaces.RuleComplianceRepository {
	return &ruleComplianceRepository{q: tx}
}

// Upsert writes the judge's verdict, replacing any earlier one for the same rule and participant
func (r *ruleComplianceRepository) Upsert(ctx context.Context, compliance *entities.RuleCompliance) error {
	query := `
		INSERT INTO rule_compliances (rule_id, participant_id, judge_id, is_compliant, judge_comments, evaluated_at, auto_evaluated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (rule_id, participant_id) DO UPDATE SET
			judge_id = EXCLUDED.judge_id,
			is_compliant = EXCLUDED.is_compliant,
			judge_comments = EXCLUDED.judge_comments,
			evaluated_at = EXCLUDED.evaluated_at,
			auto_evaluated = EXCLUDED.auto_evaluated,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		compliance.RuleID,
		compliance.ParticipantID,
		compliance.JudgeID,
		compliance.IsCompliant,
		compliance.JudgeComments,
		compliance.EvaluatedAt,
		compliance.AutoEvaluated,
	).Scan(&compliance.ID, &compliance.CreatedAt, &compliance.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert compliance for rule %d participant %d: %w",
			compliance.RuleID, compliance.ParticipantID, err)
	}
	return nil
}

// GetByChallenge returns every compliance record attached to the challenge's rules
func (r *ruleComplianceRepository) GetByChallenge(ctx context.Context, challengeID int64) ([]*entities.RuleCompliance, error) {
	query := `
		SELECT ` + ruleComplianceColumns + `
		FROM rule_compliances rc
		JOIN rules ru ON ru.id = rc.rule_id
		WHERE ru.challenge_id = $1
		ORDER BY ru.order_index, rc.participant_id
	`

	rows, err := r.q.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get compliance for challenge %d: %w", challengeID, err)
	}
	defer rows.Close()

	var compliances []*entities.RuleCompliance
	for rows.Next() {
		compliance, err := scanRuleCompliance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compliance: %w", err)
		}
		compliances = append(compliances, compliance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compliance: %w", err)
	}
	return compliances, nil
}

func scanRuleCompliance(row pgx.Row) (*entities.RuleCompliance, error) {
	var rc entities.RuleCompliance
	err := row.Scan(
		&rc.ID,
		&rc.RuleID,
		&rc.ParticipantID,
		&rc.JudgeID,
		&rc.IsCompliant,
		&rc.JudgeComments,
		&rc.EvaluatedAt,
		&rc.AutoEvaluated,
		&rc.CreatedAt,
		&rc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rc, nil
}
