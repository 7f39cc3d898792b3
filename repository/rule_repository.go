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

type ruleRepository struct {
	q Queryable
}

// NewRuleRepository creates a rule repository on the pool
func NewRuleRepository(db *database.DB) interfaces.RuleRepository {
	return &ruleRepository{q: db.Pool}
}

func newRuleRepositoryWithTx(tx Queryable) interfaces.RuleRepository {
	return &ruleRepository{q: tx}
}

// CreateBatch inserts rules in order and fills in their ids
func (r *ruleRepository) CreateBatch(ctx context.Context, rules []*entities.Rule) error {
	query := `
		INSERT INTO rules (challenge_id, description, order_index, is_mandatory)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	for _, rule := range rules {
		err := r.q.QueryRow(ctx, query, rule.ChallengeID, rule.Description, rule.OrderIndex, rule.IsMandatory).
			Scan(&rule.ID, &rule.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create rule %d for challenge %d: %w", rule.OrderIndex, rule.ChallengeID, err)
		}
	}
	return nil
}

func (r *ruleRepository) GetByID(ctx context.Context, id int64) (*entities.Rule, error) {
	query := `
		SELECT id, challenge_id, description, order_index, is_mandatory, created_at
		FROM rules
		WHERE id = $1
	`

	var rule entities.Rule
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rule.ID,
		&rule.ChallengeID,
		&rule.Description,
		&rule.OrderIndex,
		&rule.IsMandatory,
		&rule.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule %d: %w", id, err)
	}
	return &rule, nil
}

// GetByChallenge returns the rules of a challenge by order index
func (r *ruleRepository) GetByChallenge(ctx context.Context, challengeID int64) ([]*entities.Rule, error) {
	query := `
		SELECT id, challenge_id, description, order_index, is_mandatory, created_at
		FROM rules
		WHERE challenge_id = $1
		ORDER BY order_index
	`

	rows, err := r.q.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rules for challenge %d: %w", challengeID, err)
	}

	rules, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[entities.Rule])
	if err != nil {
		return nil, fmt.Errorf("failed to scan rules: %w", err)
	}
	return rules, nil
}
