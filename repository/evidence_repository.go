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

const evidenceColumns = `id, challenge_id, user_id, description, file_url, file_type, status,
	judge_comments, reviewed_by, reviewed_at, submitted_at`

type evidenceRepository struct {
	q Queryable
}

// NewEvidenceRepository creates an evidence repository on the pool
func NewEvidenceRepository(db *database.DB) interfaces.EvidenceRepository {
	return &evidenceRepository{q: db.Pool}
}

func newEvidenceRepositoryWithTx(tx Queryable) interfaces.EvidenceRepository {
	return &evidenceRepository{q: tx}
}

func (r *evidenceRepository) Create(ctx context.Context, evidence *entities.Evidence) error {
	query := `
		INSERT INTO evidence (challenge_id, user_id, description, file_url, file_type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, submitted_at
	`

	err := r.q.QueryRow(ctx, query,
		evidence.ChallengeID,
		evidence.UserID,
		evidence.Description,
		evidence.FileURL,
		evidence.FileType,
		evidence.Status,
	).Scan(&evidence.ID, &evidence.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to create evidence for challenge %d: %w", evidence.ChallengeID, err)
	}
	return nil
}

func (r *evidenceRepository) GetByID(ctx context.Context, id int64) (*entities.Evidence, error) {
	query := `SELECT ` + evidenceColumns + ` FROM evidence WHERE id = $1`

	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence %d: %w", id, err)
	}

	evidence, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByPos[entities.Evidence])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan evidence %d: %w", id, err)
	}
	return evidence, nil
}

// GetByChallenge returns the challenge's evidence in submission order
func (r *evidenceRepository) GetByChallenge(ctx context.Context, challengeID int64) ([]*entities.Evidence, error) {
	query := `SELECT ` + evidenceColumns + ` FROM evidence WHERE challenge_id = $1 ORDER BY submitted_at, id`

	rows, err := r.q.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence for challenge %d: %w", challengeID, err)
	}

	evidence, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[entities.Evidence])
	if err != nil {
		return nil, fmt.Errorf("failed to scan evidence: %w", err)
	}
	return evidence, nil
}

// UpdateReview saves the judge's decision on a piece of evidence
func (r *evidenceRepository) UpdateReview(ctx context.Context, evidence *entities.Evidence) error {
	query := `
		UPDATE evidence SET
			status = $2,
			judge_comments = $3,
			reviewed_by = $4,
			reviewed_at = $5
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		evidence.ID,
		evidence.Status,
		evidence.JudgeComments,
		evidence.ReviewedBy,
		evidence.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update evidence %d: %w", evidence.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("evidence %d not found", evidence.ID)
	}
	return nil
}

func (r *evidenceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM evidence WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete evidence %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("evidence %d not found", id)
	}
	return nil
}

// CountApprovedByUser returns approved evidence counts keyed by submitter
func (r *evidenceRepository) CountApprovedByUser(ctx context.Context, challengeID int64) (map[int64]int, error) {
	query := `
		SELECT user_id, COUNT(*)
		FROM evidence
		WHERE challenge_id = $1 AND status = 'approved'
		GROUP BY user_id
	`

	rows, err := r.q.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count approved evidence for challenge %d: %w", challengeID, err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan evidence count: %w", err)
		}
		counts[userID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evidence counts: %w", err)
	}
	return counts, nil
}
