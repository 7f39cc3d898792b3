package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"challenger/database"
	"challenger/domain/entities"
	"challenger/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const challengeColumns = `
	id, creator_id, title, description, category, entry_fee, prize, max_participants,
	start_date, end_date, status, judge_id, winner_id, winner_determined, winner_reason,
	judge_verdict, judge_decision_date, started_at, judging_started_at, closed_at,
	completed_at, cancelled_at, prize_frozen, is_private, invite_code, created_at, updated_at`

type challengeRepository struct {
	q Queryable
}

// NewChallengeRepository creates a challenge repository on the pool
func NewChallengeRepository(db *database.DB) interfaces.ChallengeRepository {
	return &challengeRepository{q: db.Pool}
}

func newChallengeRepositoryWithTx(tx Queryable) interfaces.ChallengeRepository {
	return &challengeRepository{q: tx}
}

// Create inserts a challenge and fills in its id and timestamps
func (r *challengeRepository) Create(ctx context.Context, challenge *entities.Challenge) error {
	query := `
		INSERT INTO challenges (
			creator_id, title, description, category, entry_fee, prize, max_participants,
			start_date, end_date, status, judge_id, prize_frozen, is_private, invite_code
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		challenge.CreatorID,
		challenge.Title,
		challenge.Description,
		challenge.Category,
		challenge.EntryFee,
		challenge.Prize,
		challenge.MaxParticipants,
		challenge.StartDate,
		challenge.EndDate,
		challenge.Status,
		challenge.JudgeID,
		challenge.PrizeFrozen,
		challenge.IsPrivate,
		challenge.InviteCode,
	).Scan(&challenge.ID, &challenge.CreatedAt, &challenge.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// GetByID retrieves a challenge by id
func (r *challengeRepository) GetByID(ctx context.Context, id int64) (*entities.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	challenge, err := scanChallenge(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge %d: %w", id, err)
	}
	return challenge, nil
}

// GetByIDForUpdate retrieves a challenge and locks its row
func (r *challengeRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1 FOR UPDATE`
	challenge, err := scanChallenge(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock challenge %d: %w", id, err)
	}
	return challenge, nil
}

// Update saves the mutable fields of a challenge
func (r *challengeRepository) Update(ctx context.Context, challenge *entities.Challenge) error {
	query := `
		UPDATE challenges SET
			status = $2,
			judge_id = $3,
			winner_id = $4,
			winner_determined = $5,
			winner_reason = $6,
			judge_verdict = $7,
			judge_decision_date = $8,
			started_at = $9,
			judging_started_at = $10,
			closed_at = $11,
			completed_at = $12,
			cancelled_at = $13,
			prize_frozen = $14,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		challenge.ID,
		challenge.Status,
		challenge.JudgeID,
		challenge.WinnerID,
		challenge.WinnerDetermined,
		challenge.WinnerReason,
		challenge.JudgeVerdict,
		challenge.JudgeDecisionDate,
		challenge.StartedAt,
		challenge.JudgingStartedAt,
		challenge.ClosedAt,
		challenge.CompletedAt,
		challenge.CancelledAt,
		challenge.PrizeFrozen,
	).Scan(&challenge.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("challenge %d not found", challenge.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update challenge %d: %w", challenge.ID, err)
	}
	return nil
}

// GetDueForSettlement returns ids of expired in-progress challenges without a winner,
// ordered by id and starting after afterID
func (r *challengeRepository) GetDueForSettlement(ctx context.Context, now time.Time, afterID int64, limit int) ([]int64, error) {
	query := `
		SELECT id
		FROM challenges
		WHERE status = 'in_progress'
		  AND NOT winner_determined
		  AND end_date < $1
		  AND id > $2
		ORDER BY id
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, now, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges due for settlement: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan challenge ids: %w", err)
	}
	return ids, nil
}

// GetByUser returns challenges the user created, challenges or judges, newest first
func (r *challengeRepository) GetByUser(ctx context.Context, userID int64, statuses []entities.ChallengeStatus) ([]*entities.Challenge, error) {
	filter := make([]string, 0, len(statuses))
	for _, s := range statuses {
		filter = append(filter, string(s))
	}

	query := `
		SELECT ` + challengeColumns + `
		FROM challenges c
		WHERE EXISTS (
			SELECT 1 FROM participants p
			WHERE p.challenge_id = c.id AND p.user_id = $1 AND p.status <> 'rejected'
		)
		  AND (cardinality($2::text[]) = 0 OR c.status = ANY($2))
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.q.Query(ctx, query, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenges for user %d: %w", userID, err)
	}
	defer rows.Close()

	var challenges []*entities.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, challenge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenges: %w", err)
	}
	return challenges, nil
}

// scanChallenge returns (nil, nil) when the row does not exist
func scanChallenge(row pgx.Row) (*entities.Challenge, error) {
	var c entities.Challenge
	err := row.Scan(
		&c.ID,
		&c.CreatorID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.EntryFee,
		&c.Prize,
		&c.MaxParticipants,
		&c.StartDate,
		&c.EndDate,
		&c.Status,
		&c.JudgeID,
		&c.WinnerID,
		&c.WinnerDetermined,
		&c.WinnerReason,
		&c.JudgeVerdict,
		&c.JudgeDecisionDate,
		&c.StartedAt,
		&c.JudgingStartedAt,
		&c.ClosedAt,
		&c.CompletedAt,
		&c.CancelledAt,
		&c.PrizeFrozen,
		&c.IsPrivate,
		&c.InviteCode,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
