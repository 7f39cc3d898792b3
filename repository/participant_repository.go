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

const participantColumns = `id, challenge_id, user_id, role, status, result, is_winner, payment_status, joined_at, updated_at`

type participantRepository struct {
	q Queryable
}

// NewParticipantRepository creates a participant repository on the pool
func NewParticipantRepository(db *database.DB) interfaces.ParticipantRepository {
	return &participantRepository{q: db.Pool}
}

func newParticipantRepositoryWithTx(tx Queryable) interfaces.ParticipantRepository {
	return &participantRepository{q: tx}
}

func (r *participantRepository) Create(ctx context.Context, participant *entities.Participant) error {
	query := `
		INSERT INTO participants (challenge_id, user_id, role, status, result, is_winner, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, joined_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		participant.ChallengeID,
		participant.UserID,
		participant.Role,
		participant.Status,
		participant.Result,
		participant.IsWinner,
		participant.PaymentStatus,
	).Scan(&participant.ID, &participant.JoinedAt, &participant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create participant for user %d in challenge %d: %w",
			participant.UserID, participant.ChallengeID, err)
	}
	return nil
}

// Upsert inserts the membership or overwrites role and status of an existing one
func (r *participantRepository) Upsert(ctx context.Context, participant *entities.Participant) error {
	query := `
		INSERT INTO participants (challenge_id, user_id, role, status, result, is_winner, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (challenge_id, user_id) DO UPDATE SET
			role = EXCLUDED.role,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, joined_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		participant.ChallengeID,
		participant.UserID,
		participant.Role,
		participant.Status,
		participant.Result,
		participant.IsWinner,
		participant.PaymentStatus,
	).Scan(&participant.ID, &participant.JoinedAt, &participant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert participant for user %d in challenge %d: %w",
			participant.UserID, participant.ChallengeID, err)
	}
	return nil
}

func (r *participantRepository) GetByID(ctx context.Context, id int64) (*entities.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	participant, err := scanParticipant(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get participant %d: %w", id, err)
	}
	return participant, nil
}

// GetByChallenge returns all memberships of a challenge in join order
func (r *participantRepository) GetByChallenge(ctx context.Context, challengeID int64) ([]*entities.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE challenge_id = $1 ORDER BY id`

	rows, err := r.q.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants for challenge %d: %w", challengeID, err)
	}
	defer rows.Close()

	participants := make([]*entities.Participant, 0, entities.HeadToHeadParticipants+1)
	for rows.Next() {
		participant, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}
	return participants, nil
}

func (r *participantRepository) GetByChallengeAndUser(ctx context.Context, challengeID, userID int64) (*entities.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE challenge_id = $1 AND user_id = $2`
	participant, err := scanParticipant(r.q.QueryRow(ctx, query, challengeID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get participant for user %d in challenge %d: %w", userID, challengeID, err)
	}
	return participant, nil
}

func (r *participantRepository) Update(ctx context.Context, participant *entities.Participant) error {
	query := `
		UPDATE participants SET
			role = $2,
			status = $3,
			result = $4,
			is_winner = $5,
			payment_status = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		participant.ID,
		participant.Role,
		participant.Status,
		participant.Result,
		participant.IsWinner,
		participant.PaymentStatus,
	).Scan(&participant.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("participant %d not found", participant.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update participant %d: %w", participant.ID, err)
	}
	return nil
}

func scanParticipant(row pgx.Row) (*entities.Participant, error) {
	var p entities.Participant
	err := row.Scan(
		&p.ID,
		&p.ChallengeID,
		&p.UserID,
		&p.Role,
		&p.Status,
		&p.Result,
		&p.IsWinner,
		&p.PaymentStatus,
		&p.JoinedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
