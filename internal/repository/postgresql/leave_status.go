package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nimbushr/attendance-gate/internal/domain/leave"
	"github.com/nimbushr/attendance-gate/internal/pkg/database"
)

type leaveStatusRepository struct {
	db *database.DB
}

// GetByUserAndDate implements leave.StatusRepository.
func (l *leaveStatusRepository) GetByUserAndDate(ctx context.Context, userID string, date string) (*leave.DayStatus, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, user_id, date, status, note, created_at, updated_at
		FROM leave_status
		WHERE user_id = $1
		  AND date = $2
		LIMIT 1
	`

	var st leave.DayStatus
	err := q.QueryRow(ctx, query, userID, date).Scan(
		&st.ID, &st.UserID, &st.Date, &st.Status, &st.Note, &st.CreatedAt, &st.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No status recorded, the user is working
		}
		return nil, fmt.Errorf("failed to get leave status: %w", err)
	}

	return &st, nil
}

// Set implements leave.StatusRepository.
func (l *leaveStatusRepository) Set(ctx context.Context, st leave.DayStatus) (leave.DayStatus, error) {
	q := GetQuerier(ctx, l.db)

	st.ID = uuid.NewString()

	query := `
		INSERT INTO leave_status (
			id, user_id, date, status, note
		) VALUES (
			$1, $2, $3, $4, $5
		)
		ON CONFLICT (user_id, date) DO UPDATE
		SET status = EXCLUDED.status,
			note = EXCLUDED.note,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		st.ID,
		st.UserID,
		st.Date,
		st.Status,
		st.Note,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)

	if err != nil {
		return leave.DayStatus{}, fmt.Errorf("failed to set leave status: %w", err)
	}

	return st, nil
}

// ListByDate implements leave.StatusRepository.
func (l *leaveStatusRepository) ListByDate(ctx context.Context, date string) ([]leave.DayStatus, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, user_id, date, status, note, created_at, updated_at
		FROM leave_status
		WHERE date = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave statuses: %w", err)
	}
	defer rows.Close()

	statuses := []leave.DayStatus{}
	for rows.Next() {
		var st leave.DayStatus
		if err := rows.Scan(&st.ID, &st.UserID, &st.Date, &st.Status, &st.Note, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave status: %w", err)
		}
		statuses = append(statuses, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave statuses: %w", err)
	}

	return statuses, nil
}

func NewLeaveStatusRepository(db *database.DB) leave.StatusRepository {
	return &leaveStatusRepository{db: db}
}
