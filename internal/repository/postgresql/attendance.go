package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nimbushr/attendance-gate/internal/domain/attendance"
	"github.com/nimbushr/attendance-gate/internal/pkg/database"
)

const uniqueViolationCode = "23505"

type attendanceRepository struct {
	db *database.DB
}

// Create implements attendance.RecordRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rec.ID = uuid.NewString()

	query := `
		INSERT INTO attendance_records (
			id, user_id, date, check_in_time,
			check_in_latitude, check_in_longitude, check_in_method,
			status, is_remote, off_premises_approved, lateness_reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Date,
		rec.CheckInTime,
		rec.CheckInLatitude,
		rec.CheckInLongitude,
		rec.CheckInMethod,
		rec.Status,
		rec.IsRemote,
		rec.OffPremisesApproved,
		rec.LatenessReason,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			// The (user_id, date) unique index is the concurrency control:
			// the losing writer of a race lands here.
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// GetByUserAndDate implements attendance.RecordRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, user_id, date, check_in_time,
			   check_in_latitude, check_in_longitude, check_in_method,
			   check_out_time, check_out_latitude, check_out_longitude,
			   work_hours, status, is_remote, off_premises_approved,
			   lateness_reason, early_checkout_reason,
			   created_at, updated_at
		FROM attendance_records
		WHERE user_id = $1
		  AND date = $2
		LIMIT 1
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, userID, date).Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.CheckInTime,
		&rec.CheckInLatitude, &rec.CheckInLongitude, &rec.CheckInMethod,
		&rec.CheckOutTime, &rec.CheckOutLatitude, &rec.CheckOutLongitude,
		&rec.WorkHours, &rec.Status, &rec.IsRemote, &rec.OffPremisesApproved,
		&rec.LatenessReason, &rec.EarlyCheckoutReason,
		&rec.CreatedAt, &rec.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No record for this day yet
		}
		return nil, fmt.Errorf("failed to get attendance record by user and date: %w", err)
	}

	return &rec, nil
}

// GetOpenSessionBefore implements attendance.RecordRepository.
func (a *attendanceRepository) GetOpenSessionBefore(ctx context.Context, userID string, date string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, user_id, date, check_in_time,
			   check_in_latitude, check_in_longitude, check_in_method,
			   check_out_time, check_out_latitude, check_out_longitude,
			   work_hours, status, is_remote, off_premises_approved,
			   lateness_reason, early_checkout_reason,
			   created_at, updated_at
		FROM attendance_records
		WHERE user_id = $1
		  AND date < $2
		  AND check_out_time IS NULL
		ORDER BY date DESC
		LIMIT 1
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, userID, date).Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.CheckInTime,
		&rec.CheckInLatitude, &rec.CheckInLongitude, &rec.CheckInMethod,
		&rec.CheckOutTime, &rec.CheckOutLatitude, &rec.CheckOutLongitude,
		&rec.WorkHours, &rec.Status, &rec.IsRemote, &rec.OffPremisesApproved,
		&rec.LatenessReason, &rec.EarlyCheckoutReason,
		&rec.CreatedAt, &rec.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}

	return &rec, nil
}

// Close implements attendance.RecordRepository. The check_out_time IS NULL
// guard makes the close idempotent-safe under races: the second closer
// matches zero rows and is reported as a completed day.
func (a *attendanceRepository) Close(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out_time = $1,
			check_out_latitude = $2,
			check_out_longitude = $3,
			work_hours = $4,
			early_checkout_reason = $5,
			updated_at = NOW()
		WHERE id = $6
		  AND check_out_time IS NULL
	`

	tag, err := q.Exec(ctx, query,
		rec.CheckOutTime,
		rec.CheckOutLatitude,
		rec.CheckOutLongitude,
		rec.WorkHours,
		rec.EarlyCheckoutReason,
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to close attendance record: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return attendance.ErrDayCompleted
	}

	return nil
}

// List implements attendance.RecordRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance_records a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "check_in_time":
		orderByField = "a.check_in_time"
	case "check_out_time":
		orderByField = "a.check_out_time"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT a.id, a.user_id, a.date, a.check_in_time,
			   a.check_in_latitude, a.check_in_longitude, a.check_in_method,
			   a.check_out_time, a.check_out_latitude, a.check_out_longitude,
			   a.work_hours, a.status, a.is_remote, a.off_premises_approved,
			   a.lateness_reason, a.early_checkout_reason,
			   a.created_at, a.updated_at,
			   s.full_name AS user_name
		FROM attendance_records a
		LEFT JOIN staff s ON s.id = a.user_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date, &rec.CheckInTime,
			&rec.CheckInLatitude, &rec.CheckInLongitude, &rec.CheckInMethod,
			&rec.CheckOutTime, &rec.CheckOutLatitude, &rec.CheckOutLongitude,
			&rec.WorkHours, &rec.Status, &rec.IsRemote, &rec.OffPremisesApproved,
			&rec.LatenessReason, &rec.EarlyCheckoutReason,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.UserName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}

// GetMyRecords implements attendance.RecordRepository.
func (a *attendanceRepository) GetMyRecords(ctx context.Context, userID string, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	scoped := filter
	scoped.UserID = &userID
	return a.List(ctx, scoped)
}

// RecentCheckInPositions implements attendance.RecordRepository.
func (a *attendanceRepository) RecentCheckInPositions(ctx context.Context, userID string, since time.Time, limit int) ([]attendance.Position, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT check_in_latitude, check_in_longitude
		FROM attendance_records
		WHERE user_id = $1
		  AND check_in_time >= $2
		  AND check_in_latitude IS NOT NULL
		  AND check_in_longitude IS NOT NULL
		ORDER BY check_in_time DESC
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, userID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent check-in positions: %w", err)
	}
	defer rows.Close()

	positions := []attendance.Position{}
	for rows.Next() {
		var p attendance.Position
		if err := rows.Scan(&p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan check-in position: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check-in positions: %w", err)
	}

	return positions, nil
}

func NewAttendanceRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRepository{db: db}
}
