package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nimbushr/attendance-gate/internal/domain/audit"
	"github.com/nimbushr/attendance-gate/internal/pkg/database"
)

type auditLogRepository struct {
	db *database.DB
}

// Insert implements audit.LogRepository. Entries are append-only; there is no
// update or delete path.
func (a *auditLogRepository) Insert(ctx context.Context, e audit.Entry) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO audit_logs (
			id, action, actor_id, record_id, old_values, new_values,
			ip_address, user_agent
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := q.Exec(ctx, query,
		uuid.NewString(),
		e.Action,
		e.ActorID,
		e.RecordID,
		e.OldValues,
		e.NewValues,
		e.IPAddress,
		e.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// List implements audit.LogRepository.
func (a *auditLogRepository) List(ctx context.Context, filter audit.LogFilter) ([]audit.Entry, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Action != nil && *filter.Action != "" {
		baseWhere += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, *filter.Action)
		argIdx++
	}

	if filter.ActorID != nil && *filter.ActorID != "" {
		baseWhere += fmt.Sprintf(" AND actor_id = $%d", argIdx)
		args = append(args, *filter.ActorID)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND created_at >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND created_at < $%d::date + INTERVAL '1 day'", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM audit_logs WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT id, action, actor_id, record_id, old_values, new_values,
			   ip_address, user_agent, created_at
		FROM audit_logs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	entries := []audit.Entry{}
	for rows.Next() {
		var e audit.Entry
		err := rows.Scan(
			&e.ID, &e.Action, &e.ActorID, &e.RecordID, &e.OldValues, &e.NewValues,
			&e.IPAddress, &e.UserAgent, &e.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate audit logs: %w", err)
	}

	return entries, total, nil
}

func NewAuditLogRepository(db *database.DB) audit.LogRepository {
	return &auditLogRepository{db: db}
}
