package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nimbushr/attendance-gate/internal/domain/staff"
	"github.com/nimbushr/attendance-gate/internal/pkg/database"
)

type staffRepository struct {
	db *database.DB
}

// Create implements staff.StaffRepository.
func (s *staffRepository) Create(ctx context.Context, newStaff staff.Staff) (staff.Staff, error) {
	q := GetQuerier(ctx, s.db)

	newStaff.ID = uuid.NewString()

	query := `
		INSERT INTO staff (
			id, email, full_name, password_hash, role, department, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newStaff.ID,
		newStaff.Email,
		newStaff.FullName,
		newStaff.PasswordHash,
		newStaff.Role,
		newStaff.Department,
		newStaff.IsActive,
	).Scan(&newStaff.CreatedAt, &newStaff.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return staff.Staff{}, staff.ErrEmailExists
		}
		return staff.Staff{}, fmt.Errorf("failed to create staff: %w", err)
	}

	return newStaff, nil
}

// GetByID implements staff.StaffRepository.
func (s *staffRepository) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	return s.getBy(ctx, "id", id)
}

// GetByEmail implements staff.StaffRepository.
func (s *staffRepository) GetByEmail(ctx context.Context, email string) (staff.Staff, error) {
	return s.getBy(ctx, "email", email)
}

func (s *staffRepository) getBy(ctx context.Context, column, value string) (staff.Staff, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`
		SELECT id, email, full_name, password_hash, role, department, is_active,
			   created_at, updated_at
		FROM staff
		WHERE %s = $1
	`, column)

	var st staff.Staff
	err := q.QueryRow(ctx, query, value).Scan(
		&st.ID, &st.Email, &st.FullName, &st.PasswordHash, &st.Role, &st.Department,
		&st.IsActive, &st.CreatedAt, &st.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff by %s: %w", column, err)
	}

	return st, nil
}

// List implements staff.StaffRepository.
func (s *staffRepository) List(ctx context.Context, filter staff.StaffFilter) ([]staff.Staff, int64, error) {
	q := GetQuerier(ctx, s.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Name != nil && *filter.Name != "" {
		baseWhere += fmt.Sprintf(" AND full_name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Name+"%")
		argIdx++
	}

	if filter.Department != nil && *filter.Department != "" {
		baseWhere += fmt.Sprintf(" AND department = $%d", argIdx)
		args = append(args, *filter.Department)
		argIdx++
	}

	if filter.Role != nil && *filter.Role != "" {
		baseWhere += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM staff WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count staff: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT id, email, full_name, password_hash, role, department, is_active,
			   created_at, updated_at
		FROM staff
		WHERE %s
		ORDER BY full_name ASC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	members := []staff.Staff{}
	for rows.Next() {
		var st staff.Staff
		err := rows.Scan(
			&st.ID, &st.Email, &st.FullName, &st.PasswordHash, &st.Role, &st.Department,
			&st.IsActive, &st.CreatedAt, &st.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan staff: %w", err)
		}
		members = append(members, st)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate staff: %w", err)
	}

	return members, total, nil
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepository{db: db}
}
