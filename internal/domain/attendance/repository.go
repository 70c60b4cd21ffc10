package attendance

import (
	"context"
	"time"
)

// RecordRepository defines data access methods for attendance records.
type RecordRepository interface {
	// Create inserts a new record. The storage layer enforces the one record
	// per (user, date) invariant; a unique violation is returned as
	// ErrAlreadyCheckedIn so racing check-ins are first-writer-wins.
	Create(ctx context.Context, rec Record) (Record, error)

	// GetByUserAndDate retrieves the record for a user on a local date
	// (YYYY-MM-DD); returns nil when none exists.
	GetByUserAndDate(ctx context.Context, userID string, date string) (*Record, error)

	// GetOpenSessionBefore returns the most recent record before the given
	// date that has a check-in but no check-out, or nil.
	GetOpenSessionBefore(ctx context.Context, userID string, date string) (*Record, error)

	// Close writes the checkout fields exactly once; returns ErrDayCompleted
	// when the record was already closed.
	Close(ctx context.Context, rec Record) error

	// List retrieves records with filters and pagination (admin/manager)
	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)

	// GetMyRecords retrieves records for a specific user
	GetMyRecords(ctx context.Context, userID string, filter RecordFilter) ([]Record, int64, error)

	// RecentCheckInPositions returns up to limit check-in coordinates for the
	// user since the given time, newest first. Records without coordinates
	// are skipped.
	RecentCheckInPositions(ctx context.Context, userID string, since time.Time, limit int) ([]Position, error)
}
