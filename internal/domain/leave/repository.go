package leave

import "context"

// StatusRepository defines data access for per-user per-day leave statuses.
type StatusRepository interface {
	// GetByUserAndDate returns nil when no status is recorded for the day
	GetByUserAndDate(ctx context.Context, userID string, date string) (*DayStatus, error)

	// Set inserts or replaces the status for (user, date)
	Set(ctx context.Context, st DayStatus) (DayStatus, error)

	// ListByDate lists all statuses recorded for a local date
	ListByDate(ctx context.Context, date string) ([]DayStatus, error)
}
