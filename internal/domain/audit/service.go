package audit

import "context"

// LogService exposes the audit trail to admins, read-only.
type LogService interface {
	List(ctx context.Context, filter LogFilter) ([]Entry, int64, error)
}
