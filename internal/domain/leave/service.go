package leave

import "context"

// StatusService defines admin management of per-day leave statuses.
type StatusService interface {
	SetStatus(ctx context.Context, req SetStatusRequest) (DayStatusResponse, error)
	ListByDate(ctx context.Context, date string) ([]DayStatusResponse, error)
}
