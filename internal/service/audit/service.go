package audit

import (
	"context"
	"log/slog"

	"github.com/nimbushr/attendance-gate/internal/domain/audit"
)

type recorder struct {
	repo audit.LogRepository
}

// Record implements audit.Recorder. Audit writes are best-effort: a failed
// insert is logged and swallowed so it never blocks the attendance flow.
func (r *recorder) Record(ctx context.Context, e audit.Entry) {
	if err := r.repo.Insert(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to write audit log",
			slog.String("action", string(e.Action)),
			slog.Any("error", err),
		)
	}
}

func NewRecorder(repo audit.LogRepository) audit.Recorder {
	return &recorder{repo: repo}
}

type auditService struct {
	repo audit.LogRepository
}

// List implements audit.LogService.
func (s *auditService) List(ctx context.Context, filter audit.LogFilter) ([]audit.Entry, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter)
}

func NewService(repo audit.LogRepository) audit.LogService {
	return &auditService{repo: repo}
}
