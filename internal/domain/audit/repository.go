package audit

import (
	"context"

	"github.com/nimbushr/attendance-gate/internal/pkg/validator"
)

// LogRepository defines append/read access to the audit trail.
type LogRepository interface {
	Insert(ctx context.Context, e Entry) error
	List(ctx context.Context, filter LogFilter) ([]Entry, int64, error)
}

// Recorder appends audit entries best-effort: failures are logged by the
// implementation and never surface to the caller.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

type LogFilter struct {
	Action    *string `json:"action,omitempty"`
	ActorID   *string `json:"actor_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LogFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50 // Default limit
	}
	if f.Limit > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 200",
		})
	}

	for _, d := range []struct {
		field string
		value *string
	}{
		{"start_date", f.StartDate},
		{"end_date", f.EndDate},
	} {
		if d.value != nil && *d.value != "" {
			if _, valid := validator.IsValidDate(*d.value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   d.field,
					Message: d.field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
