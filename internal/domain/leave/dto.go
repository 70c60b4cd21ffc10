package leave

import (
	"github.com/nimbushr/attendance-gate/internal/pkg/validator"
)

type SetStatusRequest struct {
	UserID string  `json:"user_id"`
	Date   string  `json:"date"` // YYYY-MM-DD
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

func (r *SetStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	validStatuses := []string{string(StatusOnLeave), string(StatusWorking)}
	if !validator.IsInSlice(r.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: on_leave, working",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DayStatusResponse struct {
	ID     string  `json:"id"`
	UserID string  `json:"user_id"`
	Date   string  `json:"date"`
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}
