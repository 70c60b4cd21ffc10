package settings

import "github.com/nimbushr/attendance-gate/internal/pkg/validator"

type UpdateGeoSettingsRequest struct {
	MaxLocationAgeMS         int64   `json:"max_location_age_ms"`
	RequireHighAccuracy      bool    `json:"require_high_accuracy"`
	HighAccuracyThresholdM   float64 `json:"high_accuracy_threshold_m"`
	NormalAccuracyThresholdM float64 `json:"normal_accuracy_threshold_m"`
}

func (r *UpdateGeoSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.MaxLocationAgeMS <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_location_age_ms",
			Message: "max_location_age_ms must be greater than zero",
		})
	}
	if r.HighAccuracyThresholdM <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "high_accuracy_threshold_m",
			Message: "high_accuracy_threshold_m must be greater than zero",
		})
	}
	if r.NormalAccuracyThresholdM <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "normal_accuracy_threshold_m",
			Message: "normal_accuracy_threshold_m must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
