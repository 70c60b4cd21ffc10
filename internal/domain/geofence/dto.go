package geofence

import "github.com/nimbushr/attendance-gate/internal/pkg/validator"

type UpsertLocationRequest struct {
	ID           string  `json:"-"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	EndTime      *string `json:"end_time,omitempty"` // "HH:MM"
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *UpsertLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	if r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LocationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	EndTime      *string `json:"end_time,omitempty"`
	IsActive     bool    `json:"is_active"`
}

type UpsertDeviceRadiusRequest struct {
	DeviceType           string  `json:"device_type"`
	CheckInRadiusMeters  float64 `json:"check_in_radius_meters"`
	CheckOutRadiusMeters float64 `json:"check_out_radius_meters"`
}

func (r *UpsertDeviceRadiusRequest) Validate() error {
	var errs validator.ValidationErrors

	validTypes := []string{DeviceDesktop, DeviceMobile, DeviceTablet}
	if !validator.IsInSlice(r.DeviceType, validTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "device_type",
			Message: "device_type must be one of: desktop, mobile, tablet",
		})
	}
	if r.CheckInRadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_radius_meters",
			Message: "check_in_radius_meters must be greater than zero",
		})
	}
	if r.CheckOutRadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_radius_meters",
			Message: "check_out_radius_meters must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
