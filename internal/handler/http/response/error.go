package response

import (
	"errors"
	"net/http"

	"github.com/nimbushr/attendance-gate/internal/domain/attendance"
	"github.com/nimbushr/attendance-gate/internal/domain/auth"
	"github.com/nimbushr/attendance-gate/internal/domain/geofence"
	"github.com/nimbushr/attendance-gate/internal/domain/leave"
	"github.com/nimbushr/attendance-gate/internal/domain/staff"
	"github.com/nimbushr/attendance-gate/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, staff.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, staff.ErrAdminRoleRequired),
		errors.Is(err, staff.ErrManagerRoleRequired),
		errors.Is(err, staff.ErrCannotCreateAdmin),
		errors.Is(err, staff.ErrStaffAccountInactive):
		Forbidden(w, err.Error())

	// Daily record guard
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrDayCompleted):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, err.Error(), nil)

	// Time policy
	case errors.Is(err, attendance.ErrCheckInClosed),
		errors.Is(err, attendance.ErrCheckOutClosed):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrLatenessReasonRequired):
		BadRequestWithFlags(w, err.Error(), map[string]bool{"requiresLatenessReason": true})
	case errors.Is(err, attendance.ErrEarlyCheckoutReasonRequired):
		BadRequestWithFlags(w, err.Error(), map[string]bool{"requiresEarlyCheckoutReason": true})

	// Geofence
	case errors.Is(err, attendance.ErrMissingLocationTimestamp),
		errors.Is(err, attendance.ErrStaleLocation),
		errors.Is(err, attendance.ErrLowAccuracy),
		errors.Is(err, attendance.ErrGeofenceMismatch),
		errors.Is(err, attendance.ErrOutsideGeofence),
		errors.Is(err, attendance.ErrNoActiveLocations):
		BadRequest(w, err.Error(), nil)

	// Leave
	case errors.Is(err, attendance.ErrOnLeave):
		ForbiddenWithFlags(w, err.Error(), map[string]bool{"onLeave": true})
	case errors.Is(err, leave.ErrStatusNotFound):
		NotFound(w, "Leave status not found")

	// Master data
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, geofence.ErrLocationNotFound):
		NotFound(w, "Location not found")
	case errors.Is(err, geofence.ErrLocationInactive):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
