package attendance

import "errors"

// Attendance domain errors
var (
	// Daily record guard
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")
	ErrDayCompleted     = errors.New("attendance for today is already completed")
	ErrNotCheckedIn     = errors.New("you have not checked in today")

	// Time policy
	ErrCheckInClosed               = errors.New("check-in is closed for today")
	ErrCheckOutClosed              = errors.New("check-out is closed for today")
	ErrLatenessReasonRequired      = errors.New("a reason is required for late check-in")
	ErrEarlyCheckoutReasonRequired = errors.New("a reason is required for early check-out")

	// Geofence
	ErrMissingLocationTimestamp = errors.New("location fix has no timestamp")
	ErrStaleLocation            = errors.New("location fix is too old")
	ErrLowAccuracy              = errors.New("location accuracy is too low")
	ErrGeofenceMismatch         = errors.New("you are not within range of the selected location")
	ErrOutsideGeofence          = errors.New("you are too far from any registered location")
	ErrNoActiveLocations        = errors.New("no active locations are registered")

	// Leave
	ErrOnLeave = errors.New("you are on approved leave today")

	// General
	ErrRecordNotFound = errors.New("attendance record not found")
)
