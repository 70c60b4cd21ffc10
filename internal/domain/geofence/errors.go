package geofence

import "errors"

// Geofence domain errors
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrLocationInactive = errors.New("location is not active")
)
