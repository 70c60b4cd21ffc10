package geofence

import "time"

// Hard defaults applied when no DeviceRadius row exists for a device type,
// and the slack added on top of any resolved radius.
const (
	DefaultCheckInRadiusMeters  = 400
	DefaultCheckOutRadiusMeters = 1000
	RadiusToleranceMeters       = 500
)

// Device types recognized by the radius settings
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// Location is a registered site with a circular geofence around it.
type Location struct {
	ID           string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	EndTime      *string // "HH:MM" local; nil falls back to the policy default
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DeviceRadius overrides the acceptable check-in/check-out radius for a
// device type.
type DeviceRadius struct {
	DeviceType           string
	CheckInRadiusMeters  float64
	CheckOutRadiusMeters float64
	UpdatedAt            time.Time
}
