package attendance

import "time"

// Check-in methods
const (
	MethodGPS    = "gps"
	MethodQR     = "qr"
	MethodRemote = "remote"
)

// Record statuses
const (
	StatusPresent = "present"
	StatusLate    = "late"
)

// Record is one attendance row per staff member per calendar day. The
// (user_id, date) pair is unique at the storage layer; checkout fields are
// written at most once.
type Record struct {
	ID     string
	UserID string
	Date   time.Time

	CheckInTime      time.Time
	CheckInLatitude  *float64
	CheckInLongitude *float64
	CheckInMethod    string

	CheckOutTime      *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64

	WorkHours *float64
	Status    string

	IsRemote            bool
	OffPremisesApproved bool

	LatenessReason      *string
	EarlyCheckoutReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	UserName *string
}

// Position is a stored check-in coordinate, used by the location anomaly check.
type Position struct {
	Latitude  float64
	Longitude float64
}
