package audit

import "time"

type Action string

const (
	ActionCheckIn                  Action = "check_in"
	ActionCheckOut                 Action = "check_out"
	ActionAutoCheckoutMissed       Action = "auto_checkout_missed"
	ActionGPSMissingTimestamp      Action = "gps_missing_timestamp"
	ActionStaleLocation            Action = "stale_location"
	ActionLowAccuracy              Action = "low_accuracy"
	ActionGeofenceMismatch         Action = "geofence_mismatch"
	ActionDoubleCheckInAttempt     Action = "double_checkin_attempt"
	ActionDoubleCheckOutAttempt    Action = "double_checkout_attempt"
	ActionDeviceSharing            Action = "device_sharing"
	ActionIPSharing                Action = "ip_sharing"
	ActionSuspiciousLocationChange Action = "suspicious_location_change"
	ActionCreateStaff              Action = "create_staff"
	ActionUpdateLocation           Action = "update_location"
	ActionUpdateDeviceRadius       Action = "update_device_radius"
	ActionUpdateLeaveStatus        Action = "update_leave_status"
	ActionUpdateGeoSettings        Action = "update_geo_settings"
)

// Entry is an append-only audit row. The application never mutates or
// deletes entries.
type Entry struct {
	ID        string
	Action    Action
	ActorID   *string
	RecordID  *string
	OldValues map[string]interface{}
	NewValues map[string]interface{}
	IPAddress *string
	UserAgent *string
	CreatedAt time.Time
}
