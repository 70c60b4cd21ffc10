package attendance

import "context"

// AttendanceService is the attendance gate: check-in/check-out with the
// daily record guard, time policy, geofence validation, device trust
// heuristic and audit logging composed in that order.
type AttendanceService interface {
	// CheckIn processes a check-in with full validation
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// CheckOut processes a check-out
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// GetMyAttendance retrieves records for the authenticated staff member
	GetMyAttendance(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// ListAttendance retrieves records with filters (admin/manager)
	ListAttendance(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)
}
