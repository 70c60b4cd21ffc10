package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nimbushr/attendance-gate/internal/domain/attendance"
	"github.com/nimbushr/attendance-gate/internal/domain/audit"
	"github.com/nimbushr/attendance-gate/internal/domain/device"
	"github.com/nimbushr/attendance-gate/internal/domain/geofence"
	"github.com/nimbushr/attendance-gate/internal/domain/leave"
	"github.com/nimbushr/attendance-gate/internal/domain/settings"
	"github.com/nimbushr/attendance-gate/internal/pkg/geo"
)

const (
	// A scanned QR code substitutes for the geofence check only while fresh.
	qrFreshnessWindow = 5 * time.Minute

	// Location anomaly check: a check-in further than this from the average
	// of the recent samples is flagged for review.
	anomalyThresholdMeters = 100_000
	anomalyLookback        = 7 * 24 * time.Hour
	anomalySampleSize      = 5
)

type AttendanceServiceImpl struct {
	attendance.RecordRepository
	geofence.LocationRepository
	geofence.DeviceRadiusRepository
	device.SessionRepository
	leave.StatusRepository
	settings.Repository
	recorder audit.Recorder
	policy   TimePolicy

	// now is swapped out in tests
	now func() time.Time
}

func NewAttendanceService(
	recordRepo attendance.RecordRepository,
	locationRepo geofence.LocationRepository,
	deviceRadiusRepo geofence.DeviceRadiusRepository,
	sessionRepo device.SessionRepository,
	leaveRepo leave.StatusRepository,
	settingsRepo settings.Repository,
	recorder audit.Recorder,
	policy TimePolicy,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		RecordRepository:       recordRepo,
		LocationRepository:     locationRepo,
		DeviceRadiusRepository: deviceRadiusRepo,
		SessionRepository:      sessionRepo,
		StatusRepository:       leaveRepo,
		Repository:             settingsRepo,
		recorder:               recorder,
		policy:                 policy,
		now:                    time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	userID, role, department, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	now := a.now()
	today := now.Format("2006-01-02")

	if err := a.ensureNotOnLeave(ctx, userID, today); err != nil {
		return attendance.CheckInResponse{}, err
	}

	// Daily record guard
	existing, err := a.RecordRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to check today's record: %w", err)
	}
	if existing != nil {
		a.recorder.Record(ctx, audit.Entry{
			Action:    audit.ActionDoubleCheckInAttempt,
			ActorID:   &userID,
			RecordID:  &existing.ID,
			IPAddress: strPtr(req.IPAddress),
		})
		if existing.CheckOutTime != nil {
			return attendance.CheckInResponse{}, attendance.ErrDayCompleted
		}
		return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
	}

	a.closeForgottenSession(ctx, userID, today)

	verdict, err := a.policy.EvaluateCheckIn(now, role, department, req.LatenessReason)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	method := attendance.MethodGPS
	if qrIsFresh(req.QRCodeUsed, req.QRTimestamp, now) {
		method = attendance.MethodQR
	} else {
		if err := a.validateCheckInLocation(ctx, userID, req, now); err != nil {
			return attendance.CheckInResponse{}, err
		}
	}

	warning := a.evaluateDeviceTrust(ctx, userID, req.DeviceInfo, req.IPAddress, req.UserAgent, now)
	a.flagLocationAnomaly(ctx, userID, req.Latitude, req.Longitude, req.IPAddress, now)

	status := attendance.StatusPresent
	var latenessReason *string
	if verdict.Late {
		status = attendance.StatusLate
		latenessReason = req.LatenessReason
	}

	rec := attendance.Record{
		UserID:           userID,
		Date:             now,
		CheckInTime:      now,
		CheckInLatitude:  &req.Latitude,
		CheckInLongitude: &req.Longitude,
		CheckInMethod:    method,
		Status:           status,
		LatenessReason:   latenessReason,
	}

	created, err := a.RecordRepository.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			// Lost the race against a concurrent check-in
			a.recorder.Record(ctx, audit.Entry{
				Action:    audit.ActionDoubleCheckInAttempt,
				ActorID:   &userID,
				IPAddress: strPtr(req.IPAddress),
			})
		}
		return attendance.CheckInResponse{}, err
	}

	a.recorder.Record(ctx, audit.Entry{
		Action:   audit.ActionCheckIn,
		ActorID:  &userID,
		RecordID: &created.ID,
		NewValues: map[string]interface{}{
			"date":            today,
			"check_in_time":   created.CheckInTime,
			"check_in_method": created.CheckInMethod,
			"status":          created.Status,
		},
		IPAddress: strPtr(req.IPAddress),
		UserAgent: strPtr(req.UserAgent),
	})

	return attendance.CheckInResponse{
		Record:               toRecordResponse(created),
		DeviceSharingWarning: warning,
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	userID, role, department, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	now := a.now()
	today := now.Format("2006-01-02")

	if err := a.ensureNotOnLeave(ctx, userID, today); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	rec, err := a.RecordRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to get today's record: %w", err)
	}
	if rec == nil {
		return attendance.CheckOutResponse{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckOutTime != nil {
		a.recorder.Record(ctx, audit.Entry{
			Action:    audit.ActionDoubleCheckOutAttempt,
			ActorID:   &userID,
			RecordID:  &rec.ID,
			IPAddress: strPtr(req.IPAddress),
		})
		return attendance.CheckOutResponse{}, attendance.ErrDayCompleted
	}

	outOfRange := false
	var locEndTime *string
	if rec.OffPremisesApproved || qrIsFresh(req.QRCodeUsed, req.QRTimestamp, now) {
		// Approved off-premises duty and fresh QR scans skip the geofence
	} else {
		match, err := a.resolveCheckOutLocation(ctx, userID, req, now)
		if err != nil {
			if errors.Is(err, attendance.ErrOutsideGeofence) || errors.Is(err, attendance.ErrGeofenceMismatch) || errors.Is(err, attendance.ErrNoActiveLocations) {
				// Checking out from afar is allowed; it only lifts the
				// closing deadline so a stranded commuter can still close
				// the day.
				outOfRange = true
			} else {
				return attendance.CheckOutResponse{}, err
			}
		} else {
			locEndTime = match.Location.EndTime
		}
	}

	deadlineExempt := rec.OffPremisesApproved || outOfRange
	verdict, err := a.policy.EvaluateCheckOut(now, role, department, deadlineExempt, locEndTime, req.EarlyCheckoutReason)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	warning := a.evaluateDeviceTrust(ctx, userID, req.DeviceInfo, req.IPAddress, req.UserAgent, now)

	workHours := roundHours(now.Sub(rec.CheckInTime))

	rec.CheckOutTime = &now
	rec.CheckOutLatitude = &req.Latitude
	rec.CheckOutLongitude = &req.Longitude
	rec.WorkHours = &workHours
	if verdict.Early {
		rec.EarlyCheckoutReason = req.EarlyCheckoutReason
	}

	if err := a.RecordRepository.Close(ctx, *rec); err != nil {
		if errors.Is(err, attendance.ErrDayCompleted) {
			a.recorder.Record(ctx, audit.Entry{
				Action:    audit.ActionDoubleCheckOutAttempt,
				ActorID:   &userID,
				RecordID:  &rec.ID,
				IPAddress: strPtr(req.IPAddress),
			})
		}
		return attendance.CheckOutResponse{}, err
	}

	a.recorder.Record(ctx, audit.Entry{
		Action:   audit.ActionCheckOut,
		ActorID:  &userID,
		RecordID: &rec.ID,
		NewValues: map[string]interface{}{
			"check_out_time": now,
			"work_hours":     workHours,
			"out_of_range":   outOfRange,
		},
		IPAddress: strPtr(req.IPAddress),
		UserAgent: strPtr(req.UserAgent),
	})

	resp := attendance.CheckOutResponse{
		Record:               toRecordResponse(*rec),
		Message:              "Checked out successfully",
		DeviceSharingWarning: warning,
	}
	if verdict.Early {
		w := "You checked out before the end of your working day"
		resp.EarlyCheckoutWarning = &w
	}

	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	userID, _, _, err := claimsFromContext(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := a.RecordRepository.GetMyRecords(ctx, userID, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	return buildListResponse(records, total, filter), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := a.RecordRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	return buildListResponse(records, total, filter), nil
}

func (a *AttendanceServiceImpl) ensureNotOnLeave(ctx context.Context, userID, date string) error {
	st, err := a.StatusRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return fmt.Errorf("failed to get leave status: %w", err)
	}
	if st != nil && st.Status == leave.StatusOnLeave {
		return attendance.ErrOnLeave
	}
	return nil
}

// closeForgottenSession closes an earlier day's open session at 23:59:59 of
// its own date. Best-effort: a failure here must not block today's check-in.
func (a *AttendanceServiceImpl) closeForgottenSession(ctx context.Context, userID, today string) {
	open, err := a.RecordRepository.GetOpenSessionBefore(ctx, userID, today)
	if err != nil {
		slog.WarnContext(ctx, "failed to look up open session",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return
	}
	if open == nil {
		return
	}

	endOfDay := time.Date(
		open.Date.Year(), open.Date.Month(), open.Date.Day(),
		23, 59, 59, 0, open.Date.Location(),
	)
	workHours := roundHours(endOfDay.Sub(open.CheckInTime))

	open.CheckOutTime = &endOfDay
	open.WorkHours = &workHours

	if err := a.RecordRepository.Close(ctx, *open); err != nil {
		if !errors.Is(err, attendance.ErrDayCompleted) {
			slog.WarnContext(ctx, "failed to auto-close open session",
				slog.String("user_id", userID),
				slog.String("record_id", open.ID),
				slog.Any("error", err),
			)
		}
		return
	}

	a.recorder.Record(ctx, audit.Entry{
		Action:   audit.ActionAutoCheckoutMissed,
		ActorID:  &userID,
		RecordID: &open.ID,
		NewValues: map[string]interface{}{
			"check_out_time": endOfDay,
			"work_hours":     workHours,
		},
	})
}

func (a *AttendanceServiceImpl) validateCheckInLocation(ctx context.Context, userID string, req attendance.CheckInRequest, now time.Time) error {
	gs, err := a.Repository.GetGeoSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to get geo settings: %w", err)
	}

	degraded, err := validateFix(now, req.LocationTimestamp, req.Accuracy, gs)
	if err != nil {
		a.auditFixRejection(ctx, userID, req.IPAddress, err)
		return err
	}
	if degraded {
		a.auditDegradedFix(ctx, userID, req.IPAddress, req.Accuracy)
	}

	active, err := a.LocationRepository.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active locations: %w", err)
	}

	base := a.deviceBaseRadius(ctx, req.DeviceInfo, false)

	if _, err := resolveGeofence(req.Latitude, req.Longitude, req.LocationID, active, base); err != nil {
		if errors.Is(err, attendance.ErrGeofenceMismatch) {
			a.recorder.Record(ctx, audit.Entry{
				Action:  audit.ActionGeofenceMismatch,
				ActorID: &userID,
				NewValues: map[string]interface{}{
					"declared_location_id": req.LocationID,
					"latitude":             req.Latitude,
					"longitude":            req.Longitude,
				},
				IPAddress: strPtr(req.IPAddress),
			})
		}
		return err
	}

	return nil
}

func (a *AttendanceServiceImpl) resolveCheckOutLocation(ctx context.Context, userID string, req attendance.CheckOutRequest, now time.Time) (geofenceMatch, error) {
	gs, err := a.Repository.GetGeoSettings(ctx)
	if err != nil {
		return geofenceMatch{}, fmt.Errorf("failed to get geo settings: %w", err)
	}

	degraded, err := validateFix(now, req.LocationTimestamp, req.Accuracy, gs)
	if err != nil {
		a.auditFixRejection(ctx, userID, req.IPAddress, err)
		return geofenceMatch{}, err
	}
	if degraded {
		a.auditDegradedFix(ctx, userID, req.IPAddress, req.Accuracy)
	}

	active, err := a.LocationRepository.ListActive(ctx)
	if err != nil {
		return geofenceMatch{}, fmt.Errorf("failed to list active locations: %w", err)
	}

	base := a.deviceBaseRadius(ctx, req.DeviceInfo, true)

	return resolveGeofence(req.Latitude, req.Longitude, req.LocationID, active, base)
}

func (a *AttendanceServiceImpl) auditFixRejection(ctx context.Context, userID, ip string, cause error) {
	var action audit.Action
	switch {
	case errors.Is(cause, attendance.ErrMissingLocationTimestamp):
		action = audit.ActionGPSMissingTimestamp
	case errors.Is(cause, attendance.ErrStaleLocation):
		action = audit.ActionStaleLocation
	case errors.Is(cause, attendance.ErrLowAccuracy):
		action = audit.ActionLowAccuracy
	default:
		return
	}
	a.recorder.Record(ctx, audit.Entry{
		Action:    action,
		ActorID:   &userID,
		IPAddress: strPtr(ip),
	})
}

// auditDegradedFix records a fix that passed the gate but exceeded the
// normal accuracy threshold.
func (a *AttendanceServiceImpl) auditDegradedFix(ctx context.Context, userID, ip string, accuracy float64) {
	a.recorder.Record(ctx, audit.Entry{
		Action:  audit.ActionLowAccuracy,
		ActorID: &userID,
		NewValues: map[string]interface{}{
			"accuracy": accuracy,
		},
		IPAddress: strPtr(ip),
	})
}

// deviceBaseRadius resolves the per-device base radius, falling back to the
// hard defaults when no override row exists.
func (a *AttendanceServiceImpl) deviceBaseRadius(ctx context.Context, info *attendance.DeviceInfo, checkout bool) float64 {
	fallback := float64(geofence.DefaultCheckInRadiusMeters)
	if checkout {
		fallback = float64(geofence.DefaultCheckOutRadiusMeters)
	}

	if info == nil || info.DeviceType == "" {
		return fallback
	}

	dr, err := a.DeviceRadiusRepository.GetByDeviceType(ctx, info.DeviceType)
	if err != nil {
		slog.WarnContext(ctx, "failed to get device radius settings",
			slog.String("device_type", info.DeviceType),
			slog.Any("error", err),
		)
		return fallback
	}
	if dr == nil {
		return fallback
	}

	if checkout {
		return dr.CheckOutRadiusMeters
	}
	return dr.CheckInRadiusMeters
}

// flagLocationAnomaly compares the fix against the average of the user's
// recent check-in positions and flags an implausible jump. Advisory only.
func (a *AttendanceServiceImpl) flagLocationAnomaly(ctx context.Context, userID string, lat, lng float64, ip string, now time.Time) {
	positions, err := a.RecordRepository.RecentCheckInPositions(ctx, userID, now.Add(-anomalyLookback), anomalySampleSize)
	if err != nil {
		slog.WarnContext(ctx, "failed to get recent check-in positions",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return
	}
	if len(positions) == 0 {
		return
	}

	var sumLat, sumLng float64
	for _, p := range positions {
		sumLat += p.Latitude
		sumLng += p.Longitude
	}
	avgLat := sumLat / float64(len(positions))
	avgLng := sumLng / float64(len(positions))

	distance := geo.HaversineDistance(lat, lng, avgLat, avgLng)
	if distance <= anomalyThresholdMeters {
		return
	}

	a.recorder.Record(ctx, audit.Entry{
		Action:  audit.ActionSuspiciousLocationChange,
		ActorID: &userID,
		NewValues: map[string]interface{}{
			"latitude":        lat,
			"longitude":       lng,
			"distance_meters": math.Round(distance),
			"sample_size":     len(positions),
		},
		IPAddress: strPtr(ip),
	})
}

func qrIsFresh(used bool, scannedAtMS *int64, now time.Time) bool {
	if !used || scannedAtMS == nil {
		return false
	}
	age := now.UnixMilli() - *scannedAtMS
	return age >= 0 && age <= qrFreshnessWindow.Milliseconds()
}

func claimsFromContext(ctx context.Context) (userID, role, department string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	role, _ = claims["role"].(string)
	department, _ = claims["department"].(string)

	return userID, role, department, nil
}

func roundHours(d time.Duration) float64 {
	hours := d.Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Round(hours*100) / 100
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:                  rec.ID,
		UserID:              rec.UserID,
		Date:                rec.Date.Format("2006-01-02"),
		CheckInTime:         rec.CheckInTime.Format(time.RFC3339),
		CheckInLatitude:     rec.CheckInLatitude,
		CheckInLongitude:    rec.CheckInLongitude,
		CheckOutLatitude:    rec.CheckOutLatitude,
		CheckOutLongitude:   rec.CheckOutLongitude,
		CheckInMethod:       rec.CheckInMethod,
		WorkHours:           rec.WorkHours,
		Status:              rec.Status,
		IsRemote:            rec.IsRemote,
		OffPremisesApproved: rec.OffPremisesApproved,
		LatenessReason:      rec.LatenessReason,
		EarlyCheckoutReason: rec.EarlyCheckoutReason,
	}
	if rec.CheckOutTime != nil {
		out := rec.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &out
	}
	if rec.UserName != nil {
		resp.UserName = *rec.UserName
	}
	return resp
}

func buildListResponse(records []attendance.Record, total int64, filter attendance.RecordFilter) attendance.ListRecordsResponse {
	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toRecordResponse(rec))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}

	return attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Records:    responses,
	}
}
