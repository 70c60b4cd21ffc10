package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nimbushr/attendance-gate/internal/domain/attendance"
	"github.com/nimbushr/attendance-gate/internal/domain/audit"
	"github.com/nimbushr/attendance-gate/internal/domain/device"
	"github.com/nimbushr/attendance-gate/internal/domain/geofence"
	"github.com/nimbushr/attendance-gate/internal/domain/leave"
	"github.com/nimbushr/attendance-gate/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeRecordRepo struct {
	today     *attendance.Record
	open      *attendance.Record
	createErr error
	closeErr  error
	created   *attendance.Record
	closed    *attendance.Record
	positions []attendance.Position
}

func (f *fakeRecordRepo) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if f.createErr != nil {
		return attendance.Record{}, f.createErr
	}
	rec.ID = "rec-1"
	f.created = &rec
	return rec, nil
}

func (f *fakeRecordRepo) GetByUserAndDate(ctx context.Context, userID, date string) (*attendance.Record, error) {
	return f.today, nil
}

func (f *fakeRecordRepo) GetOpenSessionBefore(ctx context.Context, userID, date string) (*attendance.Record, error) {
	return f.open, nil
}

func (f *fakeRecordRepo) Close(ctx context.Context, rec attendance.Record) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closed = &rec
	return nil
}

func (f *fakeRecordRepo) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (f *fakeRecordRepo) GetMyRecords(ctx context.Context, userID string, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (f *fakeRecordRepo) RecentCheckInPositions(ctx context.Context, userID string, since time.Time, limit int) ([]attendance.Position, error) {
	return f.positions, nil
}

type fakeLocationRepo struct {
	active []geofence.Location
}

func (f *fakeLocationRepo) ListActive(ctx context.Context) ([]geofence.Location, error) {
	return f.active, nil
}

func (f *fakeLocationRepo) List(ctx context.Context) ([]geofence.Location, error) {
	return f.active, nil
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id string) (geofence.Location, error) {
	return geofence.Location{}, geofence.ErrLocationNotFound
}

func (f *fakeLocationRepo) Create(ctx context.Context, loc geofence.Location) (geofence.Location, error) {
	return loc, nil
}

func (f *fakeLocationRepo) Update(ctx context.Context, loc geofence.Location) error { return nil }
func (f *fakeLocationRepo) Delete(ctx context.Context, id string) error             { return nil }

type fakeRadiusRepo struct {
	override *geofence.DeviceRadius
}

func (f *fakeRadiusRepo) GetByDeviceType(ctx context.Context, deviceType string) (*geofence.DeviceRadius, error) {
	return f.override, nil
}

func (f *fakeRadiusRepo) List(ctx context.Context) ([]geofence.DeviceRadius, error) {
	return nil, nil
}

func (f *fakeRadiusRepo) Upsert(ctx context.Context, dr geofence.DeviceRadius) error { return nil }

type fakeSessionRepo struct {
	byFingerprint *device.Session
	byIP          *device.Session
	upserted      []device.Session
}

func (f *fakeSessionRepo) Upsert(ctx context.Context, s device.Session) error {
	f.upserted = append(f.upserted, s)
	return nil
}

func (f *fakeSessionRepo) FindRecentByFingerprint(ctx context.Context, fingerprint, excludeUserID string, since time.Time) (*device.Session, error) {
	return f.byFingerprint, nil
}

func (f *fakeSessionRepo) FindRecentByIP(ctx context.Context, ip, fingerprint, excludeUserID string, since time.Time) (*device.Session, error) {
	return f.byIP, nil
}

type fakeLeaveRepo struct {
	status *leave.DayStatus
}

func (f *fakeLeaveRepo) GetByUserAndDate(ctx context.Context, userID, date string) (*leave.DayStatus, error) {
	return f.status, nil
}

func (f *fakeLeaveRepo) Set(ctx context.Context, st leave.DayStatus) (leave.DayStatus, error) {
	return st, nil
}

func (f *fakeLeaveRepo) ListByDate(ctx context.Context, date string) ([]leave.DayStatus, error) {
	return nil, nil
}

type fakeSettingsRepo struct {
	gs settings.GeoSettings
}

func (f *fakeSettingsRepo) GetGeoSettings(ctx context.Context) (settings.GeoSettings, error) {
	return f.gs, nil
}

func (f *fakeSettingsRepo) UpdateGeoSettings(ctx context.Context, gs settings.GeoSettings) error {
	f.gs = gs
	return nil
}

type fakeRecorder struct {
	entries []audit.Entry
}

func (f *fakeRecorder) Record(ctx context.Context, e audit.Entry) {
	f.entries = append(f.entries, e)
}

func (f *fakeRecorder) has(action audit.Action) bool {
	for _, e := range f.entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

// ---- fixture ----

type gateFixture struct {
	svc      *AttendanceServiceImpl
	records  *fakeRecordRepo
	sessions *fakeSessionRepo
	leaves   *fakeLeaveRepo
	recorder *fakeRecorder
}

func newGateFixture(t *testing.T, now time.Time) *gateFixture {
	t.Helper()

	f := &gateFixture{
		records:  &fakeRecordRepo{},
		sessions: &fakeSessionRepo{},
		leaves:   &fakeLeaveRepo{},
		recorder: &fakeRecorder{},
	}

	f.svc = &AttendanceServiceImpl{
		RecordRepository: f.records,
		LocationRepository: &fakeLocationRepo{active: []geofence.Location{{
			ID:           "loc-hq",
			Name:         "Headquarters",
			Latitude:     -6.2,
			Longitude:    106.8,
			RadiusMeters: 400,
			IsActive:     true,
		}}},
		DeviceRadiusRepository: &fakeRadiusRepo{},
		SessionRepository:      f.sessions,
		StatusRepository:       f.leaves,
		Repository:             &fakeSettingsRepo{gs: settings.DefaultGeoSettings()},
		recorder:               f.recorder,
		policy:                 testPolicy(t),
		now:                    func() time.Time { return now },
	}

	return f
}

func authedContext(t *testing.T, userID, role, department string) context.Context {
	t.Helper()

	tok := jwxjwt.New()
	require.NoError(t, tok.Set("user_id", userID))
	require.NoError(t, tok.Set("role", role))
	require.NoError(t, tok.Set("department", department))
	require.NoError(t, tok.Set("type", "access"))

	return jwtauth.NewContext(context.Background(), tok, nil)
}

func validCheckInReq(now time.Time) attendance.CheckInRequest {
	ts := now.Add(-time.Second).UnixMilli()
	return attendance.CheckInRequest{
		Latitude:          -6.2,
		Longitude:         106.8,
		Accuracy:          50,
		LocationTimestamp: &ts,
		IPAddress:         "10.0.0.4",
		UserAgent:         "test-agent",
	}
}

func validCheckOutReq(now time.Time) attendance.CheckOutRequest {
	ts := now.Add(-time.Second).UnixMilli()
	return attendance.CheckOutRequest{
		Latitude:          -6.2,
		Longitude:         106.8,
		Accuracy:          50,
		LocationTimestamp: &ts,
		IPAddress:         "10.0.0.4",
	}
}

// ---- check-in ----

func TestCheckInSuccess(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	resp, err := f.svc.CheckIn(ctx, validCheckInReq(now))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, resp.Record.Status)
	assert.Equal(t, attendance.MethodGPS, resp.Record.CheckInMethod)
	assert.Nil(t, resp.DeviceSharingWarning)

	require.NotNil(t, f.records.created)
	assert.Equal(t, "user-1", f.records.created.UserID)
	assert.True(t, f.recorder.has(audit.ActionCheckIn))
}

func TestCheckInGuardsExistingRecord(t *testing.T) {
	now := monday(8, 30)
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	t.Run("open record", func(t *testing.T) {
		f := newGateFixture(t, now)
		f.records.today = &attendance.Record{ID: "rec-0", UserID: "user-1", CheckInTime: monday(8, 0)}

		_, err := f.svc.CheckIn(ctx, validCheckInReq(now))
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
		assert.True(t, f.recorder.has(audit.ActionDoubleCheckInAttempt))
	})

	t.Run("completed record", func(t *testing.T) {
		f := newGateFixture(t, now)
		out := monday(17, 0)
		f.records.today = &attendance.Record{ID: "rec-0", UserID: "user-1", CheckOutTime: &out}

		_, err := f.svc.CheckIn(ctx, validCheckInReq(now))
		assert.ErrorIs(t, err, attendance.ErrDayCompleted)
	})
}

func TestCheckInBlockedOnLeave(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	f.leaves.status = &leave.DayStatus{UserID: "user-1", Status: leave.StatusOnLeave}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	_, err := f.svc.CheckIn(ctx, validCheckInReq(now))
	assert.ErrorIs(t, err, attendance.ErrOnLeave)
	assert.Nil(t, f.records.created)
}

func TestCheckInLateRequiresReason(t *testing.T) {
	now := monday(9, 15)
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	t.Run("without reason", func(t *testing.T) {
		f := newGateFixture(t, now)
		_, err := f.svc.CheckIn(ctx, validCheckInReq(now))
		assert.ErrorIs(t, err, attendance.ErrLatenessReasonRequired)
	})

	t.Run("with reason", func(t *testing.T) {
		f := newGateFixture(t, now)
		req := validCheckInReq(now)
		reason := "train delay"
		req.LatenessReason = &reason

		resp, err := f.svc.CheckIn(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusLate, resp.Record.Status)
		require.NotNil(t, f.records.created.LatenessReason)
		assert.Equal(t, reason, *f.records.created.LatenessReason)
	})
}

func TestCheckInAutoClosesForgottenSession(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	friday := time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)
	f.records.open = &attendance.Record{
		ID:          "rec-old",
		UserID:      "user-1",
		Date:        friday,
		CheckInTime: friday,
	}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	_, err := f.svc.CheckIn(ctx, validCheckInReq(now))
	require.NoError(t, err)

	require.NotNil(t, f.records.closed)
	require.NotNil(t, f.records.closed.CheckOutTime)
	assert.Equal(t, time.Date(2025, 3, 7, 23, 59, 59, 0, time.UTC), *f.records.closed.CheckOutTime)
	require.NotNil(t, f.records.closed.WorkHours)
	assert.Equal(t, 16.0, *f.records.closed.WorkHours)
	assert.True(t, f.recorder.has(audit.ActionAutoCheckoutMissed))
}

func TestCheckInLostRace(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	f.records.createErr = attendance.ErrAlreadyCheckedIn
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	_, err := f.svc.CheckIn(ctx, validCheckInReq(now))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.True(t, f.recorder.has(audit.ActionDoubleCheckInAttempt))
}

func TestCheckInDeviceSharingWarns(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	f.sessions.byFingerprint = &device.Session{
		UserID:      "user-2",
		Fingerprint: "fp-abc",
		LastSeenAt:  now.Add(-30 * time.Minute),
	}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	req := validCheckInReq(now)
	req.DeviceInfo = &attendance.DeviceInfo{Fingerprint: "fp-abc", DeviceType: geofence.DeviceMobile}

	resp, err := f.svc.CheckIn(ctx, req)
	require.NoError(t, err)
	assert.NotNil(t, resp.DeviceSharingWarning)
	assert.True(t, f.recorder.has(audit.ActionDeviceSharing))
	assert.Len(t, f.sessions.upserted, 1)
}

func TestCheckInFreshQRSkipsGeofence(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	// Strip all locations so a GPS check-in would fail
	f.svc.LocationRepository = &fakeLocationRepo{}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	req := validCheckInReq(now)
	req.QRCodeUsed = true
	qrTS := now.Add(-time.Minute).UnixMilli()
	req.QRTimestamp = &qrTS

	resp, err := f.svc.CheckIn(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, attendance.MethodQR, resp.Record.CheckInMethod)
}

func TestCheckInStaleQRFallsBackToGPS(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	f.svc.LocationRepository = &fakeLocationRepo{}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	req := validCheckInReq(now)
	req.QRCodeUsed = true
	qrTS := now.Add(-10 * time.Minute).UnixMilli()
	req.QRTimestamp = &qrTS

	_, err := f.svc.CheckIn(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrNoActiveLocations)
}

func TestCheckInRejectsLowAccuracyWhenHighAccuracyRequired(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	gs := settings.DefaultGeoSettings()
	gs.RequireHighAccuracy = true
	f.svc.Repository = &fakeSettingsRepo{gs: gs}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	req := validCheckInReq(now)
	req.Accuracy = 600

	_, err := f.svc.CheckIn(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrLowAccuracy)
	assert.True(t, f.recorder.has(audit.ActionLowAccuracy))
}

func TestCheckInAcceptsImpreciseFixWithoutHighAccuracy(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	req := validCheckInReq(now)
	req.Accuracy = 600

	_, err := f.svc.CheckIn(ctx, req)
	require.NoError(t, err)
	assert.True(t, f.recorder.has(audit.ActionLowAccuracy))
}

func TestCheckInRejectsFutureDatedFix(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	ts := now.Add(2 * time.Minute).UnixMilli()
	req := validCheckInReq(now)
	req.LocationTimestamp = &ts

	_, err := f.svc.CheckIn(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrStaleLocation)
	assert.True(t, f.recorder.has(audit.ActionStaleLocation))
}

func TestCheckInFlagsLocationAnomaly(t *testing.T) {
	now := monday(8, 30)
	f := newGateFixture(t, now)
	// Recent check-ins averaged around Surabaya, ~660km from the request
	f.records.positions = []attendance.Position{
		{Latitude: -7.25, Longitude: 112.75},
		{Latitude: -7.26, Longitude: 112.74},
	}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	resp, err := f.svc.CheckIn(ctx, validCheckInReq(now))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Record.Status)
	assert.True(t, f.recorder.has(audit.ActionSuspiciousLocationChange))
}

// ---- check-out ----

func TestCheckOutSuccess(t *testing.T) {
	now := monday(17, 15)
	f := newGateFixture(t, now)
	f.records.today = &attendance.Record{
		ID:          "rec-1",
		UserID:      "user-1",
		Date:        monday(0, 0),
		CheckInTime: monday(8, 30),
		Status:      attendance.StatusPresent,
	}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	resp, err := f.svc.CheckOut(ctx, validCheckOutReq(now))
	require.NoError(t, err)

	require.NotNil(t, f.records.closed)
	require.NotNil(t, f.records.closed.WorkHours)
	assert.Equal(t, 8.75, *f.records.closed.WorkHours)
	assert.Nil(t, resp.EarlyCheckoutWarning)
	assert.True(t, f.recorder.has(audit.ActionCheckOut))
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	now := monday(17, 15)
	f := newGateFixture(t, now)
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	_, err := f.svc.CheckOut(ctx, validCheckOutReq(now))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOutTwice(t *testing.T) {
	now := monday(17, 15)
	f := newGateFixture(t, now)
	out := monday(17, 0)
	f.records.today = &attendance.Record{
		ID:           "rec-1",
		UserID:       "user-1",
		CheckInTime:  monday(8, 30),
		CheckOutTime: &out,
	}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	_, err := f.svc.CheckOut(ctx, validCheckOutReq(now))
	assert.ErrorIs(t, err, attendance.ErrDayCompleted)
	assert.True(t, f.recorder.has(audit.ActionDoubleCheckOutAttempt))
}

func TestCheckOutEarlyNeedsReason(t *testing.T) {
	now := monday(16, 0)
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	t.Run("without reason", func(t *testing.T) {
		f := newGateFixture(t, now)
		f.records.today = &attendance.Record{ID: "rec-1", UserID: "user-1", CheckInTime: monday(8, 30)}

		_, err := f.svc.CheckOut(ctx, validCheckOutReq(now))
		assert.ErrorIs(t, err, attendance.ErrEarlyCheckoutReasonRequired)
	})

	t.Run("with reason", func(t *testing.T) {
		f := newGateFixture(t, now)
		f.records.today = &attendance.Record{ID: "rec-1", UserID: "user-1", CheckInTime: monday(8, 30)}
		req := validCheckOutReq(now)
		reason := "doctor appointment"
		req.EarlyCheckoutReason = &reason

		resp, err := f.svc.CheckOut(ctx, req)
		require.NoError(t, err)
		assert.NotNil(t, resp.EarlyCheckoutWarning)
		require.NotNil(t, f.records.closed.EarlyCheckoutReason)
		assert.Equal(t, reason, *f.records.closed.EarlyCheckoutReason)
	})
}

func TestCheckOutOffPremisesLiftsDeadline(t *testing.T) {
	now := monday(19, 0)
	f := newGateFixture(t, now)
	f.records.today = &attendance.Record{
		ID:                  "rec-1",
		UserID:              "user-1",
		CheckInTime:         monday(8, 30),
		OffPremisesApproved: true,
	}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	// Far from any registered location; geofence is skipped entirely
	req := validCheckOutReq(now)
	req.Latitude = -7.25
	req.Longitude = 112.75

	_, err := f.svc.CheckOut(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, f.records.closed)
}

func TestCheckOutOutOfRangeLiftsDeadline(t *testing.T) {
	now := monday(19, 0)
	f := newGateFixture(t, now)
	f.records.today = &attendance.Record{
		ID:          "rec-1",
		UserID:      "user-1",
		CheckInTime: monday(8, 30),
	}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	// Outside every geofence: allowed, and the closing deadline is lifted
	req := validCheckOutReq(now)
	req.Latitude = -7.25
	req.Longitude = 112.75

	_, err := f.svc.CheckOut(ctx, req)
	require.NoError(t, err)
}

func TestCheckOutInRangeAfterDeadline(t *testing.T) {
	now := monday(19, 0)
	f := newGateFixture(t, now)
	f.records.today = &attendance.Record{
		ID:          "rec-1",
		UserID:      "user-1",
		CheckInTime: monday(8, 30),
	}
	ctx := authedContext(t, "user-1", "staff", "Engineering")

	_, err := f.svc.CheckOut(ctx, validCheckOutReq(now))
	assert.ErrorIs(t, err, attendance.ErrCheckOutClosed)
}
