package master

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nimbushr/attendance-gate/internal/domain/audit"
	"github.com/nimbushr/attendance-gate/internal/domain/geofence"
	"github.com/nimbushr/attendance-gate/internal/domain/leave"
	"github.com/nimbushr/attendance-gate/internal/domain/settings"
	"github.com/nimbushr/attendance-gate/internal/pkg/database"
	"github.com/nimbushr/attendance-gate/internal/pkg/validator"
	"github.com/nimbushr/attendance-gate/internal/repository/postgresql"
)

// MasterService bundles the admin-facing master data operations: geofence
// locations, device radius overrides, leave statuses and geo settings.
type MasterService interface {
	geofence.LocationService
	geofence.DeviceRadiusService
	leave.StatusService
	settings.Service
}

type masterService struct {
	db           *database.DB
	locationRepo geofence.LocationRepository
	radiusRepo   geofence.DeviceRadiusRepository
	leaveRepo    leave.StatusRepository
	settingsRepo settings.Repository
	recorder     audit.Recorder
}

func NewMasterService(
	db *database.DB,
	locationRepo geofence.LocationRepository,
	radiusRepo geofence.DeviceRadiusRepository,
	leaveRepo leave.StatusRepository,
	settingsRepo settings.Repository,
	recorder audit.Recorder,
) MasterService {
	return &masterService{
		db:           db,
		locationRepo: locationRepo,
		radiusRepo:   radiusRepo,
		leaveRepo:    leaveRepo,
		settingsRepo: settingsRepo,
		recorder:     recorder,
	}
}

// List implements geofence.LocationService.
func (m *masterService) List(ctx context.Context) ([]geofence.LocationResponse, error) {
	locations, err := m.locationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]geofence.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		responses = append(responses, toLocationResponse(loc))
	}
	return responses, nil
}

// Create implements geofence.LocationService.
func (m *masterService) Create(ctx context.Context, req geofence.UpsertLocationRequest) (geofence.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return geofence.LocationResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := m.locationRepo.Create(ctx, geofence.Location{
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		EndTime:      req.EndTime,
		IsActive:     isActive,
	})
	if err != nil {
		return geofence.LocationResponse{}, err
	}

	m.recordChange(ctx, audit.ActionUpdateLocation, nil, locationValues(created))

	return toLocationResponse(created), nil
}

// Update implements geofence.LocationService. The read of the old row and
// the write run in one transaction so the audited old/new pair is consistent.
func (m *masterService) Update(ctx context.Context, req geofence.UpsertLocationRequest) (geofence.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return geofence.LocationResponse{}, err
	}

	var old, updated geofence.Location
	err := postgresql.WithTransaction(ctx, m.db, func(txCtx context.Context) error {
		var err error
		old, err = m.locationRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		updated = old
		updated.Name = req.Name
		updated.Latitude = req.Latitude
		updated.Longitude = req.Longitude
		updated.RadiusMeters = req.RadiusMeters
		updated.EndTime = req.EndTime
		if req.IsActive != nil {
			updated.IsActive = *req.IsActive
		}

		return m.locationRepo.Update(txCtx, updated)
	})
	if err != nil {
		return geofence.LocationResponse{}, err
	}

	m.recordChange(ctx, audit.ActionUpdateLocation, locationValues(old), locationValues(updated))

	return toLocationResponse(updated), nil
}

// Delete implements geofence.LocationService.
func (m *masterService) Delete(ctx context.Context, id string) error {
	if err := m.locationRepo.Delete(ctx, id); err != nil {
		return err
	}

	m.recordChange(ctx, audit.ActionUpdateLocation, map[string]interface{}{"id": id}, map[string]interface{}{"deleted": true})

	return nil
}

// ListDeviceRadius implements geofence.DeviceRadiusService.
func (m *masterService) ListDeviceRadius(ctx context.Context) ([]geofence.DeviceRadius, error) {
	return m.radiusRepo.List(ctx)
}

// UpsertDeviceRadius implements geofence.DeviceRadiusService.
func (m *masterService) UpsertDeviceRadius(ctx context.Context, req geofence.UpsertDeviceRadiusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	err := m.radiusRepo.Upsert(ctx, geofence.DeviceRadius{
		DeviceType:           req.DeviceType,
		CheckInRadiusMeters:  req.CheckInRadiusMeters,
		CheckOutRadiusMeters: req.CheckOutRadiusMeters,
	})
	if err != nil {
		return err
	}

	m.recordChange(ctx, audit.ActionUpdateDeviceRadius, nil, map[string]interface{}{
		"device_type":             req.DeviceType,
		"check_in_radius_meters":  req.CheckInRadiusMeters,
		"check_out_radius_meters": req.CheckOutRadiusMeters,
	})

	return nil
}

// SetStatus implements leave.StatusService.
func (m *masterService) SetStatus(ctx context.Context, req leave.SetStatusRequest) (leave.DayStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.DayStatusResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	st, err := m.leaveRepo.Set(ctx, leave.DayStatus{
		UserID: req.UserID,
		Date:   date,
		Status: leave.Status(req.Status),
		Note:   req.Note,
	})
	if err != nil {
		return leave.DayStatusResponse{}, err
	}

	m.recordChange(ctx, audit.ActionUpdateLeaveStatus, nil, map[string]interface{}{
		"user_id": req.UserID,
		"date":    req.Date,
		"status":  req.Status,
	})

	return toDayStatusResponse(st), nil
}

// ListByDate implements leave.StatusService.
func (m *masterService) ListByDate(ctx context.Context, date string) ([]leave.DayStatusResponse, error) {
	if _, valid := validator.IsValidDate(date); !valid {
		return nil, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	statuses, err := m.leaveRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.DayStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		responses = append(responses, toDayStatusResponse(st))
	}
	return responses, nil
}

// GetGeoSettings implements settings.Service.
func (m *masterService) GetGeoSettings(ctx context.Context) (settings.GeoSettings, error) {
	return m.settingsRepo.GetGeoSettings(ctx)
}

// UpdateGeoSettings implements settings.Service.
func (m *masterService) UpdateGeoSettings(ctx context.Context, req settings.UpdateGeoSettingsRequest) (settings.GeoSettings, error) {
	if err := req.Validate(); err != nil {
		return settings.GeoSettings{}, err
	}

	gs := settings.GeoSettings{
		MaxLocationAgeMS:         req.MaxLocationAgeMS,
		RequireHighAccuracy:      req.RequireHighAccuracy,
		HighAccuracyThresholdM:   req.HighAccuracyThresholdM,
		NormalAccuracyThresholdM: req.NormalAccuracyThresholdM,
	}

	var old settings.GeoSettings
	err := postgresql.WithTransaction(ctx, m.db, func(txCtx context.Context) error {
		var err error
		old, err = m.settingsRepo.GetGeoSettings(txCtx)
		if err != nil {
			return err
		}
		return m.settingsRepo.UpdateGeoSettings(txCtx, gs)
	})
	if err != nil {
		return settings.GeoSettings{}, err
	}

	m.recordChange(ctx, audit.ActionUpdateGeoSettings, geoSettingsValues(old), geoSettingsValues(gs))

	return gs, nil
}

func (m *masterService) recordChange(ctx context.Context, action audit.Action, oldValues, newValues map[string]interface{}) {
	entry := audit.Entry{
		Action:    action,
		OldValues: oldValues,
		NewValues: newValues,
	}
	if _, claims, err := jwtauth.FromContext(ctx); err == nil {
		if actorID, ok := claims["user_id"].(string); ok && actorID != "" {
			entry.ActorID = &actorID
		}
	}
	m.recorder.Record(ctx, entry)
}

func toLocationResponse(loc geofence.Location) geofence.LocationResponse {
	return geofence.LocationResponse{
		ID:           loc.ID,
		Name:         loc.Name,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		RadiusMeters: loc.RadiusMeters,
		EndTime:      loc.EndTime,
		IsActive:     loc.IsActive,
	}
}

func locationValues(loc geofence.Location) map[string]interface{} {
	values := map[string]interface{}{
		"id":            loc.ID,
		"name":          loc.Name,
		"latitude":      loc.Latitude,
		"longitude":     loc.Longitude,
		"radius_meters": loc.RadiusMeters,
		"is_active":     loc.IsActive,
	}
	if loc.EndTime != nil {
		values["end_time"] = *loc.EndTime
	}
	return values
}

func geoSettingsValues(gs settings.GeoSettings) map[string]interface{} {
	return map[string]interface{}{
		"max_location_age_ms":         gs.MaxLocationAgeMS,
		"require_high_accuracy":       gs.RequireHighAccuracy,
		"high_accuracy_threshold_m":   gs.HighAccuracyThresholdM,
		"normal_accuracy_threshold_m": gs.NormalAccuracyThresholdM,
	}
}

func toDayStatusResponse(st leave.DayStatus) leave.DayStatusResponse {
	return leave.DayStatusResponse{
		ID:     st.ID,
		UserID: st.UserID,
		Date:   st.Date.Format("2006-01-02"),
		Status: string(st.Status),
		Note:   st.Note,
	}
}
