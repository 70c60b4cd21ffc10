package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nimbushr/attendance-gate/internal/domain/geofence"
	"github.com/nimbushr/attendance-gate/internal/pkg/database"
)

type locationRepository struct {
	db *database.DB
}

// ListActive implements geofence.LocationRepository.
func (l *locationRepository) ListActive(ctx context.Context) ([]geofence.Location, error) {
	return l.list(ctx, true)
}

// List implements geofence.LocationRepository.
func (l *locationRepository) List(ctx context.Context) ([]geofence.Location, error) {
	return l.list(ctx, false)
}

func (l *locationRepository) list(ctx context.Context, activeOnly bool) ([]geofence.Location, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, name, latitude, longitude, radius_meters, end_time, is_active,
			   created_at, updated_at
		FROM geofence_locations
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name ASC"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list geofence locations: %w", err)
	}
	defer rows.Close()

	locations := []geofence.Location{}
	for rows.Next() {
		var loc geofence.Location
		err := rows.Scan(
			&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.RadiusMeters,
			&loc.EndTime, &loc.IsActive, &loc.CreatedAt, &loc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geofence location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate geofence locations: %w", err)
	}

	return locations, nil
}

// GetByID implements geofence.LocationRepository.
func (l *locationRepository) GetByID(ctx context.Context, id string) (geofence.Location, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, name, latitude, longitude, radius_meters, end_time, is_active,
			   created_at, updated_at
		FROM geofence_locations
		WHERE id = $1
	`

	var loc geofence.Location
	err := q.QueryRow(ctx, query, id).Scan(
		&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.RadiusMeters,
		&loc.EndTime, &loc.IsActive, &loc.CreatedAt, &loc.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return geofence.Location{}, geofence.ErrLocationNotFound
		}
		return geofence.Location{}, fmt.Errorf("failed to get geofence location by ID: %w", err)
	}

	return loc, nil
}

// Create implements geofence.LocationRepository.
func (l *locationRepository) Create(ctx context.Context, loc geofence.Location) (geofence.Location, error) {
	q := GetQuerier(ctx, l.db)

	loc.ID = uuid.NewString()

	query := `
		INSERT INTO geofence_locations (
			id, name, latitude, longitude, radius_meters, end_time, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		loc.ID,
		loc.Name,
		loc.Latitude,
		loc.Longitude,
		loc.RadiusMeters,
		loc.EndTime,
		loc.IsActive,
	).Scan(&loc.CreatedAt, &loc.UpdatedAt)

	if err != nil {
		return geofence.Location{}, fmt.Errorf("failed to create geofence location: %w", err)
	}

	return loc, nil
}

// Update implements geofence.LocationRepository.
func (l *locationRepository) Update(ctx context.Context, loc geofence.Location) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE geofence_locations
		SET name = $1,
			latitude = $2,
			longitude = $3,
			radius_meters = $4,
			end_time = $5,
			is_active = $6,
			updated_at = NOW()
		WHERE id = $7
	`

	tag, err := q.Exec(ctx, query,
		loc.Name,
		loc.Latitude,
		loc.Longitude,
		loc.RadiusMeters,
		loc.EndTime,
		loc.IsActive,
		loc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update geofence location: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return geofence.ErrLocationNotFound
	}

	return nil
}

// Delete implements geofence.LocationRepository.
func (l *locationRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, l.db)

	tag, err := q.Exec(ctx, "DELETE FROM geofence_locations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete geofence location: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return geofence.ErrLocationNotFound
	}

	return nil
}

func NewLocationRepository(db *database.DB) geofence.LocationRepository {
	return &locationRepository{db: db}
}

type deviceRadiusRepository struct {
	db *database.DB
}

// GetByDeviceType implements geofence.DeviceRadiusRepository.
func (d *deviceRadiusRepository) GetByDeviceType(ctx context.Context, deviceType string) (*geofence.DeviceRadius, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT device_type, check_in_radius_meters, check_out_radius_meters, updated_at
		FROM device_radius_settings
		WHERE device_type = $1
	`

	var dr geofence.DeviceRadius
	err := q.QueryRow(ctx, query, deviceType).Scan(
		&dr.DeviceType, &dr.CheckInRadiusMeters, &dr.CheckOutRadiusMeters, &dr.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No override, caller uses the defaults
		}
		return nil, fmt.Errorf("failed to get device radius settings: %w", err)
	}

	return &dr, nil
}

// List implements geofence.DeviceRadiusRepository.
func (d *deviceRadiusRepository) List(ctx context.Context) ([]geofence.DeviceRadius, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT device_type, check_in_radius_meters, check_out_radius_meters, updated_at
		FROM device_radius_settings
		ORDER BY device_type ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list device radius settings: %w", err)
	}
	defer rows.Close()

	settings := []geofence.DeviceRadius{}
	for rows.Next() {
		var dr geofence.DeviceRadius
		if err := rows.Scan(&dr.DeviceType, &dr.CheckInRadiusMeters, &dr.CheckOutRadiusMeters, &dr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device radius settings: %w", err)
		}
		settings = append(settings, dr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device radius settings: %w", err)
	}

	return settings, nil
}

// Upsert implements geofence.DeviceRadiusRepository.
func (d *deviceRadiusRepository) Upsert(ctx context.Context, dr geofence.DeviceRadius) error {
	q := GetQuerier(ctx, d.db)

	query := `
		INSERT INTO device_radius_settings (
			device_type, check_in_radius_meters, check_out_radius_meters
		) VALUES (
			$1, $2, $3
		)
		ON CONFLICT (device_type) DO UPDATE
		SET check_in_radius_meters = EXCLUDED.check_in_radius_meters,
			check_out_radius_meters = EXCLUDED.check_out_radius_meters,
			updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, dr.DeviceType, dr.CheckInRadiusMeters, dr.CheckOutRadiusMeters); err != nil {
		return fmt.Errorf("failed to upsert device radius settings: %w", err)
	}

	return nil
}

func NewDeviceRadiusRepository(db *database.DB) geofence.DeviceRadiusRepository {
	return &deviceRadiusRepository{db: db}
}
