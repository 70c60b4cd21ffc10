package attendance

import (
	"math"
	"testing"
	"time"

	"github.com/nimbushr/attendance-gate/internal/domain/attendance"
	"github.com/nimbushr/attendance-gate/internal/domain/geofence"
	"github.com/nimbushr/attendance-gate/internal/domain/settings"
	"github.com/nimbushr/attendance-gate/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// northOf shifts a latitude north by the given distance. Along a meridian the
// haversine distance is exactly R times the latitude delta.
func northOf(lat, meters float64) float64 {
	return lat + meters/geo.EarthRadiusMeters*180/math.Pi
}

func TestValidateFix(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	defaults := settings.DefaultGeoSettings()

	highAccuracy := settings.GeoSettings{
		MaxLocationAgeMS:         300000,
		RequireHighAccuracy:      true,
		HighAccuracyThresholdM:   100,
		NormalAccuracyThresholdM: 500,
	}

	fresh := now.Add(-30 * time.Second).UnixMilli()
	stale := now.Add(-6 * time.Minute).UnixMilli()
	future := now.Add(2 * time.Minute).UnixMilli()

	tests := []struct {
		name         string
		ts           *int64
		accuracy     float64
		gs           settings.GeoSettings
		wantDegraded bool
		wantErr      error
	}{
		{
			name:     "fresh accurate fix",
			ts:       &fresh,
			accuracy: 50,
			gs:       defaults,
		},
		{
			name:     "missing timestamp",
			ts:       nil,
			accuracy: 50,
			gs:       defaults,
			wantErr:  attendance.ErrMissingLocationTimestamp,
		},
		{
			name:     "stale fix",
			ts:       &stale,
			accuracy: 50,
			gs:       defaults,
			wantErr:  attendance.ErrStaleLocation,
		},
		{
			name:     "future-dated fix",
			ts:       &future,
			accuracy: 50,
			gs:       defaults,
			wantErr:  attendance.ErrStaleLocation,
		},
		{
			name:         "imprecise fix accepted as degraded",
			ts:           &fresh,
			accuracy:     600,
			gs:           defaults,
			wantDegraded: true,
		},
		{
			name:     "high accuracy mode rejects the same fix",
			ts:       &fresh,
			accuracy: 600,
			gs:       highAccuracy,
			wantErr:  attendance.ErrLowAccuracy,
		},
		{
			name:     "high accuracy mode tightens the threshold",
			ts:       &fresh,
			accuracy: 150,
			gs:       highAccuracy,
			wantErr:  attendance.ErrLowAccuracy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			degraded, err := validateFix(now, tt.ts, tt.accuracy, tt.gs)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDegraded, degraded)
		})
	}
}

func TestResolveGeofence(t *testing.T) {
	office := geofence.Location{
		ID:           "loc-hq",
		Name:         "Headquarters",
		Latitude:     -6.2,
		Longitude:    106.8,
		RadiusMeters: 400,
		IsActive:     true,
	}
	warehouse := geofence.Location{
		ID:           "loc-wh",
		Name:         "Warehouse",
		Latitude:     northOf(-6.2, 5000),
		Longitude:    106.8,
		RadiusMeters: 400,
		IsActive:     true,
	}
	active := []geofence.Location{office, warehouse}

	base := float64(geofence.DefaultCheckInRadiusMeters)

	t.Run("no active locations", func(t *testing.T) {
		_, err := resolveGeofence(-6.2, 106.8, nil, nil, base)
		assert.ErrorIs(t, err, attendance.ErrNoActiveLocations)
	})

	t.Run("inside radius plus tolerance", func(t *testing.T) {
		// 800m out: within the 400m radius plus 500m tolerance
		match, err := resolveGeofence(northOf(office.Latitude, 800), office.Longitude, nil, active, base)
		require.NoError(t, err)
		assert.Equal(t, office.ID, match.Location.ID)
		assert.InDelta(t, 800, match.Distance, 1)
	})

	t.Run("just past the tolerance", func(t *testing.T) {
		// 1000m out: past the 900m acceptance radius of both locations
		_, err := resolveGeofence(northOf(office.Latitude, 1000), office.Longitude, nil, []geofence.Location{office}, base)
		assert.ErrorIs(t, err, attendance.ErrOutsideGeofence)
	})

	t.Run("nearest location wins", func(t *testing.T) {
		// 200m south of the warehouse, 4800m north of the office
		match, err := resolveGeofence(northOf(office.Latitude, 4800), office.Longitude, nil, active, base)
		require.NoError(t, err)
		assert.Equal(t, warehouse.ID, match.Location.ID)
	})

	t.Run("declared location within range", func(t *testing.T) {
		declared := office.ID
		match, err := resolveGeofence(office.Latitude, office.Longitude, &declared, active, base)
		require.NoError(t, err)
		assert.Equal(t, office.ID, match.Location.ID)
		assert.InDelta(t, 0, match.Distance, 1)
	})

	t.Run("declared location out of range", func(t *testing.T) {
		// Standing at the warehouse while declaring the office
		declared := office.ID
		_, err := resolveGeofence(warehouse.Latitude, warehouse.Longitude, &declared, active, base)
		assert.ErrorIs(t, err, attendance.ErrGeofenceMismatch)
	})

	t.Run("declared location unknown", func(t *testing.T) {
		declared := "loc-nope"
		_, err := resolveGeofence(office.Latitude, office.Longitude, &declared, active, base)
		assert.ErrorIs(t, err, geofence.ErrLocationNotFound)
	})

	t.Run("device base radius widens acceptance", func(t *testing.T) {
		// 1200m out fails with the default base but passes with a 1000m one
		lat := northOf(office.Latitude, 1200)
		_, err := resolveGeofence(lat, office.Longitude, nil, []geofence.Location{office}, base)
		assert.ErrorIs(t, err, attendance.ErrOutsideGeofence)

		match, err := resolveGeofence(lat, office.Longitude, nil, []geofence.Location{office}, 1000)
		require.NoError(t, err)
		assert.Equal(t, office.ID, match.Location.ID)
	})
}
