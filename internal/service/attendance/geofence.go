package attendance

import (
	"time"

	"github.com/nimbushr/attendance-gate/internal/domain/attendance"
	"github.com/nimbushr/attendance-gate/internal/domain/geofence"
	"github.com/nimbushr/attendance-gate/internal/domain/settings"
	"github.com/nimbushr/attendance-gate/internal/pkg/geo"
)

// validateFix rejects a GPS fix that is untimestamped, stale, or dated in
// the future. Accuracy is a hard gate only when high accuracy is required;
// otherwise a fix past the normal threshold is still accepted and reported
// as degraded so the caller can record it.
func validateFix(now time.Time, timestampMS *int64, accuracy float64, gs settings.GeoSettings) (degraded bool, err error) {
	if timestampMS == nil {
		return false, attendance.ErrMissingLocationTimestamp
	}

	// A future-dated fix is as untrustworthy as a stale one.
	age := now.UnixMilli() - *timestampMS
	if age < 0 || age > gs.MaxLocationAgeMS {
		return false, attendance.ErrStaleLocation
	}

	if gs.RequireHighAccuracy && accuracy > gs.HighAccuracyThresholdM {
		return false, attendance.ErrLowAccuracy
	}

	return accuracy > gs.NormalAccuracyThresholdM, nil
}

// allowedRadius is the acceptance radius for one location: the larger of the
// location's own radius and the per-device base, plus the fixed tolerance.
func allowedRadius(loc geofence.Location, deviceBaseMeters float64) float64 {
	base := loc.RadiusMeters
	if deviceBaseMeters > base {
		base = deviceBaseMeters
	}
	return base + geofence.RadiusToleranceMeters
}

// geofenceMatch is the outcome of a successful geofence resolution.
type geofenceMatch struct {
	Location geofence.Location
	Distance float64
}

// resolveGeofence matches the fix against the registered locations. With a
// declared location ID the fix must land inside that location's radius
// (ErrGeofenceMismatch otherwise); without one the nearest location within
// radius wins (ErrOutsideGeofence when there is none).
func resolveGeofence(lat, lng float64, declaredID *string, active []geofence.Location, deviceBaseMeters float64) (geofenceMatch, error) {
	if len(active) == 0 {
		return geofenceMatch{}, attendance.ErrNoActiveLocations
	}

	if declaredID != nil && *declaredID != "" {
		for _, loc := range active {
			if loc.ID != *declaredID {
				continue
			}
			distance := geo.HaversineDistance(lat, lng, loc.Latitude, loc.Longitude)
			if distance > allowedRadius(loc, deviceBaseMeters) {
				return geofenceMatch{}, attendance.ErrGeofenceMismatch
			}
			return geofenceMatch{Location: loc, Distance: distance}, nil
		}
		return geofenceMatch{}, geofence.ErrLocationNotFound
	}

	var (
		best     *geofence.Location
		bestDist float64
	)
	for i := range active {
		loc := active[i]
		distance := geo.HaversineDistance(lat, lng, loc.Latitude, loc.Longitude)
		if distance > allowedRadius(loc, deviceBaseMeters) {
			continue
		}
		if best == nil || distance < bestDist {
			best = &active[i]
			bestDist = distance
		}
	}

	if best == nil {
		return geofenceMatch{}, attendance.ErrOutsideGeofence
	}

	return geofenceMatch{Location: *best, Distance: bestDist}, nil
}
