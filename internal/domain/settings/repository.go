package settings

import "context"

// Repository defines access to the system settings store.
type Repository interface {
	// GetGeoSettings returns the stored geo settings, or the defaults when
	// no row exists.
	GetGeoSettings(ctx context.Context) (GeoSettings, error)

	// UpdateGeoSettings replaces the stored geo settings
	UpdateGeoSettings(ctx context.Context, gs GeoSettings) error
}
