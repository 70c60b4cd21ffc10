package settings

import "context"

// Service defines admin access to the geo settings.
type Service interface {
	GetGeoSettings(ctx context.Context) (GeoSettings, error)
	UpdateGeoSettings(ctx context.Context, req UpdateGeoSettingsRequest) (GeoSettings, error)
}
