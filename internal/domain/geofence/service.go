package geofence

import "context"

// LocationService defines admin management of geofence locations.
type LocationService interface {
	List(ctx context.Context) ([]LocationResponse, error)
	Create(ctx context.Context, req UpsertLocationRequest) (LocationResponse, error)
	Update(ctx context.Context, req UpsertLocationRequest) (LocationResponse, error)
	Delete(ctx context.Context, id string) error
}

// DeviceRadiusService defines admin management of per-device radius overrides.
type DeviceRadiusService interface {
	ListDeviceRadius(ctx context.Context) ([]DeviceRadius, error)
	UpsertDeviceRadius(ctx context.Context, req UpsertDeviceRadiusRequest) error
}
