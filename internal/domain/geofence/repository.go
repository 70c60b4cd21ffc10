package geofence

import "context"

// LocationRepository defines data access for registered geofence locations.
// The attendance gate only reads; mutation is admin-only.
type LocationRepository interface {
	ListActive(ctx context.Context) ([]Location, error)
	List(ctx context.Context) ([]Location, error)
	GetByID(ctx context.Context, id string) (Location, error)
	Create(ctx context.Context, loc Location) (Location, error)
	Update(ctx context.Context, loc Location) error
	Delete(ctx context.Context, id string) error
}

// DeviceRadiusRepository defines data access for per-device-type radius
// overrides.
type DeviceRadiusRepository interface {
	// GetByDeviceType returns nil when no override exists
	GetByDeviceType(ctx context.Context, deviceType string) (*DeviceRadius, error)
	List(ctx context.Context) ([]DeviceRadius, error)
	Upsert(ctx context.Context, dr DeviceRadius) error
}
