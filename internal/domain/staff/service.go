package staff

import "context"

// StaffService defines business logic for staff administration
type StaffService interface {
	// Create registers a new staff account (admin only; creating another
	// admin additionally requires the actor to be an admin)
	Create(ctx context.Context, req CreateStaffRequest) (StaffResponse, error)

	// List retrieves staff accounts with filters (admin only)
	List(ctx context.Context, filter StaffFilter) (ListStaffResponse, error)
}
