package staff

import "context"

// StaffRepository defines data access methods for staff accounts.
type StaffRepository interface {
	// Create creates a new staff account
	Create(ctx context.Context, s Staff) (Staff, error)

	// GetByID retrieves a staff member by id
	GetByID(ctx context.Context, id string) (Staff, error)

	// GetByEmail retrieves a staff member by email
	GetByEmail(ctx context.Context, email string) (Staff, error)

	// List retrieves staff accounts with filters and pagination
	List(ctx context.Context, filter StaffFilter) ([]Staff, int64, error)
}
