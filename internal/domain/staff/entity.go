package staff

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // Full access, manages staff and settings
	RoleManager Role = "manager" // Can review attendance and approve off-premises duty
	RoleStaff   Role = "staff"   // Regular staff member
)

type Staff struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	Department   string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if the staff member has admin privileges
func (s *Staff) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// CanReviewAttendance checks if the staff member can review other people's records
func (s *Staff) CanReviewAttendance() bool {
	return s.Role == RoleAdmin || s.Role == RoleManager
}
