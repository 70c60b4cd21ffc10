package leave

import "time"

type Status string

const (
	StatusOnLeave Status = "on_leave"
	StatusWorking Status = "working"
)

// DayStatus marks a staff member's leave state for one calendar day. A row
// with StatusOnLeave blocks check-in and check-out for that day.
type DayStatus struct {
	ID        string
	UserID    string
	Date      time.Time
	Status    Status
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
