package device

import "time"

// SharingWindow is how far back the trust heuristic looks for the same
// fingerprint or IP used by a different staff member.
const SharingWindow = 2 * time.Hour

// Session is the last-known device state for a (user, fingerprint) pair,
// upserted on every check-in/check-out attempt. Used only by the trust
// heuristic, never for authorization.
type Session struct {
	ID          string
	UserID      string
	Fingerprint string
	IPAddress   string
	UserAgent   *string
	LastSeenAt  time.Time
}
