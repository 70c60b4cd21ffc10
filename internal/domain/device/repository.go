package device

import (
	"context"
	"time"
)

// SessionRepository defines data access for device sessions.
type SessionRepository interface {
	// Upsert inserts or refreshes the session keyed by (user, fingerprint)
	Upsert(ctx context.Context, s Session) error

	// FindRecentByFingerprint returns the newest session with the same
	// fingerprint seen since the given time for any other user, or nil.
	FindRecentByFingerprint(ctx context.Context, fingerprint, excludeUserID string, since time.Time) (*Session, error)

	// FindRecentByIP returns the newest session with the same IP but a
	// different fingerprint seen since the given time for any other user,
	// or nil.
	FindRecentByIP(ctx context.Context, ip, fingerprint, excludeUserID string, since time.Time) (*Session, error)
}
