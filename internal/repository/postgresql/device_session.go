package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nimbushr/attendance-gate/internal/domain/device"
	"github.com/nimbushr/attendance-gate/internal/pkg/database"
)

type deviceSessionRepository struct {
	db *database.DB
}

// Upsert implements device.SessionRepository.
func (d *deviceSessionRepository) Upsert(ctx context.Context, s device.Session) error {
	q := GetQuerier(ctx, d.db)

	query := `
		INSERT INTO device_sessions (
			id, user_id, fingerprint, ip_address, user_agent, last_seen_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (user_id, fingerprint) DO UPDATE
		SET ip_address = EXCLUDED.ip_address,
			user_agent = EXCLUDED.user_agent,
			last_seen_at = EXCLUDED.last_seen_at
	`

	_, err := q.Exec(ctx, query,
		uuid.NewString(),
		s.UserID,
		s.Fingerprint,
		s.IPAddress,
		s.UserAgent,
		s.LastSeenAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert device session: %w", err)
	}

	return nil
}

// FindRecentByFingerprint implements device.SessionRepository.
func (d *deviceSessionRepository) FindRecentByFingerprint(ctx context.Context, fingerprint, excludeUserID string, since time.Time) (*device.Session, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT id, user_id, fingerprint, ip_address, user_agent, last_seen_at
		FROM device_sessions
		WHERE fingerprint = $1
		  AND user_id != $2
		  AND last_seen_at >= $3
		ORDER BY last_seen_at DESC
		LIMIT 1
	`

	var s device.Session
	err := q.QueryRow(ctx, query, fingerprint, excludeUserID, since).Scan(
		&s.ID, &s.UserID, &s.Fingerprint, &s.IPAddress, &s.UserAgent, &s.LastSeenAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find device session by fingerprint: %w", err)
	}

	return &s, nil
}

// FindRecentByIP implements device.SessionRepository.
func (d *deviceSessionRepository) FindRecentByIP(ctx context.Context, ip, fingerprint, excludeUserID string, since time.Time) (*device.Session, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT id, user_id, fingerprint, ip_address, user_agent, last_seen_at
		FROM device_sessions
		WHERE ip_address = $1
		  AND fingerprint != $2
		  AND user_id != $3
		  AND last_seen_at >= $4
		ORDER BY last_seen_at DESC
		LIMIT 1
	`

	var s device.Session
	err := q.QueryRow(ctx, query, ip, fingerprint, excludeUserID, since).Scan(
		&s.ID, &s.UserID, &s.Fingerprint, &s.IPAddress, &s.UserAgent, &s.LastSeenAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find device session by IP: %w", err)
	}

	return &s, nil
}

func NewDeviceSessionRepository(db *database.DB) device.SessionRepository {
	return &deviceSessionRepository{db: db}
}
