package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nimbushr/attendance-gate/internal/domain/attendance"
	"github.com/nimbushr/attendance-gate/internal/domain/audit"
	"github.com/nimbushr/attendance-gate/internal/domain/device"
)

// evaluateDeviceTrust records the device session and checks for the same
// fingerprint or IP used by another staff member within the sharing window.
// Purely advisory: anything it finds becomes an audit entry and a warning
// string, never an error.
func (a *AttendanceServiceImpl) evaluateDeviceTrust(ctx context.Context, userID string, info *attendance.DeviceInfo, ip, userAgent string, now time.Time) *string {
	if info == nil || info.Fingerprint == "" {
		return nil
	}

	ua := userAgent
	if info.UserAgent != "" {
		ua = info.UserAgent
	}

	session := device.Session{
		UserID:      userID,
		Fingerprint: info.Fingerprint,
		IPAddress:   ip,
		LastSeenAt:  now,
	}
	if ua != "" {
		session.UserAgent = &ua
	}

	if err := a.SessionRepository.Upsert(ctx, session); err != nil {
		slog.WarnContext(ctx, "failed to upsert device session",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	since := now.Add(-device.SharingWindow)

	other, err := a.SessionRepository.FindRecentByFingerprint(ctx, info.Fingerprint, userID, since)
	if err != nil {
		slog.WarnContext(ctx, "device sharing lookup failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
	if other != nil {
		a.recorder.Record(ctx, audit.Entry{
			Action:  audit.ActionDeviceSharing,
			ActorID: &userID,
			NewValues: map[string]interface{}{
				"fingerprint":   info.Fingerprint,
				"other_user_id": other.UserID,
				"last_seen_at":  other.LastSeenAt,
			},
			IPAddress: &ip,
		})
		warning := fmt.Sprintf("This device was used by another staff member within the last %d hours", int(device.SharingWindow.Hours()))
		return &warning
	}

	if ip != "" {
		other, err = a.SessionRepository.FindRecentByIP(ctx, ip, info.Fingerprint, userID, since)
		if err != nil {
			slog.WarnContext(ctx, "ip sharing lookup failed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
		if other != nil {
			a.recorder.Record(ctx, audit.Entry{
				Action:  audit.ActionIPSharing,
				ActorID: &userID,
				NewValues: map[string]interface{}{
					"ip_address":    ip,
					"other_user_id": other.UserID,
					"last_seen_at":  other.LastSeenAt,
				},
				IPAddress: &ip,
			})
			warning := fmt.Sprintf("Another staff member checked in from this network within the last %d hours", int(device.SharingWindow.Hours()))
			return &warning
		}
	}

	return nil
}
