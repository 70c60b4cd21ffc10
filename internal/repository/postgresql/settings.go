package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nimbushr/attendance-gate/internal/domain/settings"
	"github.com/nimbushr/attendance-gate/internal/pkg/database"
)

const geoSettingsKey = "geo_settings"

type settingsRepository struct {
	db *database.DB
}

// GetGeoSettings implements settings.Repository. Falls back to the built-in
// defaults when no row has been written yet.
func (s *settingsRepository) GetGeoSettings(ctx context.Context) (settings.GeoSettings, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT value
		FROM system_settings
		WHERE key = $1
	`

	var gs settings.GeoSettings
	err := q.QueryRow(ctx, query, geoSettingsKey).Scan(&gs)

	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.DefaultGeoSettings(), nil
		}
		return settings.GeoSettings{}, fmt.Errorf("failed to get geo settings: %w", err)
	}

	return gs, nil
}

// UpdateGeoSettings implements settings.Repository.
func (s *settingsRepository) UpdateGeoSettings(ctx context.Context, gs settings.GeoSettings) error {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO system_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, geoSettingsKey, gs); err != nil {
		return fmt.Errorf("failed to update geo settings: %w", err)
	}

	return nil
}

func NewSettingsRepository(db *database.DB) settings.Repository {
	return &settingsRepository{db: db}
}
