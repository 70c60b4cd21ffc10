package settings

// GeoSettings is the process-wide location validation configuration, read
// per request so admin changes take effect without a restart.
type GeoSettings struct {
	MaxLocationAgeMS         int64   `json:"max_location_age_ms"`
	RequireHighAccuracy      bool    `json:"require_high_accuracy"`
	HighAccuracyThresholdM   float64 `json:"high_accuracy_threshold_m"`
	NormalAccuracyThresholdM float64 `json:"normal_accuracy_threshold_m"`
}

// DefaultGeoSettings returns the settings applied when no row exists.
func DefaultGeoSettings() GeoSettings {
	return GeoSettings{
		MaxLocationAgeMS:         300000,
		RequireHighAccuracy:      false,
		HighAccuracyThresholdM:   100,
		NormalAccuracyThresholdM: 500,
	}
}
