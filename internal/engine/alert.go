package engine

import "github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"

// ClampPercent bounds a raw fuel level reading to the displayable 0..100.
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ResolveAlert derives the dashboard alert status for a site.
// Low fuel wins over a stopped generator; an empty-reading site
// (percent 0) never raises generator_off.
func ResolveAlert(percent float64, generatorOnline bool, thresholdPercent float64) string {
	switch {
	case percent < thresholdPercent:
		return models.AlertLowFuel
	case !generatorOnline && percent > 0:
		return models.AlertGeneratorOff
	default:
		return models.AlertNormal
	}
}

// HasSignal reports whether a site's fuel readings carry meaningful data.
// A site with zero percent and no volume is counted in totals but excluded
// from the dashboard's online count.
func HasSignal(percent, volume float64) bool {
	return percent != 0 || volume > 0
}
