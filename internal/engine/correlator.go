// Package engine holds the pure reconstruction core: cross-channel sample
// correlation, fuel delta aggregation, and the power timeline/runtime
// computation. Nothing in this package touches storage or the clock; every
// function is a stateless transform of its inputs.
package engine

import (
	"time"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

// ClosestSample finds the sample nearest to target on one channel.
// A candidate is accepted only if its distance is strictly below tolerance;
// ties keep the first sample encountered. Returns nil when the channel is
// empty or nothing lies within tolerance.
func ClosestSample(samples []models.SensorSample, target time.Time, tolerance time.Duration) *models.SensorSample {
	var best *models.SensorSample
	var bestDiff time.Duration

	for i := range samples {
		diff := samples[i].SampledAt.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if best == nil || diff < bestDiff {
			best = &samples[i]
			bestDiff = diff
		}
	}

	if best == nil || bestDiff >= tolerance {
		return nil
	}
	return best
}
