package engine

import (
	"time"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

// FuelDeltas reconstructs one day's fuel movement from the level channel
// (percent) and the volume channel (liters). The two channels sample
// independently and drift out of phase, so volume deltas are taken between
// the volume samples nearest to each level pair's endpoints.
//
// A volume delta counts toward consumed liters only when both channels
// agree the tank went down, and toward topped-up liters only when both
// agree it went up. Sign disagreement within one interval is treated as
// sensor noise and excluded from the totals. Non-numeric readings are
// skipped as if absent.
func FuelDeltas(levels, volumes []models.SensorSample, tolerance time.Duration) models.FuelDeltaResult {
	type point struct {
		at    time.Time
		value float64
	}

	points := make([]point, 0, len(levels))
	for i := range levels {
		v, ok := levels[i].NumericValue()
		if !ok {
			continue
		}
		points = append(points, point{at: levels[i].SampledAt, value: v})
	}

	// Fewer than two usable level samples: nothing to reconstruct.
	// This is a normal outcome for quiet days, not an error.
	if len(points) < 2 {
		return models.FuelDeltaResult{}
	}

	var consumedPct, toppedPct float64
	var consumedVol, toppedVol float64

	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]

		levelDelta := cur.value - prev.value
		if levelDelta < 0 {
			consumedPct += -levelDelta
		} else if levelDelta > 0 {
			toppedPct += levelDelta
		}

		prevVol := ClosestSample(volumes, prev.at, tolerance)
		curVol := ClosestSample(volumes, cur.at, tolerance)
		if prevVol == nil || curVol == nil {
			continue
		}
		pv, ok := prevVol.NumericValue()
		if !ok {
			continue
		}
		cv, ok := curVol.NumericValue()
		if !ok {
			continue
		}

		volumeDelta := cv - pv
		switch {
		case volumeDelta < 0 && levelDelta < 0:
			consumedVol += -volumeDelta
		case volumeDelta > 0 && levelDelta > 0:
			toppedVol += volumeDelta
		}
	}

	return models.FuelDeltaResult{
		ConsumedVolume:  Round1(consumedVol),
		ToppedVolume:    Round1(toppedVol),
		ConsumedPercent: Round2(consumedPct),
		ToppedPercent:   Round2(toppedPct),
	}
}
