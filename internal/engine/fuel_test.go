package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

const tolerance = 5 * time.Minute

func TestFuelDeltas_ConsumptionWithMatchedVolumes(t *testing.T) {
	levels := []models.SensorSample{
		sample(at(8, 0), "80"),
		sample(at(9, 0), "60"),
	}
	volumes := []models.SensorSample{
		sample(at(8, 0), "1600"),
		sample(at(9, 0), "1200"),
	}

	got := FuelDeltas(levels, volumes, tolerance)

	assert.Equal(t, 400.0, got.ConsumedVolume)
	assert.Equal(t, 20.0, got.ConsumedPercent)
	assert.Equal(t, 0.0, got.ToppedVolume)
	assert.Equal(t, 0.0, got.ToppedPercent)
}

func TestFuelDeltas_TopUp(t *testing.T) {
	levels := []models.SensorSample{
		sample(at(10, 0), "30"),
		sample(at(11, 0), "75"),
	}
	volumes := []models.SensorSample{
		sample(at(10, 2), "600"),
		sample(at(10, 58), "1500"),
	}

	got := FuelDeltas(levels, volumes, tolerance)

	assert.Equal(t, 900.0, got.ToppedVolume)
	assert.Equal(t, 45.0, got.ToppedPercent)
	assert.Equal(t, 0.0, got.ConsumedVolume)
}

func TestFuelDeltas_FewerThanTwoLevelSamples(t *testing.T) {
	levels := []models.SensorSample{sample(at(8, 0), "80")}
	volumes := []models.SensorSample{sample(at(8, 0), "1600")}

	got := FuelDeltas(levels, volumes, tolerance)
	assert.Equal(t, models.FuelDeltaResult{}, got)

	got = FuelDeltas(nil, volumes, tolerance)
	assert.Equal(t, models.FuelDeltaResult{}, got)
}

func TestFuelDeltas_SignDisagreementExcluded(t *testing.T) {
	// Level says consumption, volume says increase: the interval is noise
	// and contributes nothing in liters. The percent side still moves.
	levels := []models.SensorSample{
		sample(at(8, 0), "80"),
		sample(at(9, 0), "70"),
	}
	volumes := []models.SensorSample{
		sample(at(8, 0), "1400"),
		sample(at(9, 0), "1500"),
	}

	got := FuelDeltas(levels, volumes, tolerance)

	assert.Equal(t, 0.0, got.ConsumedVolume)
	assert.Equal(t, 0.0, got.ToppedVolume)
	assert.Equal(t, 10.0, got.ConsumedPercent)
}

func TestFuelDeltas_CorrelationMissExcluded(t *testing.T) {
	// Volume channel drifted out of phase beyond tolerance: percent totals
	// accumulate, liter totals stay zero.
	levels := []models.SensorSample{
		sample(at(8, 0), "80"),
		sample(at(9, 0), "60"),
	}
	volumes := []models.SensorSample{
		sample(at(8, 20), "1600"),
		sample(at(9, 20), "1200"),
	}

	got := FuelDeltas(levels, volumes, tolerance)

	assert.Equal(t, 0.0, got.ConsumedVolume)
	assert.Equal(t, 20.0, got.ConsumedPercent)
}

func TestFuelDeltas_NonNumericLevelsSkipped(t *testing.T) {
	levels := []models.SensorSample{
		sample(at(8, 0), "80"),
		sample(at(8, 30), "err"),
		sample(at(9, 0), "60"),
	}

	got := FuelDeltas(levels, nil, tolerance)
	assert.Equal(t, 20.0, got.ConsumedPercent)
}

func TestFuelDeltas_Rounding(t *testing.T) {
	levels := []models.SensorSample{
		sample(at(8, 0), "80.123"),
		sample(at(9, 0), "60.001"),
	}
	volumes := []models.SensorSample{
		sample(at(8, 0), "1600.07"),
		sample(at(9, 0), "1200.02"),
	}

	got := FuelDeltas(levels, volumes, tolerance)

	assert.Equal(t, 400.1, got.ConsumedVolume)
	assert.Equal(t, 20.12, got.ConsumedPercent)
}

func TestFuelDeltas_MixedIntervals(t *testing.T) {
	// Consumption then a refill: both totals accumulate independently.
	levels := []models.SensorSample{
		sample(at(8, 0), "50"),
		sample(at(9, 0), "40"),
		sample(at(10, 0), "90"),
	}
	volumes := []models.SensorSample{
		sample(at(8, 0), "1000"),
		sample(at(9, 0), "800"),
		sample(at(10, 0), "1800"),
	}

	got := FuelDeltas(levels, volumes, tolerance)

	assert.Equal(t, 200.0, got.ConsumedVolume)
	assert.Equal(t, 1000.0, got.ToppedVolume)
	assert.Equal(t, 10.0, got.ConsumedPercent)
	assert.Equal(t, 50.0, got.ToppedPercent)
}
