package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func sample(t time.Time, value string) models.SensorSample {
	return models.SensorSample{SampledAt: t, Value: value}
}

func TestClosestSample_WithinTolerance(t *testing.T) {
	samples := []models.SensorSample{
		sample(at(8, 0), "1600"),
		sample(at(9, 0), "1200"),
	}

	got := ClosestSample(samples, at(8, 3), 5*time.Minute)
	require.NotNil(t, got)
	assert.Equal(t, "1600", got.Value)
}

func TestClosestSample_ToleranceBoundaryRejected(t *testing.T) {
	samples := []models.SensorSample{sample(at(8, 0), "1600")}

	// Exactly at tolerance is a miss; acceptance is strictly below.
	got := ClosestSample(samples, at(8, 5), 5*time.Minute)
	assert.Nil(t, got)

	got = ClosestSample(samples, at(8, 4), 5*time.Minute)
	assert.NotNil(t, got)
}

func TestClosestSample_TieKeepsFirst(t *testing.T) {
	samples := []models.SensorSample{
		sample(at(8, 0), "first"),
		sample(at(8, 4), "second"),
	}

	// 08:02 is 2 minutes from both; the first encountered wins.
	got := ClosestSample(samples, at(8, 2), 5*time.Minute)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Value)
}

func TestClosestSample_EmptyChannel(t *testing.T) {
	assert.Nil(t, ClosestSample(nil, at(8, 0), 5*time.Minute))
}

func TestClosestSample_NothingWithinTolerance(t *testing.T) {
	samples := []models.SensorSample{
		sample(at(6, 0), "a"),
		sample(at(12, 0), "b"),
	}

	assert.Nil(t, ClosestSample(samples, at(9, 0), 5*time.Minute))
}
