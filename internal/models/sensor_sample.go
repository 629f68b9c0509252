package models

import (
	"strconv"
	"time"
)

// Tracked sensor channels. Every device publishes up to five channels;
// each channel reports independently at irregular times.
const (
	SensorFuelLevel      = "fuel_level"      // percent of tank capacity
	SensorFuelVolume     = "fuel_volume"     // liters
	SensorTemperature    = "temperature"     // degrees Celsius
	SensorGeneratorState = "generator_state" // on/off token
	SensorZesaState      = "zesa_state"      // on/off token (grid/mains)
)

// TrackedSensors lists every channel captured into a daily snapshot.
var TrackedSensors = []string{
	SensorFuelLevel,
	SensorFuelVolume,
	SensorTemperature,
	SensorGeneratorState,
	SensorZesaState,
}

// SensorSample is one raw reading from a telemetry unit. Samples are
// append-only; values are stored verbatim as text and interpreted downstream.
type SensorSample struct {
	ID         int64     `json:"id"`
	DeviceID   string    `json:"device_id"`
	SensorName string    `json:"sensor_name"`
	SampledAt  time.Time `json:"sampled_at"`
	Value      string    `json:"value"`
	Unit       string    `json:"unit"`
	CreatedAt  time.Time `json:"created_at"`
}

// NumericValue parses the sample value as a float. Returns false for
// non-numeric tokens (state channels, corrupt readings).
func (s *SensorSample) NumericValue() (float64, bool) {
	v, err := strconv.ParseFloat(s.Value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
