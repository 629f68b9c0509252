package models

import "time"

// DailySnapshot is the immutable once-per-day closing record for one device.
// Exactly one row may exist per (device_id, snapshot_date); the uniqueness
// constraint in storage is the idempotency guard, not application code.
// Channel fields are nullable: a channel that never reported stays NULL.
type DailySnapshot struct {
	SnapshotID     string    `json:"snapshot_id"`
	SiteID         string    `json:"site_id"`
	DeviceID       string    `json:"device_id"`
	SnapshotDate   time.Time `json:"snapshot_date"`
	FuelLevel      *float64  `json:"fuel_level"`
	FuelVolume     *float64  `json:"fuel_volume"`
	Temperature    *float64  `json:"temperature"`
	GeneratorState *string   `json:"generator_state"`
	ZesaState      *string   `json:"zesa_state"`
	CapturedAt     time.Time `json:"captured_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// SnapshotWithSite is a snapshot joined with its site (for view derivation).
type SnapshotWithSite struct {
	DailySnapshot
	SiteName             string  `json:"site_name"`
	FuelThresholdPercent float64 `json:"fuel_threshold_percent"`
}

// CaptureReport is the per-run tally returned by the daily capture batch.
type CaptureReport struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
