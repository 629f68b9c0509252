package models

import "time"

// Site is one monitored location. Site CRUD belongs to the admin service;
// this subsystem reads sites for thresholds and display names only.
type Site struct {
	SiteID               string    `json:"site_id"`
	SiteName             string    `json:"site_name"`
	FuelThresholdPercent float64   `json:"fuel_threshold_percent"`
	CreatedAt            time.Time `json:"created_at"`
}

// Device is one telemetry unit, one-to-one with a site.
type Device struct {
	DeviceID     string    `json:"device_id"`
	SiteID       string    `json:"site_id"`
	SerialNumber string    `json:"serial_number"`
	DeviceName   string    `json:"device_name"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActiveDevice is a device joined with the site fields the engine needs
// (threshold for alert derivation, name for display/notification).
type ActiveDevice struct {
	DeviceID             string `json:"device_id"`
	SiteID               string `json:"site_id"`
	SerialNumber         string `json:"serial_number"`
	DeviceName           string `json:"device_name"`
	SiteName             string `json:"site_name"`
	FuelThresholdPercent float64 `json:"fuel_threshold_percent"`
}
