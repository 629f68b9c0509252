package models

import "time"

// Alert statuses derived for the dashboard.
const (
	AlertNormal       = "normal"
	AlertLowFuel      = "low_fuel"
	AlertGeneratorOff = "generator_off"
)

// SiteClosingView is the dashboard row derived from a site's latest
// daily snapshot ("closing" mode).
type SiteClosingView struct {
	SiteID           string    `json:"site_id"`
	SiteName         string    `json:"site_name"`
	DeviceID         string    `json:"device_id"`
	FuelLevelPercent float64   `json:"fuel_level_percent"`
	FuelVolume       float64   `json:"fuel_volume"`
	Temperature      *float64  `json:"temperature"`
	GeneratorOnline  bool      `json:"generator_online"`
	ZesaOnline       bool      `json:"zesa_online"`
	AlertStatus      string    `json:"alert_status"`
	Online           bool      `json:"online"`
	CapturedAt       time.Time `json:"captured_at"`
}

// ChannelReading is the latest reading of one sensor channel.
type ChannelReading struct {
	Value     string    `json:"value"`
	Unit      string    `json:"unit"`
	SampledAt time.Time `json:"sampled_at"`
}

// RealtimeDeviceView is the live read path: per-channel latest samples
// resolved at the instant of the request. Privileged callers only.
type RealtimeDeviceView struct {
	DeviceID         string                    `json:"device_id"`
	SiteID           string                    `json:"site_id"`
	SiteName         string                    `json:"site_name"`
	Readings         map[string]ChannelReading `json:"readings"`
	FuelLevelPercent float64                   `json:"fuel_level_percent"`
	FuelVolume       float64                   `json:"fuel_volume"`
	GeneratorOnline  bool                      `json:"generator_online"`
	ZesaOnline       bool                      `json:"zesa_online"`
	AlertStatus      string                    `json:"alert_status"`
	ResolvedAt       time.Time                 `json:"resolved_at"`
}

// SitesOverview is the dashboard landing payload: every site's closing
// view plus online/total counts. A site with no meaningful fuel signal
// (percent == 0 and volume <= 0) stays in the total but not in online.
type SitesOverview struct {
	TotalSites  int               `json:"total_sites"`
	OnlineSites int               `json:"online_sites"`
	Sites       []SiteClosingView `json:"sites"`
}
