package models

// PowerState is the resolved power source of a site at an instant.
// States are mutually exclusive; resolution from the two raw channels
// is a policy decision, never inferred implicitly.
type PowerState string

const (
	PowerGenerator PowerState = "generator"
	PowerGrid      PowerState = "grid"
	PowerOffline   PowerState = "offline"
)

// FuelDeltaResult is the per-day fuel movement for one device.
// Volumes are liters rounded to 1 decimal, percents rounded to 2 decimals;
// all fields are >= 0.
type FuelDeltaResult struct {
	ConsumedVolume  float64 `json:"consumed_volume"`
	ToppedVolume    float64 `json:"topped_volume"`
	ConsumedPercent float64 `json:"consumed_percent"`
	ToppedPercent   float64 `json:"topped_percent"`
}

// PowerRuntimeResult is the per-day power source breakdown for one device.
// Invariant: GeneratorHours + GridHours + OfflineHours == ElapsedHours
// (to 2 decimals) after bucket closure.
type PowerRuntimeResult struct {
	GeneratorHours float64 `json:"generator_hours"`
	GridHours      float64 `json:"grid_hours"`
	OfflineHours   float64 `json:"offline_hours"`
	ElapsedHours   float64 `json:"elapsed_hours"`
}

// DayUsageReport combines fuel and power results for one calendar day.
type DayUsageReport struct {
	Date  string             `json:"date"`
	Fuel  FuelDeltaResult    `json:"fuel"`
	Power PowerRuntimeResult `json:"power"`
}
