// Package repository holds the storage interfaces and their PostgreSQL
// implementations. Services depend on the interfaces; tests swap in fakes.
package repository

import (
	"errors"
	"time"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

// ErrNotFound means the requested row does not exist.
var ErrNotFound = errors.New("not found")

// SampleRepository is the read/append surface over the raw sample log.
type SampleRepository interface {
	// QueryRange returns one channel's samples in [from, to), ascending.
	QueryRange(deviceID, sensorName string, from, to time.Time) ([]models.SensorSample, error)
	// QueryLatestBefore returns the single most recent sample strictly
	// before the given instant, or nil when the channel has no history.
	QueryLatestBefore(deviceID, sensorName string, before time.Time) (*models.SensorSample, error)
	// Insert appends one sample.
	Insert(sample *models.SensorSample) error
}

// SnapshotRepository persists and reads daily closing snapshots.
type SnapshotRepository interface {
	// Exists reports whether a snapshot exists for the device's calendar day.
	Exists(deviceID string, day time.Time) (bool, error)
	// InsertIfAbsent atomically creates the snapshot unless one already
	// exists for (device, day). Returns whether a row was inserted; a lost
	// race is a normal false, never an error.
	InsertIfAbsent(snapshot *models.DailySnapshot) (bool, error)
	// LatestBySite returns the site's most recent snapshot joined with
	// site fields, or nil when the site has none.
	LatestBySite(siteID string) (*models.SnapshotWithSite, error)
	// LatestPerSite returns every site's most recent snapshot.
	LatestPerSite() ([]models.SnapshotWithSite, error)
}

// DeviceRepository reads the device/site registry (owned by the admin
// service; read-only here).
type DeviceRepository interface {
	// ListActive returns every active device joined with its site.
	ListActive() ([]models.ActiveDevice, error)
	// GetBySerial resolves a device by its telemetry serial number.
	GetBySerial(serialNumber string) (*models.Device, error)
	// GetWithSite returns one active device joined with its site.
	GetWithSite(deviceID string) (*models.ActiveDevice, error)
}
