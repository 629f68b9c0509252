package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/engine"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/repository"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/timeutil"
)

// Notifier pushes an alert raised by a capture. Implementations must be
// safe to call from the capture loop; failures are logged, never fatal.
type Notifier interface {
	Notify(event *AlertEvent) error
}

// AlertEvent is the webhook payload for a site needing attention.
type AlertEvent struct {
	SiteID           string    `json:"site_id"`
	SiteName         string    `json:"site_name"`
	DeviceID         string    `json:"device_id"`
	Status           string    `json:"status"`
	FuelLevelPercent float64   `json:"fuel_level_percent"`
	FuelVolume       float64   `json:"fuel_volume"`
	CapturedAt       time.Time `json:"captured_at"`
}

// CaptureService writes the once-daily closing snapshot for every active
// device. Scheduled and manual/historical invocations share this code
// path; the only difference is the target date.
type CaptureService struct {
	devices   repository.DeviceRepository
	samples   repository.SampleRepository
	snapshots repository.SnapshotRepository
	notifier  Notifier // nil disables alerts
	clock     timeutil.Clock
	loc       *time.Location
	logger    *zap.Logger
}

func NewCaptureService(
	devices repository.DeviceRepository,
	samples repository.SampleRepository,
	snapshots repository.SnapshotRepository,
	notifier Notifier,
	clock timeutil.Clock,
	loc *time.Location,
	logger *zap.Logger,
) *CaptureService {
	return &CaptureService{
		devices:   devices,
		samples:   samples,
		snapshots: snapshots,
		notifier:  notifier,
		clock:     clock,
		loc:       loc,
		logger:    logger,
	}
}

// RunDailyCapture captures targetDate's snapshot for every active device.
// One device's failure is logged and counted; the batch always continues.
// The only hard failure is being unable to list devices at all.
func (s *CaptureService) RunDailyCapture(ctx context.Context, targetDate time.Time) (models.CaptureReport, error) {
	now := s.clock.Now()
	dayStart, capturedAt := timeutil.DayWindow(targetDate, now, s.loc)

	s.logger.Info("Starting daily capture",
		zap.String("target_date", dayStart.Format("2006-01-02")),
		zap.Time("captured_at", capturedAt),
	)

	devices, err := s.devices.ListActive()
	if err != nil {
		return models.CaptureReport{}, fmt.Errorf("failed to list active devices: %w", err)
	}

	var report models.CaptureReport
	for _, device := range devices {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		inserted, err := s.captureDevice(device, dayStart, capturedAt, now)
		if err != nil {
			s.logger.Error("Failed to capture device",
				zap.String("device_id", device.DeviceID),
				zap.String("site_name", device.SiteName),
				zap.Error(err),
			)
			report.Failed++
			continue
		}
		if inserted {
			report.Processed++
		} else {
			report.Skipped++
		}
	}

	s.logger.Info("Completed daily capture",
		zap.String("target_date", dayStart.Format("2006-01-02")),
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

// captureDevice writes one device's snapshot. Returns false when the day
// was already captured, including when a concurrent trigger won the
// insert race.
func (s *CaptureService) captureDevice(device models.ActiveDevice, day, capturedAt, now time.Time) (bool, error) {
	exists, err := s.snapshots.Exists(device.DeviceID, day)
	if err != nil {
		return false, fmt.Errorf("failed to check snapshot: %w", err)
	}
	if exists {
		return false, nil
	}

	snap := &models.DailySnapshot{
		SnapshotID:   uuid.NewString(),
		SiteID:       device.SiteID,
		DeviceID:     device.DeviceID,
		SnapshotDate: day,
		CapturedAt:   capturedAt,
		CreatedAt:    now,
	}

	// Each channel is fetched independently; a silent channel stays NULL.
	for _, sensorName := range models.TrackedSensors {
		sample, err := s.samples.QueryLatestBefore(device.DeviceID, sensorName, capturedAt)
		if err != nil {
			return false, fmt.Errorf("failed to fetch %s: %w", sensorName, err)
		}
		if sample == nil {
			continue
		}

		switch sensorName {
		case models.SensorFuelLevel:
			if v, ok := sample.NumericValue(); ok {
				snap.FuelLevel = &v
			}
		case models.SensorFuelVolume:
			if v, ok := sample.NumericValue(); ok {
				snap.FuelVolume = &v
			}
		case models.SensorTemperature:
			if v, ok := sample.NumericValue(); ok {
				snap.Temperature = &v
			}
		case models.SensorGeneratorState:
			value := sample.Value
			snap.GeneratorState = &value
		case models.SensorZesaState:
			value := sample.Value
			snap.ZesaState = &value
		}
	}

	inserted, err := s.snapshots.InsertIfAbsent(snap)
	if err != nil {
		return false, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if inserted {
		s.maybeAlert(device, snap)
	}
	return inserted, nil
}

func (s *CaptureService) maybeAlert(device models.ActiveDevice, snap *models.DailySnapshot) {
	if s.notifier == nil {
		return
	}

	var level, volume float64
	if snap.FuelLevel != nil {
		level = engine.ClampPercent(*snap.FuelLevel)
	}
	if snap.FuelVolume != nil {
		volume = *snap.FuelVolume
	}
	generatorOnline := snap.GeneratorState != nil && engine.IsOnToken(*snap.GeneratorState)

	// A site with no fuel signal has nothing actionable to alert on.
	if !engine.HasSignal(level, volume) {
		return
	}

	status := engine.ResolveAlert(level, generatorOnline, device.FuelThresholdPercent)
	if status == models.AlertNormal {
		return
	}

	event := &AlertEvent{
		SiteID:           device.SiteID,
		SiteName:         device.SiteName,
		DeviceID:         device.DeviceID,
		Status:           status,
		FuelLevelPercent: level,
		FuelVolume:       volume,
		CapturedAt:       snap.CapturedAt,
	}
	if err := s.notifier.Notify(event); err != nil {
		s.logger.Error("Failed to send alert",
			zap.String("site_name", device.SiteName),
			zap.String("status", status),
			zap.Error(err),
		)
	}
}
