package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/engine"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/repository"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/store"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/timeutil"
)

// DashboardService derives the presentation reads: closing views from
// daily snapshots, the privileged realtime view from latest samples, and
// per-day usage reports reconstructed from the raw sample log.
type DashboardService struct {
	devices   repository.DeviceRepository
	samples   repository.SampleRepository
	snapshots repository.SnapshotRepository
	cache     *store.LatestSampleCache
	clock     timeutil.Clock
	loc       *time.Location
	tolerance time.Duration
	policy    engine.PrecedencePolicy
	logger    *zap.Logger
}

func NewDashboardService(
	devices repository.DeviceRepository,
	samples repository.SampleRepository,
	snapshots repository.SnapshotRepository,
	cache *store.LatestSampleCache,
	clock timeutil.Clock,
	loc *time.Location,
	tolerance time.Duration,
	policy engine.PrecedencePolicy,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		devices:   devices,
		samples:   samples,
		snapshots: snapshots,
		cache:     cache,
		clock:     clock,
		loc:       loc,
		tolerance: tolerance,
		policy:    policy,
		logger:    logger,
	}
}

// LatestByClosing returns the site's view derived from its most recent
// daily snapshot, or nil when the site has never been captured.
func (s *DashboardService) LatestByClosing(siteID string) (*models.SiteClosingView, error) {
	snap, err := s.snapshots.LatestBySite(siteID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}

	view := closingView(snap)
	return &view, nil
}

// Overview returns every site's closing view with online/total counts.
func (s *DashboardService) Overview() (*models.SitesOverview, error) {
	snapshots, err := s.snapshots.LatestPerSite()
	if err != nil {
		return nil, err
	}

	overview := &models.SitesOverview{
		TotalSites: len(snapshots),
		Sites:      make([]models.SiteClosingView, 0, len(snapshots)),
	}
	for i := range snapshots {
		view := closingView(&snapshots[i])
		if view.Online {
			overview.OnlineSites++
		}
		overview.Sites = append(overview.Sites, view)
	}

	return overview, nil
}

// LatestByRealtime resolves the device's per-channel latest samples at the
// current instant, preferring the cache and falling back to the sample
// log. Privileged callers only; the HTTP edge enforces that.
func (s *DashboardService) LatestByRealtime(ctx context.Context, deviceID string) (*models.RealtimeDeviceView, error) {
	device, err := s.devices.GetWithSite(deviceID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	view := &models.RealtimeDeviceView{
		DeviceID:   device.DeviceID,
		SiteID:     device.SiteID,
		SiteName:   device.SiteName,
		Readings:   make(map[string]models.ChannelReading),
		ResolvedAt: now,
	}

	var generatorOnline bool
	for _, sensorName := range models.TrackedSensors {
		sample, err := s.latestSample(ctx, deviceID, sensorName, now)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", sensorName, err)
		}
		if sample == nil {
			continue
		}

		view.Readings[sensorName] = models.ChannelReading{
			Value:     sample.Value,
			Unit:      sample.Unit,
			SampledAt: sample.SampledAt,
		}

		switch sensorName {
		case models.SensorFuelLevel:
			if v, ok := sample.NumericValue(); ok {
				view.FuelLevelPercent = engine.ClampPercent(v)
			}
		case models.SensorFuelVolume:
			if v, ok := sample.NumericValue(); ok {
				view.FuelVolume = v
			}
		case models.SensorGeneratorState:
			generatorOnline = engine.IsOnToken(sample.Value)
		case models.SensorZesaState:
			view.ZesaOnline = engine.IsOnToken(sample.Value)
		}
	}

	view.GeneratorOnline = generatorOnline
	view.AlertStatus = engine.ResolveAlert(view.FuelLevelPercent, generatorOnline, device.FuelThresholdPercent)

	return view, nil
}

func (s *DashboardService) latestSample(ctx context.Context, deviceID, sensorName string, now time.Time) (*models.SensorSample, error) {
	cached, err := s.cache.Get(ctx, deviceID, sensorName)
	if err == nil {
		return cached, nil
	}
	if err != store.ErrCacheMiss {
		// A broken cache must not take down the realtime view.
		s.logger.Warn("Realtime cache read failed", zap.Error(err))
	}

	sample, err := s.samples.QueryLatestBefore(deviceID, sensorName, now)
	if err != nil {
		return nil, err
	}
	if sample != nil {
		if err := s.cache.Set(ctx, sample); err != nil {
			s.logger.Warn("Realtime cache write failed", zap.Error(err))
		}
	}
	return sample, nil
}

// ComputeRange reconstructs fuel and power usage per calendar day over
// [startDate, endDate], using the same day-window rule as the capture.
func (s *DashboardService) ComputeRange(deviceID string, startDate, endDate time.Time) ([]models.DayUsageReport, error) {
	now := s.clock.Now()

	var reports []models.DayUsageReport
	for day := timeutil.DayStart(startDate, s.loc); !day.After(timeutil.DayStart(endDate, s.loc)); day = day.AddDate(0, 0, 1) {
		report, err := s.computeDay(deviceID, day, now)
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s: %w", day.Format("2006-01-02"), err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (s *DashboardService) computeDay(deviceID string, day, now time.Time) (models.DayUsageReport, error) {
	start, end := timeutil.DayWindow(day, now, s.loc)

	levels, err := s.samples.QueryRange(deviceID, models.SensorFuelLevel, start, end)
	if err != nil {
		return models.DayUsageReport{}, err
	}
	volumes, err := s.samples.QueryRange(deviceID, models.SensorFuelVolume, start, end)
	if err != nil {
		return models.DayUsageReport{}, err
	}
	generator, err := s.samples.QueryRange(deviceID, models.SensorGeneratorState, start, end)
	if err != nil {
		return models.DayUsageReport{}, err
	}
	zesa, err := s.samples.QueryRange(deviceID, models.SensorZesaState, start, end)
	if err != nil {
		return models.DayUsageReport{}, err
	}

	generatorSeed, err := s.samples.QueryLatestBefore(deviceID, models.SensorGeneratorState, start)
	if err != nil {
		return models.DayUsageReport{}, err
	}
	zesaSeed, err := s.samples.QueryLatestBefore(deviceID, models.SensorZesaState, start)
	if err != nil {
		return models.DayUsageReport{}, err
	}

	fuel := engine.FuelDeltas(levels, volumes, s.tolerance)

	timeline := engine.BuildPowerTimeline(generator, zesa, generatorSeed, zesaSeed, start, end)
	power, clamped := engine.AccumulatePowerRuntime(timeline, s.policy)
	if clamped {
		s.logger.Warn("Offline bucket clamped to zero during reconciliation",
			zap.String("device_id", deviceID),
			zap.String("date", start.Format("2006-01-02")),
		)
	}

	return models.DayUsageReport{
		Date:  start.Format("2006-01-02"),
		Fuel:  fuel,
		Power: power,
	}, nil
}

func closingView(snap *models.SnapshotWithSite) models.SiteClosingView {
	var level, volume float64
	var temperature *float64
	if snap.FuelLevel != nil {
		level = engine.ClampPercent(*snap.FuelLevel)
	}
	if snap.FuelVolume != nil {
		volume = *snap.FuelVolume
	}
	if snap.Temperature != nil {
		t := *snap.Temperature
		temperature = &t
	}

	generatorOnline := snap.GeneratorState != nil && engine.IsOnToken(*snap.GeneratorState)
	zesaOnline := snap.ZesaState != nil && engine.IsOnToken(*snap.ZesaState)

	return models.SiteClosingView{
		SiteID:           snap.SiteID,
		SiteName:         snap.SiteName,
		DeviceID:         snap.DeviceID,
		FuelLevelPercent: level,
		FuelVolume:       volume,
		Temperature:      temperature,
		GeneratorOnline:  generatorOnline,
		ZesaOnline:       zesaOnline,
		AlertStatus:      engine.ResolveAlert(level, generatorOnline, snap.FuelThresholdPercent),
		Online:           engine.HasSignal(level, volume),
		CapturedAt:       snap.CapturedAt,
	}
}
