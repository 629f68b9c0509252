package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/repository"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/store"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/timeutil"
)

// In-memory fakes for the repository interfaces and the clock.
// Unit tests only.

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	fires chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, fires: make(chan time.Time, 1)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Timer(d time.Duration) timeutil.Timer {
	return &fakeTimer{ch: c.fires}
}

type fakeTimer struct {
	ch chan time.Time
}

func (t *fakeTimer) Chan() <-chan time.Time { return t.ch }
func (t *fakeTimer) Stop()                  {}

type fakeDeviceRepo struct {
	devices []models.ActiveDevice
	listErr error
}

func (r *fakeDeviceRepo) ListActive() ([]models.ActiveDevice, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.devices, nil
}

func (r *fakeDeviceRepo) GetBySerial(serialNumber string) (*models.Device, error) {
	for _, d := range r.devices {
		if d.SerialNumber == serialNumber {
			return &models.Device{
				DeviceID: d.DeviceID, SiteID: d.SiteID,
				SerialNumber: d.SerialNumber, DeviceName: d.DeviceName, Active: true,
			}, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeDeviceRepo) GetWithSite(deviceID string) (*models.ActiveDevice, error) {
	for i := range r.devices {
		if r.devices[i].DeviceID == deviceID {
			return &r.devices[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

var (
	_ repository.DeviceRepository   = (*fakeDeviceRepo)(nil)
	_ repository.SampleRepository   = (*fakeSampleRepo)(nil)
	_ repository.SnapshotRepository = (*fakeSnapshotRepo)(nil)
)

type fakeSampleRepo struct {
	mu      sync.Mutex
	samples map[string][]models.SensorSample // key device|sensor
	failFor map[string]error                 // key deviceID
}

func newFakeSampleRepo() *fakeSampleRepo {
	return &fakeSampleRepo{
		samples: make(map[string][]models.SensorSample),
		failFor: make(map[string]error),
	}
}

func sampleKey(deviceID, sensorName string) string {
	return deviceID + "|" + sensorName
}

func (r *fakeSampleRepo) add(deviceID, sensorName string, at time.Time, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sampleKey(deviceID, sensorName)
	r.samples[key] = append(r.samples[key], models.SensorSample{
		DeviceID: deviceID, SensorName: sensorName, SampledAt: at, Value: value,
	})
	sort.Slice(r.samples[key], func(i, j int) bool {
		return r.samples[key][i].SampledAt.Before(r.samples[key][j].SampledAt)
	})
}

func (r *fakeSampleRepo) QueryRange(deviceID, sensorName string, from, to time.Time) ([]models.SensorSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failFor[deviceID]; err != nil {
		return nil, err
	}

	var out []models.SensorSample
	for _, s := range r.samples[sampleKey(deviceID, sensorName)] {
		if !s.SampledAt.Before(from) && s.SampledAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSampleRepo) QueryLatestBefore(deviceID, sensorName string, before time.Time) (*models.SensorSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failFor[deviceID]; err != nil {
		return nil, err
	}

	var latest *models.SensorSample
	for i, s := range r.samples[sampleKey(deviceID, sensorName)] {
		if s.SampledAt.Before(before) {
			latest = &r.samples[sampleKey(deviceID, sensorName)][i]
		}
	}
	return latest, nil
}

func (r *fakeSampleRepo) Insert(sample *models.SensorSample) error {
	r.add(sample.DeviceID, sample.SensorName, sample.SampledAt, sample.Value)
	return nil
}

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	rows      map[string]models.DailySnapshot // key device|date
	sites     map[string]models.Site
	existsErr error
	insertErr error
	latestErr error
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{
		rows:  make(map[string]models.DailySnapshot),
		sites: make(map[string]models.Site),
	}
}

func snapshotKey(deviceID string, day time.Time) string {
	return deviceID + "|" + day.Format("2006-01-02")
}

func (r *fakeSnapshotRepo) Exists(deviceID string, day time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.rows[snapshotKey(deviceID, day)]
	return ok, nil
}

func (r *fakeSnapshotRepo) InsertIfAbsent(snapshot *models.DailySnapshot) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return false, r.insertErr
	}
	key := snapshotKey(snapshot.DeviceID, snapshot.SnapshotDate)
	if _, ok := r.rows[key]; ok {
		return false, nil
	}
	r.rows[key] = *snapshot
	return true, nil
}

func (r *fakeSnapshotRepo) withSite(snap models.DailySnapshot) models.SnapshotWithSite {
	site := r.sites[snap.SiteID]
	return models.SnapshotWithSite{
		DailySnapshot:        snap,
		SiteName:             site.SiteName,
		FuelThresholdPercent: site.FuelThresholdPercent,
	}
}

func (r *fakeSnapshotRepo) LatestBySite(siteID string) (*models.SnapshotWithSite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latestErr != nil {
		return nil, r.latestErr
	}

	var latest *models.DailySnapshot
	for _, snap := range r.rows {
		snap := snap
		if snap.SiteID != siteID {
			continue
		}
		if latest == nil || snap.SnapshotDate.After(latest.SnapshotDate) {
			latest = &snap
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := r.withSite(*latest)
	return &out, nil
}

func (r *fakeSnapshotRepo) LatestPerSite() ([]models.SnapshotWithSite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latestErr != nil {
		return nil, r.latestErr
	}

	bySite := make(map[string]models.DailySnapshot)
	for _, snap := range r.rows {
		cur, ok := bySite[snap.SiteID]
		if !ok || snap.SnapshotDate.After(cur.SnapshotDate) {
			bySite[snap.SiteID] = snap
		}
	}

	siteIDs := make([]string, 0, len(bySite))
	for id := range bySite {
		siteIDs = append(siteIDs, id)
	}
	sort.Strings(siteIDs)

	out := make([]models.SnapshotWithSite, 0, len(bySite))
	for _, id := range siteIDs {
		out = append(out, r.withSite(bySite[id]))
	}
	return out, nil
}

func (r *fakeSnapshotRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []*AlertEvent
	err    error
}

func (n *fakeNotifier) Notify(event *AlertEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

// fakeKVStore backs the realtime cache in dashboard tests.
type fakeKVStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKVStore() *fakeKVStore {
	return &fakeKVStore{data: make(map[string]string)}
}

func (f *fakeKVStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}
