package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

// LatestSampleCache keeps the most recent sample per device channel in the
// KV store so the realtime view does not hit PostgreSQL on every request.
// Entries expire after a short TTL; a miss falls back to the sample log.
type LatestSampleCache struct {
	kv     KVStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewLatestSampleCache(kv KVStore, ttl time.Duration, logger *zap.Logger) *LatestSampleCache {
	return &LatestSampleCache{
		kv:     kv,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(deviceID, sensorName string) string {
	return fmt.Sprintf("fuelhub:device:%s:latest:%s", deviceID, sensorName)
}

// Get returns the cached latest sample, or ErrCacheMiss.
func (c *LatestSampleCache) Get(ctx context.Context, deviceID, sensorName string) (*models.SensorSample, error) {
	raw, err := c.kv.Get(ctx, cacheKey(deviceID, sensorName))
	if err != nil {
		return nil, err
	}

	var sample models.SensorSample
	if err := json.Unmarshal([]byte(raw), &sample); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached sample: %w", err)
	}
	return &sample, nil
}

// Set stores a sample as the channel's latest reading.
func (c *LatestSampleCache) Set(ctx context.Context, sample *models.SensorSample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}

	key := cacheKey(sample.DeviceID, sample.SensorName)
	if err := c.kv.Set(ctx, key, string(data), c.ttl); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	c.logger.Debug("Updated latest sample cache",
		zap.String("device_id", sample.DeviceID),
		zap.String("sensor_name", sample.SensorName),
	)
	return nil
}
