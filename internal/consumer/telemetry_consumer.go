// Package consumer ingests raw telemetry from MQTT into the sample log.
// Ingestion is optional: deployments where another writer feeds
// sensor_samples run with the consumer disabled.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/config"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/mqtt"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/repository"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/store"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/timeutil"
)

// TelemetryConsumer subscribes to the device data topic and appends every
// valid reading to the sample log, refreshing the realtime cache entry.
// Malformed payloads and unknown devices are logged and dropped; nothing
// from one message can stop the stream.
type TelemetryConsumer struct {
	config     *config.MQTTConfig
	mqttClient *mqtt.Client
	devices    repository.DeviceRepository
	samples    repository.SampleRepository
	cache      *store.LatestSampleCache
	clock      timeutil.Clock
	logger     *zap.Logger
}

func NewTelemetryConsumer(
	cfg *config.MQTTConfig,
	mqttClient *mqtt.Client,
	devices repository.DeviceRepository,
	samples repository.SampleRepository,
	cache *store.LatestSampleCache,
	clock timeutil.Clock,
	logger *zap.Logger,
) *TelemetryConsumer {
	return &TelemetryConsumer{
		config:     cfg,
		mqttClient: mqttClient,
		devices:    devices,
		samples:    samples,
		cache:      cache,
		clock:      clock,
		logger:     logger,
	}
}

// Start subscribes and blocks until the context is cancelled.
func (c *TelemetryConsumer) Start(ctx context.Context) error {
	if err := c.mqttClient.Subscribe(c.config.Topic, c.config.QoS, c.HandleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to telemetry topic: %w", err)
	}

	c.logger.Info("Telemetry consumer started",
		zap.String("topic", c.config.Topic),
	)

	<-ctx.Done()
	return nil
}

// Stop unsubscribes.
func (c *TelemetryConsumer) Stop(ctx context.Context) error {
	if err := c.mqttClient.Unsubscribe(c.config.Topic); err != nil {
		c.logger.Error("Failed to unsubscribe", zap.Error(err))
	}

	c.logger.Info("Telemetry consumer stopped")
	return nil
}

// telemetryMessage is the unit payload. Value is raw because firmware
// sends it both as a JSON string and as a bare number.
type telemetryMessage struct {
	Sensor string          `json:"sensor"`
	Value  json.RawMessage `json:"value"`
	Unit   string          `json:"unit"`
	Ts     int64           `json:"ts"`
}

// HandleMessage processes one inbound message.
// Topic format: telemetry/{serial_number}/data
func (c *TelemetryConsumer) HandleMessage(topic string, payload []byte) error {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		return fmt.Errorf("invalid topic format: %s", topic)
	}
	serialNumber := parts[1]

	var msg telemetryMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.logger.Warn("Failed to unmarshal telemetry message",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if !isTrackedSensor(msg.Sensor) {
		return fmt.Errorf("unknown sensor channel: %s", msg.Sensor)
	}

	device, err := c.devices.GetBySerial(serialNumber)
	if err != nil {
		c.logger.Warn("Device not found for telemetry message",
			zap.String("serial_number", serialNumber),
			zap.Error(err),
		)
		return fmt.Errorf("device not found: %s", serialNumber)
	}

	now := c.clock.Now()
	sampledAt := now
	if msg.Ts > 0 {
		sampledAt = time.Unix(msg.Ts, 0)
	}

	sample := &models.SensorSample{
		DeviceID:   device.DeviceID,
		SensorName: msg.Sensor,
		SampledAt:  sampledAt,
		Value:      normalizeValue(msg.Value),
		Unit:       msg.Unit,
		CreatedAt:  now,
	}

	if err := c.samples.Insert(sample); err != nil {
		return fmt.Errorf("failed to store sample: %w", err)
	}

	if err := c.cache.Set(context.Background(), sample); err != nil {
		c.logger.Warn("Failed to refresh realtime cache",
			zap.String("device_id", device.DeviceID),
			zap.Error(err),
		)
	}

	c.logger.Debug("Stored telemetry sample",
		zap.String("device_id", device.DeviceID),
		zap.String("sensor_name", msg.Sensor),
		zap.Time("sampled_at", sampledAt),
	)

	return nil
}

func isTrackedSensor(name string) bool {
	for _, tracked := range models.TrackedSensors {
		if name == tracked {
			return true
		}
	}
	return false
}

// normalizeValue strips JSON quoting so "62.5" and 62.5 store the same.
func normalizeValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
