package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/config"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/consumer"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/database"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/engine"
	httpapi "github.com/taboz-tech/FuelMonitorHub-sub000/internal/http"
	mqttpkg "github.com/taboz-tech/FuelMonitorHub-sub000/internal/mqtt"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/repository"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/store"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/timeutil"
)

// Monitor is the top-level service: it owns the connections, wires the
// capture/scheduler/dashboard stack, and runs the HTTP edge plus the
// optional telemetry consumer.
type Monitor struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
	mqttClient  *mqttpkg.Client
	consumer    *consumer.TelemetryConsumer
	capture     *CaptureService
	scheduler   *CaptureScheduler
	dashboard   *DashboardService
	httpServer  *http.Server
}

// NewMonitor connects, migrates and wires everything. Nothing is started.
func NewMonitor(cfg *config.Config, logger *zap.Logger) (*Monitor, error) {
	loc, err := time.LoadLocation(cfg.Capture.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", cfg.Capture.Timezone, err)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db, logger); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	kv := store.NewRedisKVStore(redisClient)
	cache := store.NewLatestSampleCache(kv,
		time.Duration(cfg.Capture.CacheTTLSeconds)*time.Second, logger)

	deviceRepo := repository.NewDeviceRepository(db, logger)
	sampleRepo := repository.NewSampleRepository(db, logger)
	snapshotRepo := repository.NewSnapshotRepository(db, logger)

	clock := timeutil.RealClock{}
	tolerance := time.Duration(cfg.Capture.ToleranceMinutes) * time.Minute

	var notifier Notifier
	if cfg.Alerts.WebhookURL != "" {
		notifier = NewAlertNotifier(cfg.Alerts.WebhookURL,
			time.Duration(cfg.Alerts.TimeoutSeconds)*time.Second, logger)
	}

	capture := NewCaptureService(deviceRepo, sampleRepo, snapshotRepo, notifier, clock, loc, logger)
	scheduler := NewCaptureScheduler(capture, clock,
		cfg.Capture.Hour, cfg.Capture.Minute, loc, cfg.Capture.OnStart, logger)
	dashboard := NewDashboardService(deviceRepo, sampleRepo, snapshotRepo, cache,
		clock, loc, tolerance, engine.GeneratorPriority, logger)

	handler := httpapi.NewHandler(capture, dashboard, clock, loc, cfg.HTTP.APIKey, logger)
	router := httpapi.NewRouter(handler)
	httpServer := &http.Server{
		Addr:    cfg.HTTP.ListenAddr,
		Handler: handlers.LoggingHandler(os.Stdout, router),
	}

	m := &Monitor{
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
		capture:     capture,
		scheduler:   scheduler,
		dashboard:   dashboard,
		httpServer:  httpServer,
	}

	if cfg.MQTT.Enabled {
		mqttClient, err := mqttpkg.NewClient(&cfg.MQTT, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		m.mqttClient = mqttClient
		m.consumer = consumer.NewTelemetryConsumer(&cfg.MQTT, mqttClient,
			deviceRepo, sampleRepo, cache, clock, logger)
	}

	return m, nil
}

// Start runs the HTTP server, the scheduler, and the consumer when
// enabled. Blocks until the context is cancelled or a component fails.
func (m *Monitor) Start(ctx context.Context) error {
	m.logger.Info("Starting fuel monitor service",
		zap.String("listen_addr", m.config.HTTP.ListenAddr),
		zap.Bool("mqtt_enabled", m.config.MQTT.Enabled),
	)

	errChan := make(chan error, 2)

	go func() {
		if err := m.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	go func() {
		if err := m.scheduler.Start(ctx); err != nil {
			errChan <- fmt.Errorf("scheduler failed: %w", err)
		}
	}()

	if m.consumer != nil {
		go func() {
			if err := m.consumer.Start(ctx); err != nil {
				errChan <- fmt.Errorf("telemetry consumer failed: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errChan:
		return err
	}
}

// Stop shuts everything down gracefully.
func (m *Monitor) Stop(ctx context.Context) error {
	m.logger.Info("Stopping fuel monitor service")

	if err := m.httpServer.Shutdown(ctx); err != nil {
		m.logger.Error("Error shutting down HTTP server", zap.Error(err))
	}

	if m.consumer != nil {
		if err := m.consumer.Stop(ctx); err != nil {
			m.logger.Error("Error stopping telemetry consumer", zap.Error(err))
		}
	}
	if m.mqttClient != nil {
		m.mqttClient.Disconnect()
	}

	if m.redisClient != nil {
		if err := m.redisClient.Close(); err != nil {
			m.logger.Error("Error closing redis connection", zap.Error(err))
		}
	}

	if m.db != nil {
		if err := m.db.Close(); err != nil {
			m.logger.Error("Error closing database connection", zap.Error(err))
		}
	}

	m.logger.Info("Fuel monitor service stopped")
	return nil
}
