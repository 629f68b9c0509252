package repository

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

// PostgresSampleRepository is the sensor_samples table access.
type PostgresSampleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ SampleRepository = (*PostgresSampleRepository)(nil)

func NewSampleRepository(db *sql.DB, logger *zap.Logger) *PostgresSampleRepository {
	return &PostgresSampleRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresSampleRepository) QueryRange(deviceID, sensorName string, from, to time.Time) ([]models.SensorSample, error) {
	query := `
		SELECT id, device_id, sensor_name, sampled_at, value, unit, created_at
		FROM sensor_samples
		WHERE device_id = $1
		  AND sensor_name = $2
		  AND sampled_at >= $3
		  AND sampled_at < $4
		ORDER BY sampled_at ASC
	`

	rows, err := r.db.Query(query, deviceID, sensorName, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []models.SensorSample
	for rows.Next() {
		var s models.SensorSample
		if err := rows.Scan(&s.ID, &s.DeviceID, &s.SensorName, &s.SampledAt, &s.Value, &s.Unit, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate samples: %w", err)
	}

	return samples, nil
}

func (r *PostgresSampleRepository) QueryLatestBefore(deviceID, sensorName string, before time.Time) (*models.SensorSample, error) {
	query := `
		SELECT id, device_id, sensor_name, sampled_at, value, unit, created_at
		FROM sensor_samples
		WHERE device_id = $1
		  AND sensor_name = $2
		  AND sampled_at < $3
		ORDER BY sampled_at DESC
		LIMIT 1
	`

	var s models.SensorSample
	err := r.db.QueryRow(query, deviceID, sensorName, before).
		Scan(&s.ID, &s.DeviceID, &s.SensorName, &s.SampledAt, &s.Value, &s.Unit, &s.CreatedAt)
	if err == sql.ErrNoRows {
		// No prior sample is a normal outcome, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest sample: %w", err)
	}

	return &s, nil
}

func (r *PostgresSampleRepository) Insert(sample *models.SensorSample) error {
	query := `
		INSERT INTO sensor_samples (device_id, sensor_name, sampled_at, value, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(query,
		sample.DeviceID,
		sample.SensorName,
		sample.SampledAt,
		sample.Value,
		sample.Unit,
		sample.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}

	return nil
}
