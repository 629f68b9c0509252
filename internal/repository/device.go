package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

// PostgresDeviceRepository is the devices/sites registry access.
type PostgresDeviceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ DeviceRepository = (*PostgresDeviceRepository)(nil)

func NewDeviceRepository(db *sql.DB, logger *zap.Logger) *PostgresDeviceRepository {
	return &PostgresDeviceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresDeviceRepository) ListActive() ([]models.ActiveDevice, error) {
	query := `
		SELECT d.device_id, d.site_id, d.serial_number, d.device_name,
		       s.site_name, s.fuel_threshold_percent
		FROM devices d
		INNER JOIN sites s ON s.site_id = d.site_id
		WHERE d.active = TRUE
		ORDER BY s.site_name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active devices: %w", err)
	}
	defer rows.Close()

	var devices []models.ActiveDevice
	for rows.Next() {
		var d models.ActiveDevice
		if err := rows.Scan(&d.DeviceID, &d.SiteID, &d.SerialNumber, &d.DeviceName,
			&d.SiteName, &d.FuelThresholdPercent); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devices: %w", err)
	}

	return devices, nil
}

func (r *PostgresDeviceRepository) GetBySerial(serialNumber string) (*models.Device, error) {
	query := `
		SELECT device_id, site_id, serial_number, device_name, active, created_at
		FROM devices
		WHERE serial_number = $1
	`

	var d models.Device
	err := r.db.QueryRow(query, serialNumber).
		Scan(&d.DeviceID, &d.SiteID, &d.SerialNumber, &d.DeviceName, &d.Active, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query device by serial: %w", err)
	}

	return &d, nil
}

func (r *PostgresDeviceRepository) GetWithSite(deviceID string) (*models.ActiveDevice, error) {
	query := `
		SELECT d.device_id, d.site_id, d.serial_number, d.device_name,
		       s.site_name, s.fuel_threshold_percent
		FROM devices d
		INNER JOIN sites s ON s.site_id = d.site_id
		WHERE d.device_id = $1 AND d.active = TRUE
	`

	var d models.ActiveDevice
	err := r.db.QueryRow(query, deviceID).
		Scan(&d.DeviceID, &d.SiteID, &d.SerialNumber, &d.DeviceName,
			&d.SiteName, &d.FuelThresholdPercent)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query device: %w", err)
	}

	return &d, nil
}
