package repository

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

// PostgresSnapshotRepository is the daily_snapshots table access.
type PostgresSnapshotRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ SnapshotRepository = (*PostgresSnapshotRepository)(nil)

func NewSnapshotRepository(db *sql.DB, logger *zap.Logger) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresSnapshotRepository) Exists(deviceID string, day time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM daily_snapshots
			WHERE device_id = $1 AND snapshot_date = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(query, deviceID, day.Format("2006-01-02")).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check snapshot existence: %w", err)
	}

	return exists, nil
}

// InsertIfAbsent relies on the (device_id, snapshot_date) unique constraint:
// ON CONFLICT DO NOTHING makes concurrent triggers race-safe without a
// check-then-insert window.
func (r *PostgresSnapshotRepository) InsertIfAbsent(snapshot *models.DailySnapshot) (bool, error) {
	query := `
		INSERT INTO daily_snapshots (
			snapshot_id, site_id, device_id, snapshot_date,
			fuel_level, fuel_volume, temperature, generator_state, zesa_state,
			captured_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (device_id, snapshot_date) DO NOTHING
	`

	result, err := r.db.Exec(query,
		snapshot.SnapshotID,
		snapshot.SiteID,
		snapshot.DeviceID,
		snapshot.SnapshotDate.Format("2006-01-02"),
		snapshot.FuelLevel,
		snapshot.FuelVolume,
		snapshot.Temperature,
		snapshot.GeneratorState,
		snapshot.ZesaState,
		snapshot.CapturedAt,
		snapshot.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected == 1, nil
}

const snapshotWithSiteColumns = `
		s.snapshot_id, s.site_id, s.device_id, s.snapshot_date,
		s.fuel_level, s.fuel_volume, s.temperature, s.generator_state, s.zesa_state,
		s.captured_at, s.created_at,
		st.site_name, st.fuel_threshold_percent
`

func (r *PostgresSnapshotRepository) LatestBySite(siteID string) (*models.SnapshotWithSite, error) {
	query := `
		SELECT ` + snapshotWithSiteColumns + `
		FROM daily_snapshots s
		INNER JOIN sites st ON st.site_id = s.site_id
		WHERE s.site_id = $1
		ORDER BY s.snapshot_date DESC, s.captured_at DESC
		LIMIT 1
	`

	row := r.db.QueryRow(query, siteID)
	snap, err := scanSnapshotWithSite(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	return snap, nil
}

func (r *PostgresSnapshotRepository) LatestPerSite() ([]models.SnapshotWithSite, error) {
	query := `
		SELECT DISTINCT ON (s.site_id) ` + snapshotWithSiteColumns + `
		FROM daily_snapshots s
		INNER JOIN sites st ON st.site_id = s.site_id
		ORDER BY s.site_id, s.snapshot_date DESC, s.captured_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.SnapshotWithSite
	for rows.Next() {
		snap, err := scanSnapshotWithSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshotWithSite(row rowScanner) (*models.SnapshotWithSite, error) {
	var snap models.SnapshotWithSite
	var fuelLevel, fuelVolume, temperature sql.NullFloat64
	var generatorState, zesaState sql.NullString

	err := row.Scan(
		&snap.SnapshotID, &snap.SiteID, &snap.DeviceID, &snap.SnapshotDate,
		&fuelLevel, &fuelVolume, &temperature, &generatorState, &zesaState,
		&snap.CapturedAt, &snap.CreatedAt,
		&snap.SiteName, &snap.FuelThresholdPercent,
	)
	if err != nil {
		return nil, err
	}

	if fuelLevel.Valid {
		snap.FuelLevel = &fuelLevel.Float64
	}
	if fuelVolume.Valid {
		snap.FuelVolume = &fuelVolume.Float64
	}
	if temperature.Valid {
		snap.Temperature = &temperature.Float64
	}
	if generatorState.Valid {
		snap.GeneratorState = &generatorState.String
	}
	if zesaState.Valid {
		snap.ZesaState = &zesaState.String
	}

	return &snap, nil
}
