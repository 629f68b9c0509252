package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

func setupSampleRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresSampleRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewSampleRepository(db, zap.NewNop())
	return db, mock, repo
}

var sampleColumns = []string{"id", "device_id", "sensor_name", "sampled_at", "value", "unit", "created_at"}

func TestQueryRange_Success(t *testing.T) {
	db, mock, repo := setupSampleRepo(t)
	defer db.Close()

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	rows := sqlmock.NewRows(sampleColumns).
		AddRow(1, "device-1", "fuel_level", from.Add(8*time.Hour), "80", "%", from).
		AddRow(2, "device-1", "fuel_level", from.Add(9*time.Hour), "60", "%", from)

	mock.ExpectQuery(`SELECT id, device_id, sensor_name`).
		WithArgs("device-1", "fuel_level", from, to).
		WillReturnRows(rows)

	samples, err := repo.QueryRange("device-1", "fuel_level", from, to)

	require.NoError(t, err)
	assert.Len(t, samples, 2)
	assert.Equal(t, "80", samples[0].Value)
	assert.Equal(t, "60", samples[1].Value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRange_Empty(t *testing.T) {
	db, mock, repo := setupSampleRepo(t)
	defer db.Close()

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, device_id, sensor_name`).
		WithArgs("device-1", "fuel_volume", from, from.Add(24*time.Hour)).
		WillReturnRows(sqlmock.NewRows(sampleColumns))

	samples, err := repo.QueryRange("device-1", "fuel_volume", from, from.Add(24*time.Hour))

	require.NoError(t, err)
	assert.Len(t, samples, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLatestBefore_Found(t *testing.T) {
	db, mock, repo := setupSampleRepo(t)
	defer db.Close()

	before := time.Date(2024, 3, 1, 23, 55, 0, 0, time.UTC)
	sampledAt := before.Add(-2 * time.Hour)

	rows := sqlmock.NewRows(sampleColumns).
		AddRow(9, "device-1", "temperature", sampledAt, "31.5", "C", sampledAt)

	mock.ExpectQuery(`ORDER BY sampled_at DESC`).
		WithArgs("device-1", "temperature", before).
		WillReturnRows(rows)

	sample, err := repo.QueryLatestBefore("device-1", "temperature", before)

	require.NoError(t, err)
	require.NotNil(t, sample)
	assert.Equal(t, "31.5", sample.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLatestBefore_NoHistoryReturnsNil(t *testing.T) {
	db, mock, repo := setupSampleRepo(t)
	defer db.Close()

	before := time.Date(2024, 3, 1, 23, 55, 0, 0, time.UTC)

	mock.ExpectQuery(`ORDER BY sampled_at DESC`).
		WithArgs("device-1", "zesa_state", before).
		WillReturnError(sql.ErrNoRows)

	sample, err := repo.QueryLatestBefore("device-1", "zesa_state", before)

	require.NoError(t, err)
	assert.Nil(t, sample)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSample(t *testing.T) {
	db, mock, repo := setupSampleRepo(t)
	defer db.Close()

	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	sample := &models.SensorSample{
		DeviceID:   "device-1",
		SensorName: "fuel_level",
		SampledAt:  now,
		Value:      "62.5",
		Unit:       "%",
		CreatedAt:  now,
	}

	mock.ExpectExec(`INSERT INTO sensor_samples`).
		WithArgs("device-1", "fuel_level", now, "62.5", "%", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Insert(sample))
	assert.NoError(t, mock.ExpectationsWereMet())
}
