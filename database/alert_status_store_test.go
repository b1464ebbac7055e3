// database/alert_status_store_test.go
package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
)

// withMockDB swaps the package connection for a sqlmock one and restores it
// when the test ends.
func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	previous := DB
	DB = mockDB
	t.Cleanup(func() {
		DB = previous
		mockDB.Close()
	})
	return mock
}

func TestSaveAlertStatusUpsert(t *testing.T) {
	mock := withMockDB(t)

	enargas := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	checked := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO procedure_alert_status").
		WithArgs("proc-1", models.AlertPendienteDeAvisar,
			sql.NullTime{Time: enargas, Valid: true}, checked, "Dominio consultado: ABC123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := SaveAlertStatus(models.AlertStatus{
		ProcedureID:              "proc-1",
		Status:                   models.AlertPendienteDeAvisar,
		EnargasLastOperationDate: &enargas,
		LastCheckedAt:            checked,
		Notes:                    "Dominio consultado: ABC123",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAlertStatusWithoutRegistryDate(t *testing.T) {
	mock := withMockDB(t)

	checked := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO procedure_alert_status").
		WithArgs("proc-1", models.AlertNoCorrespondeAvisar,
			sql.NullTime{}, checked, "Sin dominio asociado").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := SaveAlertStatus(models.AlertStatus{
		ProcedureID:   "proc-1",
		Status:        models.AlertNoCorrespondeAvisar,
		LastCheckedAt: checked,
		Notes:         "Sin dominio asociado",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAlertStatusesRunsInTransaction(t *testing.T) {
	mock := withMockDB(t)

	checked := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	prepared := mock.ExpectPrepare("INSERT INTO procedure_alert_status")
	prepared.ExpectExec().
		WithArgs("proc-1", models.AlertPendienteDeAvisar, sql.NullTime{}, checked, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prepared.ExpectExec().
		WithArgs("proc-2", models.AlertNoCorrespondeAvisar, sql.NullTime{}, checked, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := SaveAlertStatuses([]models.AlertStatus{
		{ProcedureID: "proc-1", Status: models.AlertPendienteDeAvisar, LastCheckedAt: checked},
		{ProcedureID: "proc-2", Status: models.AlertNoCorrespondeAvisar, LastCheckedAt: checked},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAlertStatusesEmptyBatchSkipsDB(t *testing.T) {
	mock := withMockDB(t)

	require.NoError(t, SaveAlertStatuses(nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAlertNotifiedStampsBothTimestamps(t *testing.T) {
	mock := withMockDB(t)

	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO procedure_alert_status").
		WithArgs("proc-1", models.AlertAvisado, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, MarkAlertNotified("proc-1", now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAlertStatusesByProcedureIDs(t *testing.T) {
	mock := withMockDB(t)

	checked := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	enargas := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"procedure_id", "status", "enargas_last_operation_date",
		"last_checked_at", "notified_at", "notes",
	}).
		AddRow("proc-1", models.AlertPendienteDeAvisar, enargas, checked, nil, "Dominio consultado: ABC123").
		AddRow("proc-2", models.AlertAvisado, nil, checked, checked, "")

	mock.ExpectQuery("SELECT procedure_id, status, enargas_last_operation_date").
		WithArgs("proc-1", "proc-2").
		WillReturnRows(rows)

	statuses, err := GetAlertStatusesByProcedureIDs([]string{"proc-1", "proc-2"})
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	require.NotNil(t, statuses["proc-1"].EnargasLastOperationDate)
	assert.Equal(t, enargas, *statuses["proc-1"].EnargasLastOperationDate)
	assert.Nil(t, statuses["proc-1"].NotifiedAt)

	assert.Nil(t, statuses["proc-2"].EnargasLastOperationDate)
	require.NotNil(t, statuses["proc-2"].NotifiedAt)
	assert.Equal(t, checked, *statuses["proc-2"].NotifiedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAlertStatusesEmptyInput(t *testing.T) {
	mock := withMockDB(t)

	statuses, err := GetAlertStatusesByProcedureIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, statuses)
	assert.NoError(t, mock.ExpectationsWereMet())
}
