// database/procedure_store_test.go
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

func TestGetProcedureByIDNotFound(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectQuery("FROM client_procedures p").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	p, err := GetProcedureByID("missing")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProcedureByIDJoinsClientAndType(t *testing.T) {
	mock := withMockDB(t)

	created := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "client_id", "created_at", "notes", "paid",
		"total_amount", "amount_paid",
		"c_id", "first_name", "last_name", "phone", "c_created_at",
		"t_id", "code", "display_name",
	}).AddRow(
		"proc-1", "client-1", created, "", false,
		100000.0, 30000.0,
		"client-1", "Ana", "Gomez", "1145551234", created,
		"type-1", models.TypeRenovacionOblea, "Renovacion de Oblea",
	)

	mock.ExpectQuery("FROM client_procedures p").
		WithArgs("proc-1").
		WillReturnRows(rows)

	p, err := GetProcedureByID("proc-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "proc-1", p.ID)
	assert.Equal(t, 100000.0, p.TotalAmount)
	require.NotNil(t, p.Client)
	assert.Equal(t, "Gomez", p.Client.LastName)
	require.NotNil(t, p.ProcedureType)
	assert.Equal(t, models.TypeRenovacionOblea, p.ProcedureType.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProceduresEmptySearchShortCircuits(t *testing.T) {
	mock := withMockDB(t)

	// A search that matched nothing passes an empty non-nil slice; the store
	// must not touch the database.
	procedures, total, err := ListProcedures(ProcedureListParams{ClientIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, procedures)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProcedureAmountsKeepsTotalWhenNegative(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectExec("UPDATE client_procedures SET amount_paid = \\?, paid = \\?").
		WithArgs(50000.0, false, "proc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, UpdateProcedureAmounts("proc-1", 50000, -1, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProcedureAmountsSetsTotal(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectExec("UPDATE client_procedures SET amount_paid = \\?, total_amount = \\?, paid = \\?").
		WithArgs(80000.0, 80000.0, true, "proc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, UpdateProcedureAmounts("proc-1", 80000, 80000, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
	assert.Equal(t, "", placeholders(0))
}
