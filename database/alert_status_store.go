// database/alert_status_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
)

const alertStatusUpsert = `
	INSERT INTO procedure_alert_status (
		procedure_id, status, enargas_last_operation_date,
		last_checked_at, notes
	) VALUES (?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		status = VALUES(status),
		enargas_last_operation_date = VALUES(enargas_last_operation_date),
		last_checked_at = VALUES(last_checked_at),
		notes = VALUES(notes)
`

// SaveAlertStatus upserts a single reconciliation result keyed by procedure.
// notified_at is deliberately left alone here: it is only written by
// MarkAlertNotified so a re-check never clears a human notification stamp.
func SaveAlertStatus(status models.AlertStatus) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	_, err := DB.Exec(alertStatusUpsert,
		status.ProcedureID,
		status.Status,
		nullableDate(status.EnargasLastOperationDate),
		status.LastCheckedAt,
		status.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert alert status for procedure %s: %w", status.ProcedureID, err)
	}
	return nil
}

// SaveAlertStatuses upserts a batch of reconciliation results in one
// transaction, so a persistence failure leaves no partially visible batch.
func SaveAlertStatuses(statuses []models.AlertStatus) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	if len(statuses) == 0 {
		return nil
	}

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for alert statuses: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(alertStatusUpsert)
	if err != nil {
		return fmt.Errorf("failed to prepare alert status upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, status := range statuses {
		_, err := stmt.Exec(
			status.ProcedureID,
			status.Status,
			nullableDate(status.EnargasLastOperationDate),
			status.LastCheckedAt,
			status.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert alert status for procedure %s: %w", status.ProcedureID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit alert status batch: %w", err)
	}

	log.Printf("Saved/updated %d alert statuses.\n", len(statuses))
	return nil
}

// MarkAlertNotified records a human-performed notification: status AVISADO
// with fresh notified/checked timestamps. Other columns keep their values.
func MarkAlertNotified(procedureID string, now time.Time) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	_, err := DB.Exec(`
		INSERT INTO procedure_alert_status (
			procedure_id, status, last_checked_at, notified_at
		) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			last_checked_at = VALUES(last_checked_at),
			notified_at = VALUES(notified_at)
	`, procedureID, models.AlertAvisado, now, now)
	if err != nil {
		return fmt.Errorf("failed to mark procedure %s as notified: %w", procedureID, err)
	}
	return nil
}

// GetAlertStatusesByProcedureIDs returns the persisted statuses for the
// given procedures, keyed by procedure id. Procedures without a row are
// simply absent from the map (the caller applies the default status).
func GetAlertStatusesByProcedureIDs(procedureIDs []string) (map[string]models.AlertStatus, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	result := make(map[string]models.AlertStatus)
	if len(procedureIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT procedure_id, status, enargas_last_operation_date,
		       last_checked_at, notified_at, notes
		FROM procedure_alert_status
		WHERE procedure_id IN (%s)
	`, placeholders(len(procedureIDs)))

	rows, err := DB.Query(query, stringArgs(procedureIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.AlertStatus
		var enargasDate, notifiedAt sql.NullTime
		if err := rows.Scan(
			&s.ProcedureID, &s.Status, &enargasDate,
			&s.LastCheckedAt, &notifiedAt, &s.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert status row: %w", err)
		}
		if enargasDate.Valid {
			s.EnargasLastOperationDate = &enargasDate.Time
		}
		if notifiedAt.Valid {
			s.NotifiedAt = &notifiedAt.Time
		}
		result[s.ProcedureID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert status rows: %w", err)
	}
	return result, nil
}

func nullableDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
