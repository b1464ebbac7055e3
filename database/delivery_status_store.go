// database/delivery_status_store.go
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
)

// UpsertDeliveryStatus records a pickup transition. Only the timestamp
// columns passed non-nil are overwritten; existing stamps survive later
// transitions (COALESCE keeps received_at once notified/retired arrive).
func UpsertDeliveryStatus(procedureID, status string, receivedAt, notifiedAt, pickedUpAt *time.Time, now time.Time) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	_, err := DB.Exec(`
		INSERT INTO procedure_delivery_status (
			procedure_id, status, received_at, notified_at, picked_up_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			received_at = COALESCE(VALUES(received_at), received_at),
			notified_at = COALESCE(VALUES(notified_at), notified_at),
			picked_up_at = COALESCE(VALUES(picked_up_at), picked_up_at),
			updated_at = VALUES(updated_at)
	`,
		procedureID,
		status,
		nullableDate(receivedAt),
		nullableDate(notifiedAt),
		nullableDate(pickedUpAt),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert delivery status for procedure %s: %w", procedureID, err)
	}
	return nil
}

// GetDeliveryStatusesByProcedureIDs returns the persisted pickup statuses
// keyed by procedure id. Procedures without a row are absent (implicit
// PENDIENTE_RECEPCION).
func GetDeliveryStatusesByProcedureIDs(procedureIDs []string) (map[string]models.DeliveryStatus, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	result := make(map[string]models.DeliveryStatus)
	if len(procedureIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT procedure_id, status, received_at, notified_at, picked_up_at, updated_at
		FROM procedure_delivery_status
		WHERE procedure_id IN (%s)
	`, placeholders(len(procedureIDs)))

	rows, err := DB.Query(query, stringArgs(procedureIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery statuses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.DeliveryStatus
		var receivedAt, notifiedAt, pickedUpAt sql.NullTime
		if err := rows.Scan(
			&s.ProcedureID, &s.Status, &receivedAt, &notifiedAt, &pickedUpAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery status row: %w", err)
		}
		if receivedAt.Valid {
			s.ReceivedAt = &receivedAt.Time
		}
		if notifiedAt.Valid {
			s.NotifiedAt = &notifiedAt.Time
		}
		if pickedUpAt.Valid {
			s.PickedUpAt = &pickedUpAt.Time
		}
		result[s.ProcedureID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery status rows: %w", err)
	}
	return result, nil
}
