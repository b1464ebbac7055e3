// models/alert.go
package models

import "time"

// Alert statuses for the expiration board.
const (
	AlertPendienteDeAvisar   = "PENDIENTE_DE_AVISAR"
	AlertAvisado             = "AVISADO"
	AlertNoCorrespondeAvisar = "NO_CORRESPONDE_AVISAR"
)

// AlertStatus is the per-procedure projection written by the reconciliation
// engine (at most one row per procedure; absence means the default
// PENDIENTE_DE_AVISAR with no timestamps).
type AlertStatus struct {
	ProcedureID string `db:"procedure_id" json:"procedureId"`
	Status      string `db:"status" json:"status"`

	// Most recent operation date observed on the registry, as a calendar
	// date. Nil when the registry had no record or the probe failed.
	EnargasLastOperationDate *time.Time `db:"enargas_last_operation_date" json:"enargasLastOperationDate,omitempty"`

	LastCheckedAt time.Time  `db:"last_checked_at" json:"lastCheckedAt"`
	NotifiedAt    *time.Time `db:"notified_at" json:"notifiedAt,omitempty"`

	// Diagnostic: which domain was queried, or the probe error, or
	// "Sin dominio asociado".
	Notes string `db:"notes" json:"notes"`
}

// AlertListItem is one row of the alerts board: the procedure joined with
// its status, client and resolved vehicle.
type AlertListItem struct {
	ID                       string     `json:"id"`
	CreatedAt                time.Time  `json:"createdAt"`
	Notes                    string     `json:"notes"`
	Status                   string     `json:"status"`
	NotifiedAt               *time.Time `json:"notifiedAt"`
	LastCheckedAt            *time.Time `json:"lastCheckedAt"`
	EnargasLastOperationDate *time.Time `json:"enargasLastOperationDate"`

	Client        *Client        `json:"client"`
	Vehicle       *Vehicle       `json:"vehicle"`
	ProcedureType *ProcedureType `json:"procedureType"`
}
