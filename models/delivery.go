// models/delivery.go
package models

import "time"

// Delivery (pickup) statuses for a completed procedure's paperwork.
// PENDIENTE_RECEPCION is implicit: no row exists until an action occurs.
const (
	DeliveryPendienteRecepcion = "PENDIENTE_RECEPCION"
	DeliveryRecibido           = "RECIBIDO"
	DeliveryAvisadoRetiro      = "AVISADO_RETIRO"
	DeliveryRetirado           = "RETIRADO"
)

// Delivery actions accepted by the pickup state machine.
const (
	DeliveryActionReceived = "received"
	DeliveryActionNotified = "notified"
	DeliveryActionRetired  = "retired"
)

// DeliveryStatus is the per-procedure pickup projection (at most one row per
// procedure, upserted on every action).
type DeliveryStatus struct {
	ProcedureID string     `db:"procedure_id" json:"procedureId"`
	Status      string     `db:"status" json:"status"`
	ReceivedAt  *time.Time `db:"received_at" json:"receivedAt,omitempty"`
	NotifiedAt  *time.Time `db:"notified_at" json:"notifiedAt,omitempty"`
	PickedUpAt  *time.Time `db:"picked_up_at" json:"pickedUpAt,omitempty"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// DeliveryListItem is one row of the pickup board.
type DeliveryListItem struct {
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	Notes       string     `json:"notes"`
	Paid        bool       `json:"paid"`
	TotalAmount float64    `json:"totalAmount"`
	AmountPaid  float64    `json:"amountPaid"`
	Status      string     `json:"status"`
	ReceivedAt  *time.Time `json:"receivedAt"`
	NotifiedAt  *time.Time `json:"notifiedAt"`
	PickedUpAt  *time.Time `json:"pickedUpAt"`

	Client        *Client        `json:"client"`
	Vehicle       *Vehicle       `json:"vehicle"`
	ProcedureType *ProcedureType `json:"procedureType"`
}
