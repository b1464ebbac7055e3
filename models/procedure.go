// models/procedure.go
package models

import "time"

// Procedure type codes. Only the two compliance types participate in
// expiration alerts; the rest are office work tracked elsewhere.
const (
	TypeRenovacionOblea  = "RENOVACION_OBLEA"
	TypePruebaHidraulica = "PRUEBA_HIDRAULICA"
	TypeConversion       = "CONVERSION"
	TypeModificacion     = "MODIFICACION"
	TypeDesmontaje       = "DESMONTAJE"
)

// AlertTargetCodes are the procedure types eligible for registry
// reconciliation and pickup tracking.
var AlertTargetCodes = []string{TypeRenovacionOblea, TypePruebaHidraulica}

// ProcedureType is a catalog row (renovacion de oblea, prueba hidraulica...).
type ProcedureType struct {
	ID          string `db:"id" json:"id"`
	Code        string `db:"code" json:"code"`
	DisplayName string `db:"display_name" json:"displayName"`
}

// Procedure is one inspection/renewal record. CreatedAt's month+year is the
// compliance period the registry date is matched against. Notes may embed
// [DOMINIO:...] and [TEL:...] overrides.
type Procedure struct {
	ID          string    `db:"id" json:"id"`
	ClientID    string    `db:"client_id" json:"clientId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	Notes       string    `db:"notes" json:"notes"`
	Paid        bool      `db:"paid" json:"paid"`
	TotalAmount float64   `db:"total_amount" json:"totalAmount"`
	AmountPaid  float64   `db:"amount_paid" json:"amountPaid"`

	// Joined data, not columns of client_procedures.
	Client        *Client        `db:"-" json:"client,omitempty"`
	ProcedureType *ProcedureType `db:"-" json:"procedureType,omitempty"`
}
