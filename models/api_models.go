// models/api_models.go
package models

// CheckOneRequest is the JSON body for POST /api/alertas/comprobar-uno.
type CheckOneRequest struct {
	ProcedureID string `json:"procedureId" validate:"required,uuid4"`
}

// BatchCheckRequest is the JSON body for POST /api/alertas/comprobar.
// Month/Date carry a "YYYY-MM" (or "YYYY-MM-DD", truncated) period; All
// disables the period filter entirely.
type BatchCheckRequest struct {
	Query string `json:"q"`
	Date  string `json:"date"`
	Month string `json:"month"`
	All   bool   `json:"all"`
}

// NotifyRequest is the JSON body for POST /api/alertas/avisar.
type NotifyRequest struct {
	ProcedureID string `json:"procedureId" validate:"required"`
}

// DeliveryActionRequest is the JSON body for POST /api/avisos/retiro/estado.
// AmountPaid is the amount tendered at pickup, only meaningful for "retired".
type DeliveryActionRequest struct {
	ProcedureID string  `json:"procedureId" validate:"required"`
	Action      string  `json:"action" validate:"required,oneof=received notified retired"`
	AmountPaid  float64 `json:"amountPaid" validate:"gte=0"`
}

// PaymentUpdateRequest is the JSON body for PATCH /api/tramites/pago.
// TotalAmount is optional; a negative value means "leave unchanged".
type PaymentUpdateRequest struct {
	ProcedureID string  `json:"procedureId" validate:"required"`
	AmountPaid  float64 `json:"amountPaid" validate:"gte=0"`
	TotalAmount float64 `json:"totalAmount" validate:"gte=-1"`
}

// Pagination echoes the applied paging back to the caller.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// BatchCheckResult reports probing coverage for a batch reconciliation run,
// including how many distinct domains were skipped by the safety ceiling.
type BatchCheckResult struct {
	Checked               int `json:"checked"`
	Pending               int `json:"pending"`
	NoCorrespond          int `json:"noCorrespond"`
	DomainsChecked        int `json:"domainsChecked"`
	DomainsSkippedByLimit int `json:"domainsSkippedByLimit"`
}

// SingleCheckResult is the outcome of a single-procedure reconciliation.
type SingleCheckResult struct {
	ProcedureID              string `json:"procedureId"`
	Status                   string `json:"status"`
	EnargasLastOperationDate string `json:"enargasLastOperationDate,omitempty"`
	Notes                    string `json:"notes"`
}
