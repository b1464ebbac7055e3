// handlers/procedure_handler.go
package handlers

import (
	"net/http"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/services"
)

// ProcedureHandler exposes direct procedure mutations (payment corrections
// from the office, outside the pickup flow).
type ProcedureHandler struct {
	Deliveries *services.DeliveryService
}

// UpdatePayment handles PATCH /api/tramites/pago. TotalAmount defaults to -1
// in the request, meaning "leave the current total untouched".
func (h *ProcedureHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPatch) {
		return
	}

	req := models.PaymentUpdateRequest{TotalAmount: -1}
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Datos invalidos.")
		return
	}

	if err := h.Deliveries.UpdatePayment(req.ProcedureID, req.AmountPaid, req.TotalAmount); err != nil {
		respondWithError(w, http.StatusInternalServerError, "No se pudo actualizar el monto abonado del tramite.")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]bool{"ok": true}})
}
