// handlers/delivery_handler.go
package handlers

import (
	"net/http"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/services"
)

// DeliveryHandler exposes the document-pickup endpoints.
type DeliveryHandler struct {
	Deliveries *services.DeliveryService
}

// List handles GET /api/avisos/retiro.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	filter := services.DeliveryListFilter{
		Query:    q.Get("q"),
		Filter:   q.Get("filter"),
		Page:     intParam(q.Get("page"), 1),
		PageSize: clampPageSize(intParam(q.Get("pageSize"), 20)),
	}

	items, pagination, err := h.Deliveries.List(filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "No se pudieron obtener los tramites para retiro.")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":       items,
		"pagination": pagination,
	})
}

// UpdateState handles POST /api/avisos/retiro/estado. On "retired" the
// payment fold runs after the status upsert; a failure there is reported
// even though the status row already changed (known limitation, the status
// upsert is not rolled back).
func (h *DeliveryHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.DeliveryActionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Datos invalidos.")
		return
	}

	if err := h.Deliveries.Apply(req.ProcedureID, req.Action, req.AmountPaid); err != nil {
		respondWithError(w, http.StatusInternalServerError, "No se pudo actualizar estado de retiro.")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]bool{"ok": true}})
}
