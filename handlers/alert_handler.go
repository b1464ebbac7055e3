// handlers/alert_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/services"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/utils"
)

// AlertHandler exposes the expiration-alert endpoints.
type AlertHandler struct {
	Alerts  *services.AlertService
	Queries *services.AlertQueryService
}

// CheckOne handles POST /api/alertas/comprobar-uno.
func (h *AlertHandler) CheckOne(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CheckOneRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Datos invalidos.")
		return
	}

	result, err := h.Alerts.CheckProcedure(r.Context(), req.ProcedureID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "No se pudo comprobar el tramite.")
		return
	}
	if result == nil {
		respondWithError(w, http.StatusNotFound, "Tramite no encontrado.")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": result})
}

// CheckBatch handles POST /api/alertas/comprobar.
func (h *AlertHandler) CheckBatch(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.BatchCheckRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Datos invalidos.")
		return
	}

	result, err := h.Alerts.CheckBatch(r.Context(), req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "No se pudo comprobar vencimientos.")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": result})
}

// List handles GET /api/alertas.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	filter := alertFilterFromQuery(r)
	items, pagination, err := h.Queries.List(filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "No se pudieron obtener las alertas.")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":       items,
		"pagination": pagination,
	})
}

// Notify handles POST /api/alertas/avisar: the operator confirmed the client
// was contacted, so the status becomes AVISADO with a fresh timestamp.
func (h *AlertHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.NotifyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Datos invalidos.")
		return
	}

	if err := h.Alerts.MarkNotified(req.ProcedureID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "No se pudo actualizar el estado de aviso.")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]bool{"ok": true}})
}

type alertCSVRow struct {
	Cliente      string `csv:"cliente"`
	Telefono     string `csv:"telefono"`
	WhatsApp     string `csv:"whatsapp"`
	Dominio      string `csv:"dominio"`
	Marca        string `csv:"marca"`
	Modelo       string `csv:"modelo"`
	Tramite      string `csv:"tramite"`
	Creado       string `csv:"creado"`
	Estado       string `csv:"estado"`
	FechaEnargas string `csv:"fecha_enargas"`
}

// ExportCSV handles GET /api/alertas/export: the same listing the board
// shows, as a CSV the office prints for the day's calls.
func (h *AlertHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	filter := alertFilterFromQuery(r)
	filter.Page = 1
	filter.PageSize = 1000

	items, _, err := h.Queries.List(filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "No se pudo exportar las alertas.")
		return
	}

	rows := make([]alertCSVRow, 0, len(items))
	for _, item := range items {
		row := alertCSVRow{
			Creado: item.CreatedAt.Format("02/01/2006"),
			Estado: item.Status,
		}
		if item.Client != nil {
			row.Cliente = item.Client.FirstName + " " + item.Client.LastName
			row.Telefono = item.Client.Phone
			row.WhatsApp = utils.ToWhatsappPhone(item.Client.Phone)
		}
		if item.Vehicle != nil {
			row.Dominio = item.Vehicle.Domain
			row.Marca = item.Vehicle.Brand
			row.Modelo = item.Vehicle.Model
		}
		if item.ProcedureType != nil {
			row.Tramite = item.ProcedureType.DisplayName
		}
		if item.EnargasLastOperationDate != nil {
			row.FechaEnargas = item.EnargasLastOperationDate.Format("02/01/2006")
		}
		rows = append(rows, row)
	}

	out, err := csvutil.Marshal(rows)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "No se pudo generar el CSV.")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=alertas-"+time.Now().Format("2006-01-02")+".csv")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func alertFilterFromQuery(r *http.Request) services.AlertListFilter {
	q := r.URL.Query()
	return services.AlertListFilter{
		Query:    q.Get("q"),
		Month:    q.Get("month"),
		Date:     q.Get("date"),
		ShowAll:  q.Get("all") == "1",
		Status:   q.Get("status"),
		Page:     intParam(q.Get("page"), 1),
		PageSize: clampPageSize(intParam(q.Get("pageSize"), 20)),
	}
}

func intParam(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func clampPageSize(n int) int {
	if n > 100 {
		return 100
	}
	return n
}
