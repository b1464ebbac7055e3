// handlers/alert_handler_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/config"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/database"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/scraper"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/services"
)

// handlerStore is a canned store backing the real services in handler tests.
type handlerStore struct {
	procedures map[string]*models.Procedure
	list       []models.Procedure
	vehicles   map[string][]models.Vehicle
	statuses   map[string]models.AlertStatus
	notified   []string
}

func (f *handlerStore) GetProcedureByID(id string) (*models.Procedure, error) {
	return f.procedures[id], nil
}

func (f *handlerStore) ListProcedures(params database.ProcedureListParams) ([]models.Procedure, int, error) {
	return f.list, len(f.list), nil
}

func (f *handlerStore) SearchClientIDs(q string) ([]string, error) { return nil, nil }

func (f *handlerStore) VehiclesByClientIDs(clientIDs []string) (map[string][]models.Vehicle, error) {
	if f.vehicles == nil {
		return map[string][]models.Vehicle{}, nil
	}
	return f.vehicles, nil
}

func (f *handlerStore) AlertStatusesByProcedureIDs(ids []string) (map[string]models.AlertStatus, error) {
	if f.statuses == nil {
		return map[string]models.AlertStatus{}, nil
	}
	return f.statuses, nil
}

func (f *handlerStore) SaveAlertStatus(status models.AlertStatus) error       { return nil }
func (f *handlerStore) SaveAlertStatuses(statuses []models.AlertStatus) error { return nil }

func (f *handlerStore) MarkAlertNotified(id string, now time.Time) error {
	f.notified = append(f.notified, id)
	return nil
}

func noProbe(_ context.Context, domain string) scraper.ProbeResult {
	return scraper.ProbeResult{Domain: scraper.NormalizeDomain(domain)}
}

func newAlertHandler(store *handlerStore) *AlertHandler {
	return &AlertHandler{
		Alerts:  services.NewAlertService(store, noProbe, config.ScraperConfig{MaxDomainsPerRun: 200}),
		Queries: services.NewAlertQueryService(store),
	}
}

func TestCheckOneRejectsMalformedBody(t *testing.T) {
	h := newAlertHandler(&handlerStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/alertas/comprobar-uno",
		strings.NewReader(`{"procedureId":"not-a-uuid"}`))
	rec := httptest.NewRecorder()
	h.CheckOne(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Datos invalidos.", body["error"])
}

func TestCheckOneUnknownProcedureIs404(t *testing.T) {
	h := newAlertHandler(&handlerStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/alertas/comprobar-uno",
		strings.NewReader(`{"procedureId":"7f9c24e5-2b31-4bcd-9e4b-2a54c8a1d1a4"}`))
	rec := httptest.NewRecorder()
	h.CheckOne(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRejectsWrongMethod(t *testing.T) {
	h := newAlertHandler(&handlerStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/alertas", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListReturnsDataAndPagination(t *testing.T) {
	created := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	store := &handlerStore{
		list: []models.Procedure{{
			ID:        "proc-1",
			ClientID:  "client-1",
			CreatedAt: created,
			Client:    &models.Client{ID: "client-1", FirstName: "Ana", LastName: "Gomez"},
			ProcedureType: &models.ProcedureType{
				ID: "type-1", Code: models.TypeRenovacionOblea, DisplayName: "Renovacion de Oblea",
			},
		}},
		vehicles: map[string][]models.Vehicle{
			"client-1": {{ClientID: "client-1", Domain: "ABC123", Brand: "Ford", Model: "Ka"}},
		},
	}
	h := newAlertHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/alertas?all=1", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []models.AlertListItem `json:"data"`
		Pagination models.Pagination      `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "proc-1", body.Data[0].ID)
	assert.Equal(t, models.AlertPendienteDeAvisar, body.Data[0].Status)
	assert.Equal(t, 1, body.Pagination.Total)
}

func TestNotifyMarksProcedure(t *testing.T) {
	store := &handlerStore{}
	h := newAlertHandler(store)

	req := httptest.NewRequest(http.MethodPost, "/api/alertas/avisar",
		strings.NewReader(`{"procedureId":"proc-1"}`))
	rec := httptest.NewRecorder()
	h.Notify(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"proc-1"}, store.notified)
}

func TestExportCSVWritesAttachment(t *testing.T) {
	created := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	store := &handlerStore{
		list: []models.Procedure{{
			ID:        "proc-1",
			ClientID:  "client-1",
			CreatedAt: created,
			Client:    &models.Client{ID: "client-1", FirstName: "Ana", LastName: "Gomez", Phone: "1145551234"},
			ProcedureType: &models.ProcedureType{
				ID: "type-1", Code: models.TypeRenovacionOblea, DisplayName: "Renovacion de Oblea",
			},
		}},
		vehicles: map[string][]models.Vehicle{
			"client-1": {{ClientID: "client-1", Domain: "ABC123", Brand: "Ford", Model: "Ka"}},
		},
	}
	h := newAlertHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/alertas/export?all=1", nil)
	rec := httptest.NewRecorder()
	h.ExportCSV(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=alertas-")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "cliente,telefono,whatsapp,dominio,marca,modelo,tramite,creado,estado,fecha_enargas", lines[0])
	assert.Contains(t, lines[1], "Ana Gomez")
	assert.Contains(t, lines[1], "5491145551234")
	assert.Contains(t, lines[1], "ABC123")
}

func TestIntParamAndClampPageSize(t *testing.T) {
	assert.Equal(t, 5, intParam("5", 1))
	assert.Equal(t, 1, intParam("", 1))
	assert.Equal(t, 1, intParam("0", 1))
	assert.Equal(t, 1, intParam("abc", 1))
	assert.Equal(t, 100, clampPageSize(500))
	assert.Equal(t, 20, clampPageSize(20))
}
