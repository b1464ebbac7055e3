// services/alert_query_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/database"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
)

// AlertQueryStore is the read surface for the alerts board.
type AlertQueryStore interface {
	ListProcedures(params database.ProcedureListParams) ([]models.Procedure, int, error)
	SearchClientIDs(q string) ([]string, error)
	VehiclesByClientIDs(clientIDs []string) (map[string][]models.Vehicle, error)
	AlertStatusesByProcedureIDs(procedureIDs []string) (map[string]models.AlertStatus, error)
}

// AlertListFilter narrows the alerts board. Zero values mean: current month,
// no status filter, first page of 20.
type AlertListFilter struct {
	Query    string
	Month    string // "YYYY-MM"
	Date     string // "YYYY-MM-DD", used for its month
	ShowAll  bool
	Status   string
	Page     int
	PageSize int
}

// AlertQueryService joins procedures with their alert statuses, clients and
// resolved vehicles for the presentation layer. Read-only.
type AlertQueryService struct {
	store AlertQueryStore
	now   func() time.Time
}

func NewAlertQueryService(store AlertQueryStore) *AlertQueryService {
	return &AlertQueryService{store: store, now: time.Now}
}

// List returns one page of the alerts board. A free-text search always
// widens the scope to all periods; the status filter is applied in memory
// after the join (status is derived, not a store column), with the reported
// total adjusted accordingly.
func (s *AlertQueryService) List(filter AlertListFilter) ([]models.AlertListItem, models.Pagination, error) {
	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	params := database.ProcedureListParams{
		TypeCodes: models.AlertTargetCodes,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
	}

	query := strings.TrimSpace(filter.Query)
	searchMode := query != ""
	if searchMode {
		clientIDs, err := s.store.SearchClientIDs(query)
		if err != nil {
			return nil, models.Pagination{}, fmt.Errorf("failed to resolve search %q: %w", query, err)
		}
		if len(clientIDs) == 0 {
			return []models.AlertListItem{}, emptyPagination(page, pageSize), nil
		}
		params.ClientIDs = clientIDs
	}

	if !filter.ShowAll && !searchMode {
		period := filter.Month
		if period == "" {
			period = filter.Date
		}
		if period == "" {
			period = s.now().UTC().Format("2006-01")
		}
		if from, to, ok := monthRange(period); ok {
			params.From = &from
			params.To = &to
		}
	}

	procedures, total, err := s.store.ListProcedures(params)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list alert procedures: %w", err)
	}

	items, err := s.buildItems(procedures)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	if filter.Status != "" {
		filtered := items[:0]
		for _, item := range items {
			if item.Status == filter.Status {
				filtered = append(filtered, item)
			}
		}
		items = filtered
		total = len(items)
	}

	return items, paginate(page, pageSize, total), nil
}

func (s *AlertQueryService) buildItems(procedures []models.Procedure) ([]models.AlertListItem, error) {
	procedureIDs := make([]string, len(procedures))
	for i, p := range procedures {
		procedureIDs[i] = p.ID
	}

	statuses, err := s.store.AlertStatusesByProcedureIDs(procedureIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert statuses: %w", err)
	}
	vehiclesByClient, err := s.store.VehiclesByClientIDs(distinctClientIDs(procedures))
	if err != nil {
		return nil, fmt.Errorf("failed to load alert vehicles: %w", err)
	}

	items := make([]models.AlertListItem, 0, len(procedures))
	for _, p := range procedures {
		item := models.AlertListItem{
			ID:            p.ID,
			CreatedAt:     p.CreatedAt,
			Notes:         p.Notes,
			Status:        models.AlertPendienteDeAvisar, // default until first check
			Client:        clientWithPhoneOverride(p),
			Vehicle:       models.ResolveVehicle(p.Notes, vehiclesByClient[p.ClientID]),
			ProcedureType: p.ProcedureType,
		}
		if status, ok := statuses[p.ID]; ok {
			item.Status = status.Status
			item.NotifiedAt = status.NotifiedAt
			lastChecked := status.LastCheckedAt
			item.LastCheckedAt = &lastChecked
			item.EnargasLastOperationDate = status.EnargasLastOperationDate
		}
		items = append(items, item)
	}
	return items, nil
}

// clientWithPhoneOverride applies a [TEL:...] notes override without
// mutating the joined client row.
func clientWithPhoneOverride(p models.Procedure) *models.Client {
	if p.Client == nil {
		return nil
	}
	client := *p.Client
	if phone := models.ExtractPhoneFromNotes(p.Notes); phone != "" {
		client.Phone = phone
	}
	return &client
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}

func paginate(page, pageSize, total int) models.Pagination {
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return models.Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

func emptyPagination(page, pageSize int) models.Pagination {
	return models.Pagination{Page: page, PageSize: pageSize, Total: 0, TotalPages: 1}
}
