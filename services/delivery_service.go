// services/delivery_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/database"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
)

// DeliveryStore is the persistence surface for the pickup state machine and
// its board listing.
type DeliveryStore interface {
	GetProcedureByID(procedureID string) (*models.Procedure, error)
	UpsertDeliveryStatus(procedureID, status string, receivedAt, notifiedAt, pickedUpAt *time.Time, now time.Time) error
	UpdateProcedurePayment(procedureID string, amountPaid float64, paid bool) error
	UpdateProcedureAmounts(procedureID string, amountPaid, totalAmount float64, paid bool) error
	ListProcedures(params database.ProcedureListParams) ([]models.Procedure, int, error)
	SearchClientIDs(q string) ([]string, error)
	VehiclesByClientIDs(clientIDs []string) (map[string][]models.Vehicle, error)
	DeliveryStatusesByProcedureIDs(procedureIDs []string) (map[string]models.DeliveryStatus, error)
}

// DeliveryService tracks receipt → notification → pickup of a completed
// procedure's paperwork. Transitions are deliberately unguarded: the office
// may jump straight to RETIRADO, and re-running an action just re-stamps its
// timestamp.
type DeliveryService struct {
	store DeliveryStore
	now   func() time.Time
}

func NewDeliveryService(store DeliveryStore) *DeliveryService {
	return &DeliveryService{store: store, now: time.Now}
}

// Apply runs one pickup action. For "retired" the tendered amount is folded
// into the procedure's payment after the status upsert; if that payment
// update fails the already-persisted status is NOT rolled back, so callers
// must treat an error as "status may have changed, payment may not have".
func (s *DeliveryService) Apply(procedureID, action string, amountTendered float64) error {
	now := s.now()

	var status string
	var receivedAt, notifiedAt, pickedUpAt *time.Time
	switch action {
	case models.DeliveryActionReceived:
		status = models.DeliveryRecibido
		receivedAt = &now
	case models.DeliveryActionNotified:
		status = models.DeliveryAvisadoRetiro
		notifiedAt = &now
	case models.DeliveryActionRetired:
		status = models.DeliveryRetirado
		pickedUpAt = &now
	default:
		return fmt.Errorf("unknown delivery action %q", action)
	}

	if err := s.store.UpsertDeliveryStatus(procedureID, status, receivedAt, notifiedAt, pickedUpAt, now); err != nil {
		return err
	}

	if action != models.DeliveryActionRetired {
		return nil
	}

	procedure, err := s.store.GetProcedureByID(procedureID)
	if err != nil {
		return fmt.Errorf("failed to load procedure %s for payment update: %w", procedureID, err)
	}
	if procedure == nil {
		return fmt.Errorf("procedure %s not found for payment update", procedureID)
	}

	newPaid := procedure.AmountPaid + amountTendered
	return s.store.UpdateProcedurePayment(procedureID, newPaid, isPaid(procedure.TotalAmount, newPaid))
}

// UpdatePayment sets payment fields directly (office correction path).
// totalAmount < 0 keeps the procedure's current total.
func (s *DeliveryService) UpdatePayment(procedureID string, amountPaid, totalAmount float64) error {
	procedure, err := s.store.GetProcedureByID(procedureID)
	if err != nil {
		return fmt.Errorf("failed to load procedure %s: %w", procedureID, err)
	}
	if procedure == nil {
		return fmt.Errorf("procedure %s not found", procedureID)
	}

	effectiveTotal := procedure.TotalAmount
	if totalAmount >= 0 {
		effectiveTotal = totalAmount
	}
	return s.store.UpdateProcedureAmounts(procedureID, amountPaid, totalAmount, isPaid(effectiveTotal, amountPaid))
}

// isPaid: a zero-total procedure counts as paid once anything was tendered.
func isPaid(total, amountPaid float64) bool {
	if total > 0 {
		return amountPaid >= total
	}
	return amountPaid > 0
}

// DeliveryListFilter narrows the pickup board. Filter is "yesterday"
// (default), "pending" or "all".
type DeliveryListFilter struct {
	Query    string
	Filter   string
	Page     int
	PageSize int
}

// List returns one page of the pickup board. The "pending" filter (not yet
// picked up, with complete vehicle data) is derived from the joined rows, so
// it is applied in memory and paginated afterwards with the total adjusted.
func (s *DeliveryService) List(filter DeliveryListFilter) ([]models.DeliveryListItem, models.Pagination, error) {
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	mode := filter.Filter
	if mode == "" {
		mode = "yesterday"
	}
	inMemoryFilter := mode == "pending"

	params := database.ProcedureListParams{TypeCodes: models.AlertTargetCodes}
	if !inMemoryFilter {
		params.Offset = (page - 1) * pageSize
		params.Limit = pageSize
	}

	query := strings.TrimSpace(filter.Query)
	searchMode := query != ""
	if searchMode {
		clientIDs, err := s.store.SearchClientIDs(query)
		if err != nil {
			return nil, models.Pagination{}, fmt.Errorf("failed to resolve search %q: %w", query, err)
		}
		if len(clientIDs) == 0 {
			return []models.DeliveryListItem{}, emptyPagination(page, pageSize), nil
		}
		params.ClientIDs = clientIDs
	}

	if mode == "yesterday" && !searchMode {
		now := s.now().UTC()
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		yesterdayStart := todayStart.AddDate(0, 0, -1)
		params.From = &yesterdayStart
		params.To = &todayStart
	}

	procedures, total, err := s.store.ListProcedures(params)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list pickup procedures: %w", err)
	}

	items, err := s.buildItems(procedures)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	if inMemoryFilter {
		filtered := items[:0]
		for _, item := range items {
			if item.Status != models.DeliveryRetirado && hasVehicleData(item.Vehicle) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
		total = len(items)

		from := (page - 1) * pageSize
		if from > len(items) {
			from = len(items)
		}
		to := from + pageSize
		if to > len(items) {
			to = len(items)
		}
		items = items[from:to]
	}

	return items, paginate(page, pageSize, total), nil
}

func (s *DeliveryService) buildItems(procedures []models.Procedure) ([]models.DeliveryListItem, error) {
	procedureIDs := make([]string, len(procedures))
	for i, p := range procedures {
		procedureIDs[i] = p.ID
	}

	statuses, err := s.store.DeliveryStatusesByProcedureIDs(procedureIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery statuses: %w", err)
	}
	vehiclesByClient, err := s.store.VehiclesByClientIDs(distinctClientIDs(procedures))
	if err != nil {
		return nil, fmt.Errorf("failed to load pickup vehicles: %w", err)
	}

	items := make([]models.DeliveryListItem, 0, len(procedures))
	for _, p := range procedures {
		item := models.DeliveryListItem{
			ID:            p.ID,
			CreatedAt:     p.CreatedAt,
			Notes:         p.Notes,
			Paid:          p.Paid,
			TotalAmount:   p.TotalAmount,
			AmountPaid:    p.AmountPaid,
			Status:        models.DeliveryPendienteRecepcion, // default until first action
			Client:        clientWithPhoneOverride(p),
			Vehicle:       models.ResolveVehicle(p.Notes, vehiclesByClient[p.ClientID]),
			ProcedureType: p.ProcedureType,
		}
		if status, ok := statuses[p.ID]; ok {
			item.Status = status.Status
			item.ReceivedAt = status.ReceivedAt
			item.NotifiedAt = status.NotifiedAt
			item.PickedUpAt = status.PickedUpAt
		}
		items = append(items, item)
	}
	return items, nil
}

func hasVehicleData(v *models.Vehicle) bool {
	return v != nil &&
		strings.TrimSpace(v.Domain) != "" &&
		strings.TrimSpace(v.Brand) != "" &&
		strings.TrimSpace(v.Model) != ""
}
