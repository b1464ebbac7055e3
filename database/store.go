// database/store.go
package database

import (
	"time"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
)

// Store adapts the package-level query helpers to the narrow interfaces the
// service layer consumes, so services can be exercised with fakes in tests.
type Store struct{}

func (Store) GetProcedureByID(procedureID string) (*models.Procedure, error) {
	return GetProcedureByID(procedureID)
}

func (Store) ListProcedures(params ProcedureListParams) ([]models.Procedure, int, error) {
	return ListProcedures(params)
}

func (Store) SearchClientIDs(q string) ([]string, error) {
	return SearchClientIDs(q)
}

func (Store) VehiclesByClientIDs(clientIDs []string) (map[string][]models.Vehicle, error) {
	return VehiclesByClientIDs(clientIDs)
}

func (Store) AlertStatusesByProcedureIDs(procedureIDs []string) (map[string]models.AlertStatus, error) {
	return GetAlertStatusesByProcedureIDs(procedureIDs)
}

func (Store) SaveAlertStatus(status models.AlertStatus) error {
	return SaveAlertStatus(status)
}

func (Store) SaveAlertStatuses(statuses []models.AlertStatus) error {
	return SaveAlertStatuses(statuses)
}

func (Store) MarkAlertNotified(procedureID string, now time.Time) error {
	return MarkAlertNotified(procedureID, now)
}

func (Store) DeliveryStatusesByProcedureIDs(procedureIDs []string) (map[string]models.DeliveryStatus, error) {
	return GetDeliveryStatusesByProcedureIDs(procedureIDs)
}

func (Store) UpsertDeliveryStatus(procedureID, status string, receivedAt, notifiedAt, pickedUpAt *time.Time, now time.Time) error {
	return UpsertDeliveryStatus(procedureID, status, receivedAt, notifiedAt, pickedUpAt, now)
}

func (Store) UpdateProcedurePayment(procedureID string, amountPaid float64, paid bool) error {
	return UpdateProcedurePayment(procedureID, amountPaid, paid)
}

func (Store) UpdateProcedureAmounts(procedureID string, amountPaid, totalAmount float64, paid bool) error {
	return UpdateProcedureAmounts(procedureID, amountPaid, totalAmount, paid)
}
