// services/alert_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/config"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/database"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/scraper"
)

const noteNoDomain = "Sin dominio asociado"

// ProbeFunc is the registry lookup the reconciliation engine drives. In
// production it is (*scraper.RegistryProbe).CheckDomain.
type ProbeFunc func(ctx context.Context, domain string) scraper.ProbeResult

// AlertStore is the persistence surface the reconciliation engine needs.
type AlertStore interface {
	GetProcedureByID(procedureID string) (*models.Procedure, error)
	ListProcedures(params database.ProcedureListParams) ([]models.Procedure, int, error)
	SearchClientIDs(q string) ([]string, error)
	VehiclesByClientIDs(clientIDs []string) (map[string][]models.Vehicle, error)
	AlertStatusesByProcedureIDs(procedureIDs []string) (map[string]models.AlertStatus, error)
	SaveAlertStatus(status models.AlertStatus) error
	SaveAlertStatuses(statuses []models.AlertStatus) error
	MarkAlertNotified(procedureID string, now time.Time) error
}

// AlertService reconciles registry operation dates into notification
// statuses. Probing is intentionally sequential with a fixed minimum gap
// between lookups: the delay is a rate limit on the external registry, not
// an implementation accident.
type AlertService struct {
	store      AlertStore
	probe      ProbeFunc
	limiter    *rate.Limiter
	maxDomains int
	now        func() time.Time
}

func NewAlertService(store AlertStore, probe ProbeFunc, cfg config.ScraperConfig) *AlertService {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.DelayBetweenProbes > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.DelayBetweenProbes), 1)
	}
	return &AlertService{
		store:      store,
		probe:      probe,
		limiter:    limiter,
		maxDomains: cfg.MaxDomainsPerRun,
		now:        time.Now,
	}
}

// CheckProcedure reconciles a single procedure: probes the owning client's
// distinct domains in creation order, stopping at the first one the registry
// knows about. Returns (nil, nil) when the procedure does not exist.
func (s *AlertService) CheckProcedure(ctx context.Context, procedureID string) (*models.SingleCheckResult, error) {
	procedure, err := s.store.GetProcedureByID(procedureID)
	if err != nil {
		return nil, fmt.Errorf("failed to load procedure %s: %w", procedureID, err)
	}
	if procedure == nil {
		return nil, nil
	}

	vehiclesByClient, err := s.store.VehiclesByClientIDs([]string{procedure.ClientID})
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicles for client %s: %w", procedure.ClientID, err)
	}
	domains := distinctDomains(vehiclesByClient[procedure.ClientID])
	now := s.now()

	if len(domains) == 0 {
		// Inconsistency, not a failure: recorded as data.
		status := models.AlertStatus{
			ProcedureID:   procedure.ID,
			Status:        models.AlertNoCorrespondeAvisar,
			LastCheckedAt: now,
			Notes:         noteNoDomain,
		}
		if err := s.store.SaveAlertStatus(status); err != nil {
			return nil, err
		}
		return &models.SingleCheckResult{
			ProcedureID: procedure.ID,
			Status:      status.Status,
			Notes:       status.Notes,
		}, nil
	}

	probeRes := s.probeWithDelay(ctx, domains[0])
	for i := 1; i < len(domains) && probeRes.LastOperationDate == ""; i++ {
		probeRes = s.probeWithDelay(ctx, domains[i])
	}

	prior, err := s.store.AlertStatusesByProcedureIDs([]string{procedure.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load prior alert status: %w", err)
	}

	status := decideStatus(probeRes.LastOperationDate, procedure.CreatedAt, prior[procedure.ID].Status)
	note := probeNote(probeRes)
	row := models.AlertStatus{
		ProcedureID:              procedure.ID,
		Status:                   status,
		EnargasLastOperationDate: registryDateValue(probeRes.LastOperationDate),
		LastCheckedAt:            now,
		Notes:                    note,
	}
	if err := s.store.SaveAlertStatus(row); err != nil {
		return nil, err
	}

	return &models.SingleCheckResult{
		ProcedureID:              procedure.ID,
		Status:                   status,
		EnargasLastOperationDate: probeRes.LastOperationDate,
		Notes:                    note,
	}, nil
}

// CheckBatch reconciles every eligible procedure matched by the filter.
// Distinct domains across the batch are probed at most once, capped at the
// configured ceiling; probe failures are absorbed into diagnostic notes and
// never abort the run. Only the final upsert can fail the batch.
func (s *AlertService) CheckBatch(ctx context.Context, filter models.BatchCheckRequest) (*models.BatchCheckResult, error) {
	params := database.ProcedureListParams{
		TypeCodes: models.AlertTargetCodes,
		Limit:     1200,
	}

	query := strings.TrimSpace(filter.Query)
	searchMode := query != ""
	if searchMode {
		clientIDs, err := s.store.SearchClientIDs(query)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve search %q: %w", query, err)
		}
		if len(clientIDs) == 0 {
			return &models.BatchCheckResult{}, nil
		}
		params.ClientIDs = clientIDs
	}

	if !filter.All && !searchMode {
		period := filter.Month
		if period == "" {
			period = filter.Date
		}
		if from, to, ok := monthRange(period); ok {
			params.From = &from
			params.To = &to
		}
	}

	procedures, _, err := s.store.ListProcedures(params)
	if err != nil {
		return nil, fmt.Errorf("failed to select eligible procedures: %w", err)
	}
	if len(procedures) == 0 {
		return &models.BatchCheckResult{}, nil
	}

	clientIDs := distinctClientIDs(procedures)
	vehiclesByClient, err := s.store.VehiclesByClientIDs(clientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch vehicles: %w", err)
	}
	domainsByClient := make(map[string][]string, len(vehiclesByClient))
	for clientID, vehicles := range vehiclesByClient {
		domainsByClient[clientID] = distinctDomains(vehicles)
	}

	procedureIDs := make([]string, len(procedures))
	for i, p := range procedures {
		procedureIDs[i] = p.ID
	}
	priorStatuses, err := s.store.AlertStatusesByProcedureIDs(procedureIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior alert statuses: %w", err)
	}

	// Distinct union of domains across the batch: procedures sharing a
	// vehicle cost one probe, not one each.
	seen := make(map[string]bool)
	var uniqueDomains []string
	for _, p := range procedures {
		for _, domain := range domainsByClient[p.ClientID] {
			if !seen[domain] {
				seen[domain] = true
				uniqueDomains = append(uniqueDomains, domain)
			}
		}
	}

	domainsToCheck := uniqueDomains
	skipped := 0
	if len(uniqueDomains) > s.maxDomains {
		domainsToCheck = uniqueDomains[:s.maxDomains]
		skipped = len(uniqueDomains) - s.maxDomains
		log.Printf("WARN Service: batch check hit the %d-domain safety ceiling; %d domains skipped.", s.maxDomains, skipped)
	}

	probeResults := make(map[string]scraper.ProbeResult, len(domainsToCheck))
	for _, domain := range domainsToCheck {
		probeResults[domain] = s.probeWithDelay(ctx, domain)
	}

	now := s.now()
	statuses := make([]models.AlertStatus, 0, len(procedures))
	result := &models.BatchCheckResult{
		Checked:               len(procedures),
		DomainsChecked:        len(domainsToCheck),
		DomainsSkippedByLimit: skipped,
	}

	for _, p := range procedures {
		clientDomains := domainsByClient[p.ClientID]

		// Prefer the first candidate the registry actually has a record
		// for; fall back to the first candidate so the note still says
		// which domain was tried.
		selected := ""
		for _, domain := range clientDomains {
			if res, ok := probeResults[domain]; ok && res.LastOperationDate != "" {
				selected = domain
				break
			}
		}
		if selected == "" && len(clientDomains) > 0 {
			selected = clientDomains[0]
		}

		registryDate := ""
		note := noteNoDomain
		if selected != "" {
			if res, ok := probeResults[selected]; ok {
				registryDate = res.LastOperationDate
				note = probeNote(res)
			} else {
				// Skipped by the ceiling: never probed this run.
				note = "Dominio consultado: " + scraper.NormalizeDomain(selected)
			}
		}

		status := decideStatus(registryDate, p.CreatedAt, priorStatuses[p.ID].Status)
		switch status {
		case models.AlertPendienteDeAvisar:
			result.Pending++
		case models.AlertNoCorrespondeAvisar:
			result.NoCorrespond++
		}

		statuses = append(statuses, models.AlertStatus{
			ProcedureID:              p.ID,
			Status:                   status,
			EnargasLastOperationDate: registryDateValue(registryDate),
			LastCheckedAt:            now,
			Notes:                    note,
		})
	}

	if err := s.store.SaveAlertStatuses(statuses); err != nil {
		// Hard failure: the caller must assume no status changed.
		return nil, err
	}

	log.Printf("Service: batch check done. checked=%d pending=%d noCorrespond=%d domains=%d skipped=%d",
		result.Checked, result.Pending, result.NoCorrespond, result.DomainsChecked, result.DomainsSkippedByLimit)
	return result, nil
}

// MarkNotified records a human-performed WhatsApp/phone notification.
func (s *AlertService) MarkNotified(procedureID string) error {
	return s.store.MarkAlertNotified(procedureID, s.now())
}

func (s *AlertService) probeWithDelay(ctx context.Context, domain string) scraper.ProbeResult {
	if err := s.limiter.Wait(ctx); err != nil {
		return scraper.ProbeResult{Domain: scraper.NormalizeDomain(domain), Err: err.Error()}
	}
	return s.probe(ctx, domain)
}

// decideStatus applies the reconciliation rule: the registry date must share
// month and year with the procedure's compliance period, and an existing
// AVISADO is never downgraded while the match still holds.
func decideStatus(registryDate string, createdAt time.Time, priorStatus string) string {
	if !sameMonthYear(registryDate, createdAt) {
		return models.AlertNoCorrespondeAvisar
	}
	if priorStatus == models.AlertAvisado {
		return models.AlertAvisado
	}
	return models.AlertPendienteDeAvisar
}

func sameMonthYear(registryDate string, createdAt time.Time) bool {
	t, err := time.Parse("02/01/2006", registryDate)
	if err != nil {
		return false
	}
	return t.Month() == createdAt.Month() && t.Year() == createdAt.Year()
}

// registryDateValue converts the day-first probe text to a calendar date for
// storage, or nil when there is none.
func registryDateValue(registryDate string) *time.Time {
	if registryDate == "" {
		return nil
	}
	t, err := time.Parse("02/01/2006", registryDate)
	if err != nil {
		return nil
	}
	return &t
}

func probeNote(res scraper.ProbeResult) string {
	if res.Err != "" {
		return "Error ENARGAS: " + res.Err
	}
	return "Dominio consultado: " + res.Domain
}

// distinctDomains keeps the client's domains deduplicated and
// order-preserving by vehicle creation.
func distinctDomains(vehicles []models.Vehicle) []string {
	seen := make(map[string]bool)
	var domains []string
	for _, v := range vehicles {
		domain := strings.TrimSpace(v.Domain)
		if domain == "" || seen[domain] {
			continue
		}
		seen[domain] = true
		domains = append(domains, domain)
	}
	return domains
}

func distinctClientIDs(procedures []models.Procedure) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range procedures {
		if p.ClientID == "" || seen[p.ClientID] {
			continue
		}
		seen[p.ClientID] = true
		ids = append(ids, p.ClientID)
	}
	return ids
}

// monthRange turns a "YYYY-MM" (or longer, truncated) period into the
// [start, end) window of that month in UTC.
func monthRange(period string) (time.Time, time.Time, bool) {
	if len(period) < 7 {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.Parse("2006-01", period[:7])
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, start.AddDate(0, 1, 0), true
}
