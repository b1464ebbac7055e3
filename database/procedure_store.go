// database/procedure_store.go
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/models"
)

const procedureSelectColumns = `
	p.id, p.client_id, p.created_at, COALESCE(p.notes, ''), p.paid,
	p.total_amount, p.amount_paid,
	c.id, c.first_name, c.last_name, c.phone, c.created_at,
	t.id, t.code, t.display_name
`

// GetProcedureByID returns one procedure joined with its client and type,
// or (nil, nil) when it does not exist.
func GetProcedureByID(procedureID string) (*models.Procedure, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	row := DB.QueryRow(`
		SELECT `+procedureSelectColumns+`
		FROM client_procedures p
		JOIN clients c ON c.id = p.client_id
		JOIN procedure_types t ON t.id = p.procedure_type_id
		WHERE p.id = ?
	`, procedureID)

	p, err := scanProcedure(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found is not an error, just no result
		}
		return nil, fmt.Errorf("failed to query procedure %s: %w", procedureID, err)
	}
	return p, nil
}

// SearchClientIDs resolves a free-text query to client ids, matching vehicle
// domain/brand/model and client name/phone the way the office searches.
func SearchClientIDs(q string) ([]string, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	like := "%" + q + "%"
	seen := make(map[string]bool)
	var ids []string

	rows, err := DB.Query(`
		SELECT DISTINCT client_id FROM vehicles
		WHERE domain LIKE ? OR brand LIKE ? OR model LIKE ?
		LIMIT 1000
	`, like, like, like)
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicles for %q: %w", q, err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan matched vehicle row: %w", err)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matched vehicles: %w", err)
	}

	clientRows, err := DB.Query(`
		SELECT id FROM clients
		WHERE first_name LIKE ? OR last_name LIKE ? OR phone LIKE ?
		LIMIT 1000
	`, like, like, like)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients for %q: %w", q, err)
	}
	defer clientRows.Close()
	for clientRows.Next() {
		var id string
		if err := clientRows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan matched client row: %w", err)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if err := clientRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matched clients: %w", err)
	}

	return ids, nil
}

// ProcedureListParams narrows and pages a procedure listing. ClientIDs nil
// means "no client filter"; an empty non-nil slice means a search matched
// nothing and the listing must come back empty. Limit <= 0 disables paging
// (used when a status filter must be applied in memory first).
type ProcedureListParams struct {
	TypeCodes []string
	ClientIDs []string
	From      *time.Time
	To        *time.Time
	Offset    int
	Limit     int
}

// ListProcedures returns one page of procedures (newest first) plus the
// total count for the applied filters.
func ListProcedures(params ProcedureListParams) ([]models.Procedure, int, error) {
	if DB == nil {
		return nil, 0, fmt.Errorf("database connection is not initialized")
	}
	if params.ClientIDs != nil && len(params.ClientIDs) == 0 {
		return nil, 0, nil
	}

	var conditions []string
	var args []interface{}

	if len(params.TypeCodes) > 0 {
		conditions = append(conditions, fmt.Sprintf("t.code IN (%s)", placeholders(len(params.TypeCodes))))
		args = append(args, stringArgs(params.TypeCodes)...)
	}
	if params.ClientIDs != nil {
		conditions = append(conditions, fmt.Sprintf("p.client_id IN (%s)", placeholders(len(params.ClientIDs))))
		args = append(args, stringArgs(params.ClientIDs)...)
	}
	if params.From != nil {
		conditions = append(conditions, "p.created_at >= ?")
		args = append(args, *params.From)
	}
	if params.To != nil {
		conditions = append(conditions, "p.created_at < ?")
		args = append(args, *params.To)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM client_procedures p
		JOIN procedure_types t ON t.id = p.procedure_type_id
		%s
	`, where)
	if err := DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count procedures: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+procedureSelectColumns+`
		FROM client_procedures p
		JOIN clients c ON c.id = p.client_id
		JOIN procedure_types t ON t.id = p.procedure_type_id
		%s
		ORDER BY p.created_at DESC, p.id DESC
	`, where)
	if params.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, params.Limit, params.Offset)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query procedures: %w", err)
	}
	defer rows.Close()

	var procedures []models.Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan procedure row: %w", err)
		}
		procedures = append(procedures, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating procedure rows: %w", err)
	}

	return procedures, total, nil
}

// VehiclesByClientIDs returns each client's vehicles ordered by creation,
// keyed by client id.
func VehiclesByClientIDs(clientIDs []string) (map[string][]models.Vehicle, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	result := make(map[string][]models.Vehicle)
	if len(clientIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT id, client_id, brand, model, domain, created_at
		FROM vehicles
		WHERE client_id IN (%s)
		ORDER BY created_at ASC, id ASC
	`, placeholders(len(clientIDs)))

	rows, err := DB.Query(query, stringArgs(clientIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.ClientID, &v.Brand, &v.Model, &v.Domain, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle row: %w", err)
		}
		result[v.ClientID] = append(result[v.ClientID], v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vehicle rows: %w", err)
	}
	return result, nil
}

// UpdateProcedurePayment persists the folded payment state after a pickup.
func UpdateProcedurePayment(procedureID string, amountPaid float64, paid bool) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	_, err := DB.Exec(`
		UPDATE client_procedures SET amount_paid = ?, paid = ? WHERE id = ?
	`, amountPaid, paid, procedureID)
	if err != nil {
		return fmt.Errorf("failed to update payment for procedure %s: %w", procedureID, err)
	}
	return nil
}

// UpdateProcedureAmounts sets payment fields directly (office correction
// path). totalAmount < 0 leaves the current total untouched.
func UpdateProcedureAmounts(procedureID string, amountPaid, totalAmount float64, paid bool) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	var err error
	if totalAmount < 0 {
		_, err = DB.Exec(`
			UPDATE client_procedures SET amount_paid = ?, paid = ? WHERE id = ?
		`, amountPaid, paid, procedureID)
	} else {
		_, err = DB.Exec(`
			UPDATE client_procedures SET amount_paid = ?, total_amount = ?, paid = ? WHERE id = ?
		`, amountPaid, totalAmount, paid, procedureID)
	}
	if err != nil {
		return fmt.Errorf("failed to update amounts for procedure %s: %w", procedureID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProcedure(row rowScanner) (*models.Procedure, error) {
	var p models.Procedure
	var c models.Client
	var t models.ProcedureType
	err := row.Scan(
		&p.ID, &p.ClientID, &p.CreatedAt, &p.Notes, &p.Paid,
		&p.TotalAmount, &p.AmountPaid,
		&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.CreatedAt,
		&t.ID, &t.Code, &t.DisplayName,
	)
	if err != nil {
		return nil, err
	}
	p.Client = &c
	p.ProcedureType = &t
	return &p, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
