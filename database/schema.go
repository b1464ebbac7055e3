// database/schema.go
package database

import (
	"fmt"
	"log"
)

// Status projections are created lazily at runtime, so their tables must
// exist before the first upsert. EnsureSchema is idempotent and runs at
// startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id CHAR(36) NOT NULL,
		first_name VARCHAR(120) NOT NULL,
		last_name VARCHAR(120) NOT NULL,
		phone VARCHAR(40) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id CHAR(36) NOT NULL,
		client_id CHAR(36) NOT NULL,
		brand VARCHAR(80) NOT NULL DEFAULT '',
		model VARCHAR(80) NOT NULL DEFAULT '',
		domain VARCHAR(16) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_vehicles_client (client_id),
		KEY idx_vehicles_domain (domain)
	)`,
	`CREATE TABLE IF NOT EXISTS procedure_types (
		id CHAR(36) NOT NULL,
		code VARCHAR(40) NOT NULL,
		display_name VARCHAR(120) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_procedure_types_code (code)
	)`,
	`CREATE TABLE IF NOT EXISTS client_procedures (
		id CHAR(36) NOT NULL,
		client_id CHAR(36) NOT NULL,
		procedure_type_id CHAR(36) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		notes TEXT,
		paid TINYINT(1) NOT NULL DEFAULT 0,
		total_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
		amount_paid DECIMAL(12,2) NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		KEY idx_procedures_client (client_id),
		KEY idx_procedures_type_created (procedure_type_id, created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS procedure_alert_status (
		procedure_id CHAR(36) NOT NULL,
		status VARCHAR(32) NOT NULL,
		enargas_last_operation_date DATE NULL,
		last_checked_at DATETIME NOT NULL,
		notified_at DATETIME NULL,
		notes VARCHAR(255) NOT NULL DEFAULT '',
		PRIMARY KEY (procedure_id)
	)`,
	`CREATE TABLE IF NOT EXISTS procedure_delivery_status (
		procedure_id CHAR(36) NOT NULL,
		status VARCHAR(32) NOT NULL,
		received_at DATETIME NULL,
		notified_at DATETIME NULL,
		picked_up_at DATETIME NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (procedure_id)
	)`,
}

// EnsureSchema creates the tables this service owns if they do not exist.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	for _, stmt := range schemaStatements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	log.Println("Database schema ensured.")
	return nil
}
