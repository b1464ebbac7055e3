// models/client.go
package models

import "time"

// Client owns vehicles and procedures. Phone is the workshop's contact
// number for the whole account; individual procedures may override it via a
// [TEL:...] tag in their notes.
type Client struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Vehicle is identified by its domain (license plate, e.g. "ABC123" or
// "AB123CD"). A client may own several; a procedure's vehicle is resolved
// through the notes override or defaults to the client's first vehicle.
type Vehicle struct {
	ID        string    `db:"id" json:"id"`
	ClientID  string    `db:"client_id" json:"clientId"`
	Brand     string    `db:"brand" json:"brand"`
	Model     string    `db:"model" json:"model"`
	Domain    string    `db:"domain" json:"domain"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
