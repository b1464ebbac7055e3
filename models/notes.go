// models/notes.go
package models

import (
	"regexp"
	"strings"
)

// Procedure notes can carry tagged overrides written by the office:
//   [DOMINIO:ABC123]  the vehicle this procedure is really about
//   [TEL:1145551234]  a contact phone overriding the client's
// An older free-form "dominio: ABC123" spelling is still honored.
var (
	taggedDomainRegex = regexp.MustCompile(`(?i)\[DOMINIO:([A-Z0-9-]+)\]`)
	legacyDomainRegex = regexp.MustCompile(`(?i)dominio:\s*([A-Z0-9-]+)`)
	taggedPhoneRegex  = regexp.MustCompile(`(?i)\[TEL:([0-9]+)\]`)
)

// ExtractDomainFromNotes returns the uppercased domain override embedded in
// the notes, or "" when there is none.
func ExtractDomainFromNotes(notes string) string {
	if notes == "" {
		return ""
	}
	if m := taggedDomainRegex.FindStringSubmatch(notes); len(m) > 1 {
		return strings.ToUpper(m[1])
	}
	if m := legacyDomainRegex.FindStringSubmatch(notes); len(m) > 1 {
		return strings.ToUpper(m[1])
	}
	return ""
}

// ExtractPhoneFromNotes returns the phone override embedded in the notes,
// or "" when there is none.
func ExtractPhoneFromNotes(notes string) string {
	if notes == "" {
		return ""
	}
	if m := taggedPhoneRegex.FindStringSubmatch(notes); len(m) > 1 {
		return m[1]
	}
	return ""
}

// ResolveVehicle picks the vehicle a procedure refers to: the notes override
// when it matches one of the client's vehicles by domain, otherwise the
// client's first vehicle. Returns nil when the client has no vehicles.
func ResolveVehicle(notes string, vehicles []Vehicle) *Vehicle {
	if len(vehicles) == 0 {
		return nil
	}
	domain := ExtractDomainFromNotes(notes)
	if domain == "" {
		return &vehicles[0]
	}
	for i := range vehicles {
		if strings.ToUpper(strings.TrimSpace(vehicles[i].Domain)) == domain {
			return &vehicles[i]
		}
	}
	return &vehicles[0]
}
