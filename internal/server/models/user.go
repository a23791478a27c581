// Package models defines server-side data models persisted in the database.
package models

import "time"

// Roles known to the portal. A route guard compares the identity's role
// against exactly one of these.
const (
	RoleAdmin        = "admin"
	RoleContratista  = "contratista"
	RoleSst          = "sst"
	RoleInterventor  = "interventor"
	RoleSeguridad    = "seguridad"
	RoleCapacitacion = "capacitacion"
)

// User is a portal account. PolicyDocumentKey is the object-storage key of
// the signed policy-acceptance document generated at registration; empty
// when the user never accepted one.
type User struct {
	ID                string
	Username          string
	PasswordHash      string
	Role              string
	Empresa           string
	Email             string
	PolicyDocumentKey string
	CreatedAt         time.Time
}
