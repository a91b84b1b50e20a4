package entity

import "time"

// Agency es el límite de tenant: posee creators y tiene usuarios miembros.
type Agency struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AgencyMember es la vista reducida de un usuario miembro de la agencia.
type AgencyMember struct {
	ID    string
	Email string
	Name  string
	Role  string
}
