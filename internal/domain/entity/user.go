package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User representa una persona autenticada. Pertenece como máximo a una Agency.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string  // vacío para identidades autenticadas externamente
	Role         string  // USER, ADMIN
	AgencyID     *string // nil = sin agencia
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasAgency informa si el usuario ya participa en una agencia.
func (u *User) HasAgency() bool {
	return u.AgencyID != nil && *u.AgencyID != ""
}

// HasCredentials informa si el usuario puede iniciar sesión con password.
func (u *User) HasCredentials() bool {
	return u.PasswordHash != ""
}
