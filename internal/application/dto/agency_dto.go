package dto

import "time"

// ProvisionAgencyRequest entrada para crear la agencia del usuario.
type ProvisionAgencyRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// AgencyMemberResponse miembro de una agencia.
type AgencyMemberResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AgencyResponse salida de una agencia con sus miembros.
type AgencyResponse struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Members      []AgencyMemberResponse `json:"members"`
	CreatorCount int                    `json:"creator_count"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
