package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDealRequest entrada para crear un deal. El estado inicial siempre es PENDING.
type CreateDealRequest struct {
	CreatorID    string           `json:"creator_id" validate:"required"`
	Brand        string           `json:"brand" validate:"required,min=2,max=200"`
	ContactName  string           `json:"contact_name" validate:"omitempty,max=200"`
	ContactEmail string           `json:"contact_email" validate:"omitempty,email"`
	Amount       *decimal.Decimal `json:"amount" validate:"omitempty,gt=0,money"`
	Currency     string           `json:"currency" validate:"omitempty,len=3,alpha"`
	Description  string           `json:"description"`
	Requirements string           `json:"requirements"`
	Deliverables string           `json:"deliverables"`
	Notes        string           `json:"notes"`
	NextActionAt *time.Time       `json:"next_action_at"`
	ContractURL  string           `json:"contract_url" validate:"omitempty,url"`
}

// UpdateDealRequest entrada para actualizar un deal (campos opcionales).
// Status, si viene y difiere del actual, se valida contra el grafo del ciclo de vida.
// contact_email y contract_url vacíos ("") borran el valor; amount y next_action_at
// se borran con clear_amount / clear_next_action_at.
type UpdateDealRequest struct {
	Brand             *string          `json:"brand" validate:"omitempty,min=2,max=200"`
	ContactName       *string          `json:"contact_name" validate:"omitempty,max=200"`
	ContactEmail      *string          `json:"contact_email" validate:"omitempty,email"`
	Amount            *decimal.Decimal `json:"amount" validate:"omitempty,gt=0,money"`
	ClearAmount       bool             `json:"clear_amount"`
	Currency          *string          `json:"currency" validate:"omitempty,len=3,alpha"`
	Status            *string          `json:"status" validate:"omitempty,oneof=PENDING NEGOTIATING ACTIVE COMPLETED CANCELLED"`
	Description       *string          `json:"description"`
	Requirements      *string          `json:"requirements"`
	Deliverables      *string          `json:"deliverables"`
	Notes             *string          `json:"notes"`
	NextActionAt      *time.Time       `json:"next_action_at"`
	ClearNextActionAt bool             `json:"clear_next_action_at"`
	ContractURL       *string          `json:"contract_url" validate:"omitempty,url"`
}

// TransitionRequest entrada para cambiar explícitamente el estado de un deal.
type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING NEGOTIATING ACTIVE COMPLETED CANCELLED"`
}

// DealCreatorRef datos mínimos del creator dueño del deal.
type DealCreatorRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Niche string `json:"niche"`
}

// DealResponse salida de un deal.
type DealResponse struct {
	ID           string           `json:"id"`
	CreatorID    string           `json:"creator_id"`
	Creator      *DealCreatorRef  `json:"creator,omitempty"`
	Brand        string           `json:"brand"`
	ContactName  string           `json:"contact_name,omitempty"`
	ContactEmail string           `json:"contact_email,omitempty"`
	Amount       *decimal.Decimal `json:"amount"`
	Currency     string           `json:"currency"`
	Status       string           `json:"status"`
	Description  string           `json:"description,omitempty"`
	Requirements string           `json:"requirements,omitempty"`
	Deliverables string           `json:"deliverables,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	NextActionAt *time.Time       `json:"next_action_at"`
	ContractURL  string           `json:"contract_url,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// DealListResponse lista paginada de deals.
type DealListResponse struct {
	Items []DealResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// DealTransitionsResponse estados alcanzables desde el estado actual (informativo para la UI).
type DealTransitionsResponse struct {
	DealID   string   `json:"deal_id"`
	Current  string   `json:"current"`
	Next     []string `json:"next"`
	Terminal bool     `json:"terminal"`
}
