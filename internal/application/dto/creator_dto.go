package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SocialHandleDTO cuenta social de un creator (campos opcionales).
type SocialHandleDTO struct {
	Handle string `json:"handle,omitempty" validate:"omitempty,max=200"`
	Token  string `json:"token,omitempty" validate:"omitempty,max=2000"`
}

// CreateCreatorRequest entrada para crear un creator en la agencia del usuario.
type CreateCreatorRequest struct {
	Name          string                     `json:"name" validate:"required,min=2,max=200"`
	Email         string                     `json:"email" validate:"omitempty,email"`
	Niche         string                     `json:"niche" validate:"required,min=2,max=100"`
	SocialHandles map[string]SocialHandleDTO `json:"social_handles" validate:"omitempty,dive,keys,min=1,max=50,endkeys"`
	BaseRate      *decimal.Decimal           `json:"base_rate" validate:"omitempty,gt=0,money"`
}

// UpdateCreatorRequest entrada para actualizar un creator (campos opcionales).
// SocialHandles, si viene, reemplaza el mapa completo. Email "" borra el email;
// clear_base_rate borra la tarifa.
type UpdateCreatorRequest struct {
	Name          *string                    `json:"name" validate:"omitempty,min=2,max=200"`
	Email         *string                    `json:"email" validate:"omitempty,email"`
	Niche         *string                    `json:"niche" validate:"omitempty,min=2,max=100"`
	SocialHandles map[string]SocialHandleDTO `json:"social_handles" validate:"omitempty,dive,keys,min=1,max=50,endkeys"`
	BaseRate      *decimal.Decimal           `json:"base_rate" validate:"omitempty,gt=0,money"`
	ClearBaseRate bool                       `json:"clear_base_rate"`
}

// CreatorResponse salida de un creator.
type CreatorResponse struct {
	ID            string                     `json:"id"`
	AgencyID      string                     `json:"agency_id"`
	Name          string                     `json:"name"`
	Email         string                     `json:"email,omitempty"`
	Niche         string                     `json:"niche"`
	SocialHandles map[string]SocialHandleDTO `json:"social_handles"`
	BaseRate      *decimal.Decimal           `json:"base_rate"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// CreatorListItem creator con el resumen de sus deals. DealsAmounts: una entrada por
// moneda, ordenadas por código.
type CreatorListItem struct {
	CreatorResponse
	DealCount    int                 `json:"deal_count"`
	DealsAmounts []CurrencyAmountDTO `json:"deals_amounts"`
}

// CreatorListResponse lista paginada de creators.
type CreatorListResponse struct {
	Items []CreatorListItem `json:"items"`
	Page  PageResponse      `json:"page"`
}
