package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SocialHandle datos de una cuenta social del creator (todos opcionales).
type SocialHandle struct {
	Handle string `json:"handle,omitempty"`
	Token  string `json:"token,omitempty"`
}

// Creator representa un perfil de talento gestionado por exactamente una Agency.
// AgencyID se fija al crear y nunca cambia.
type Creator struct {
	ID            string
	AgencyID      string
	Name          string
	Email         string
	Niche         string
	SocialHandles map[string]SocialHandle // plataforma -> cuenta
	BaseRate      *decimal.Decimal        // nil = sin tarifa base
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreatorSummary agrega un creator con el resumen de sus deals (para listados).
// Los montos se suman por moneda; deals sin monto solo cuentan en DealCount.
type CreatorSummary struct {
	Creator
	DealCount    int
	DealsAmounts map[string]decimal.Decimal // moneda -> suma
}
