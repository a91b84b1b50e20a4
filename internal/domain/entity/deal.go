package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency moneda asignada cuando el deal no especifica una.
const DefaultCurrency = "USD"

// Deal representa un acuerdo con una marca para exactamente un Creator.
// CreatorID se fija al crear y nunca cambia.
type Deal struct {
	ID           string
	CreatorID    string
	Brand        string
	ContactName  string
	ContactEmail string
	Amount       *decimal.Decimal // nil = sin monto acordado
	Currency     string
	Status       DealStatus
	Description  string
	Requirements string
	Deliverables string
	Notes        string
	NextActionAt *time.Time
	ContractURL  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
