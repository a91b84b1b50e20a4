package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardRequest período opcional (YYYY-MM-DD) para ingresos y top creators.
// Por defecto: del primer día del mes en curso a hoy.
type DashboardRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// CurrencyAmountDTO monto en una moneda. Nunca se mezclan monedas.
type CurrencyAmountDTO struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// StatusSummaryDTO deals en un estado del ciclo de vida.
type StatusSummaryDTO struct {
	Status  string              `json:"status"`
	Count   int                 `json:"count"`
	Amounts []CurrencyAmountDTO `json:"amounts"`
}

// TopCreatorDTO creator con ingresos de deals completados.
type TopCreatorDTO struct {
	CreatorID      string          `json:"creator_id"`
	Name           string          `json:"name"`
	Niche          string          `json:"niche"`
	CompletedDeals int             `json:"completed_deals"`
	Revenue        decimal.Decimal `json:"revenue"`
	Currency       string          `json:"currency"`
}

// DashboardSummaryDTO resumen de la agencia.
type DashboardSummaryDTO struct {
	CreatorCount    int                 `json:"creator_count"`
	ActiveDeals     int                 `json:"active_deals"`
	Pipeline        []StatusSummaryDTO  `json:"pipeline"`
	PipelineValue   []CurrencyAmountDTO `json:"pipeline_value"`
	Revenue         []CurrencyAmountDTO `json:"revenue"`
	TopCreators     []TopCreatorDTO     `json:"top_creators"`
	UpcomingActions []DealResponse      `json:"upcoming_actions"`
	PeriodStart     time.Time           `json:"period_start"`
	PeriodEnd       time.Time           `json:"period_end"`
	DateLabel       string              `json:"date_label"`
}
