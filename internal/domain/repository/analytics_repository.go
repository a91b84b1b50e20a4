package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Agencia-api/internal/domain/entity"
)

// StatusTotal número de deals y suma de montos para un (estado, moneda).
type StatusTotal struct {
	Status   entity.DealStatus
	Currency string
	Count    int
	Amount   decimal.Decimal
}

// CurrencyAmount suma de montos en una moneda.
type CurrencyAmount struct {
	Currency string
	Amount   decimal.Decimal
}

// CreatorRevenue ingresos de deals COMPLETED de un creator en una moneda.
type CreatorRevenue struct {
	CreatorID      string
	Name           string
	Niche          string
	Currency       string
	CompletedDeals int
	Revenue        decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el dashboard de la agencia.
// Los montos nunca se suman entre monedas distintas.
type AnalyticsRepository interface {
	DealTotalsByStatus(ctx context.Context, agencyID string) ([]StatusTotal, error)
	// CompletedRevenue agrupa por moneda los deals COMPLETED cuya última actualización cae en [start, end].
	CompletedRevenue(ctx context.Context, agencyID string, start, end time.Time) ([]CurrencyAmount, error)
	TopCreators(ctx context.Context, agencyID string, start, end time.Time, limit int) ([]CreatorRevenue, error)
	// UpcomingActions deals no terminales con next_action_at en [from, to], más próximos primero.
	UpcomingActions(ctx context.Context, agencyID string, from, to time.Time, limit int) ([]*entity.Deal, error)
}
