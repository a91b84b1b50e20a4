package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de la agencia.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// DealTotalsByStatus cuenta deals y suma montos por estado y moneda.
// Los deals sin monto cuentan pero no suman.
func (r *AnalyticsRepo) DealTotalsByStatus(ctx context.Context, agencyID string) ([]repository.StatusTotal, error) {
	const query = `
	SELECT
	    d.status,
	    d.currency,
	    COUNT(*)                   AS deal_count,
	    COALESCE(SUM(d.amount), 0) AS total_amount
	FROM deals d
	JOIN creators c ON c.id = d.creator_id
	WHERE c.agency_id = $1
	GROUP BY d.status, d.currency
	ORDER BY d.status, d.currency`

	rows, err := r.q.Query(ctx, query, agencyID)
	if err != nil {
		return nil, fmt.Errorf("analytics.DealTotalsByStatus: %w", err)
	}
	defer rows.Close()

	var results []repository.StatusTotal
	for rows.Next() {
		var (
			row    repository.StatusTotal
			status string
		)
		if err := rows.Scan(&status, &row.Currency, &row.Count, &row.Amount); err != nil {
			return nil, fmt.Errorf("analytics.DealTotalsByStatus scan: %w", err)
		}
		row.Status = entity.DealStatus(status)
		results = append(results, row)
	}
	return results, rows.Err()
}

// CompletedRevenue suma por moneda los deals COMPLETED actualizados en el período.
func (r *AnalyticsRepo) CompletedRevenue(ctx context.Context, agencyID string, start, end time.Time) ([]repository.CurrencyAmount, error) {
	const query = `
	SELECT
	    d.currency,
	    COALESCE(SUM(d.amount), 0) AS revenue
	FROM deals d
	JOIN creators c ON c.id = d.creator_id
	WHERE c.agency_id = $1
	  AND d.status = 'COMPLETED'
	  AND d.updated_at BETWEEN $2 AND $3
	GROUP BY d.currency
	ORDER BY d.currency`

	rows, err := r.q.Query(ctx, query, agencyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("analytics.CompletedRevenue: %w", err)
	}
	defer rows.Close()

	var results []repository.CurrencyAmount
	for rows.Next() {
		var row repository.CurrencyAmount
		if err := rows.Scan(&row.Currency, &row.Amount); err != nil {
			return nil, fmt.Errorf("analytics.CompletedRevenue scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TopCreators devuelve los `limit` creators con más ingresos COMPLETED en el período.
// Un creator con deals en varias monedas aparece una vez por moneda.
func (r *AnalyticsRepo) TopCreators(ctx context.Context, agencyID string, start, end time.Time, limit int) ([]repository.CreatorRevenue, error) {
	const query = `
	SELECT
	    c.id,
	    c.name,
	    c.niche,
	    d.currency,
	    COUNT(d.id)                AS completed_deals,
	    COALESCE(SUM(d.amount), 0) AS revenue
	FROM creators c
	JOIN deals d ON d.creator_id = c.id
	WHERE c.agency_id = $1
	  AND d.status = 'COMPLETED'
	  AND d.updated_at BETWEEN $2 AND $3
	GROUP BY c.id, c.name, c.niche, d.currency
	ORDER BY revenue DESC, c.name
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, agencyID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopCreators: %w", err)
	}
	defer rows.Close()

	var results []repository.CreatorRevenue
	for rows.Next() {
		var row repository.CreatorRevenue
		if err := rows.Scan(&row.CreatorID, &row.Name, &row.Niche, &row.Currency, &row.CompletedDeals, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.TopCreators scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// UpcomingActions deals abiertos con próxima acción dentro de la ventana.
func (r *AnalyticsRepo) UpcomingActions(ctx context.Context, agencyID string, from, to time.Time, limit int) ([]*entity.Deal, error) {
	query := `
	SELECT ` + dealColumns + `
	FROM deals d
	JOIN creators c ON c.id = d.creator_id
	WHERE c.agency_id = $1
	  AND d.next_action_at BETWEEN $2 AND $3
	  AND d.status NOT IN ('COMPLETED', 'CANCELLED')
	ORDER BY d.next_action_at
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, agencyID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.UpcomingActions: %w", err)
	}
	defer rows.Close()

	var results []*entity.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("analytics.UpcomingActions scan: %w", err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}
