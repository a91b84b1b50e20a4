package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

// Analytics repositorio de analítica sobre el almacén.
func (s *Store) Analytics() repository.AnalyticsRepository { return &analyticsRepo{s} }

type analyticsRepo struct{ s *Store }

// agencyDeals deals cuyos creators pertenecen a la agencia. Llamar con mu tomado.
func (r *analyticsRepo) agencyDeals(agencyID string) []entity.Deal {
	var out []entity.Deal
	for _, d := range r.s.d.deals {
		if c, ok := r.s.d.creators[d.CreatorID]; ok && c.AgencyID == agencyID {
			out = append(out, d)
		}
	}
	return out
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func (r *analyticsRepo) DealTotalsByStatus(_ context.Context, agencyID string) ([]repository.StatusTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("analytics.DealTotalsByStatus"); err != nil {
		return nil, err
	}
	type key struct {
		status   entity.DealStatus
		currency string
	}
	totals := map[key]*repository.StatusTotal{}
	for _, d := range r.agencyDeals(agencyID) {
		k := key{d.Status, d.Currency}
		t, ok := totals[k]
		if !ok {
			t = &repository.StatusTotal{Status: d.Status, Currency: d.Currency, Amount: decimal.Zero}
			totals[k] = t
		}
		t.Count++
		if d.Amount != nil {
			t.Amount = t.Amount.Add(*d.Amount)
		}
	}
	out := make([]repository.StatusTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		return out[i].Currency < out[j].Currency
	})
	return out, nil
}

func (r *analyticsRepo) CompletedRevenue(_ context.Context, agencyID string, start, end time.Time) ([]repository.CurrencyAmount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sums := map[string]decimal.Decimal{}
	for _, d := range r.agencyDeals(agencyID) {
		if d.Status != entity.DealCompleted || !inRange(d.UpdatedAt, start, end) {
			continue
		}
		sum, ok := sums[d.Currency]
		if !ok {
			sum = decimal.Zero
		}
		if d.Amount != nil {
			sum = sum.Add(*d.Amount)
		}
		sums[d.Currency] = sum
	}
	out := make([]repository.CurrencyAmount, 0, len(sums))
	for cur, amount := range sums {
		out = append(out, repository.CurrencyAmount{Currency: cur, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (r *analyticsRepo) TopCreators(_ context.Context, agencyID string, start, end time.Time, limit int) ([]repository.CreatorRevenue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	type key struct{ creatorID, currency string }
	byKey := map[key]*repository.CreatorRevenue{}
	for _, d := range r.agencyDeals(agencyID) {
		if d.Status != entity.DealCompleted || !inRange(d.UpdatedAt, start, end) {
			continue
		}
		k := key{d.CreatorID, d.Currency}
		row, ok := byKey[k]
		if !ok {
			c := r.s.d.creators[d.CreatorID]
			row = &repository.CreatorRevenue{CreatorID: c.ID, Name: c.Name, Niche: c.Niche, Currency: d.Currency, Revenue: decimal.Zero}
			byKey[k] = row
		}
		row.CompletedDeals++
		if d.Amount != nil {
			row.Revenue = row.Revenue.Add(*d.Amount)
		}
	}
	out := make([]repository.CreatorRevenue, 0, len(byKey))
	for _, row := range byKey {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *analyticsRepo) UpcomingActions(_ context.Context, agencyID string, from, to time.Time, limit int) ([]*entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Deal
	for _, d := range r.agencyDeals(agencyID) {
		if d.NextActionAt == nil || d.Status.IsTerminal() || !inRange(*d.NextActionAt, from, to) {
			continue
		}
		deal := d
		out = append(out, &deal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextActionAt.Before(*out[j].NextActionAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
