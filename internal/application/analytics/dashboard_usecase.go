// Package analytics contiene el resumen de la agencia: embudo de deals, ingresos
// del período, top creators y próximas acciones.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/usecase"
	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

const (
	dashboardTopCreators = 5
	upcomingWindow       = 7 * 24 * time.Hour
	upcomingLimit        = 10
	dateLayout           = "2006-01-02"
)

// DashboardUseCase genera el resumen de la agencia del usuario.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). Solo se consulta la
// agencia a la que pertenece el usuario; no hay parámetro de agencia.
type DashboardUseCase struct {
	resolver  *auth.IdentityResolver
	agencies  repository.AgencyRepository
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(resolver *auth.IdentityResolver, agencies repository.AgencyRepository, analytics repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{resolver: resolver, agencies: agencies, analytics: analytics, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco consultas en paralelo:
//  1. CountCreators
//  2. DealTotalsByStatus        → Pipeline, PipelineValue, ActiveDeals
//  3. CompletedRevenue(período) → Revenue
//  4. TopCreators(período, 5)   → TopCreators
//  5. UpcomingActions(7 días)   → UpcomingActions
func (uc *DashboardUseCase) GetSummary(ctx context.Context, principal string, in dto.DashboardRequest) (*dto.DashboardSummaryDTO, error) {
	_, agency, err := uc.resolver.ResolveWithAgency(ctx, principal)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	start, end, err := period(in, now)
	if err != nil {
		return nil, err
	}

	type countResult struct {
		n   int
		err error
	}
	type totalsResult struct {
		rows []repository.StatusTotal
		err  error
	}
	type revenueResult struct {
		rows []repository.CurrencyAmount
		err  error
	}
	type topResult struct {
		rows []repository.CreatorRevenue
		err  error
	}
	type upcomingResult struct {
		deals []*entity.Deal
		err   error
	}

	countCh := make(chan countResult, 1)
	totalsCh := make(chan totalsResult, 1)
	revenueCh := make(chan revenueResult, 1)
	topCh := make(chan topResult, 1)
	upcomingCh := make(chan upcomingResult, 1)

	go func() {
		n, err := uc.agencies.CountCreators(ctx, agency.ID)
		countCh <- countResult{n, err}
	}()
	go func() {
		rows, err := uc.analytics.DealTotalsByStatus(ctx, agency.ID)
		totalsCh <- totalsResult{rows, err}
	}()
	go func() {
		rows, err := uc.analytics.CompletedRevenue(ctx, agency.ID, start, end)
		revenueCh <- revenueResult{rows, err}
	}()
	go func() {
		rows, err := uc.analytics.TopCreators(ctx, agency.ID, start, end, dashboardTopCreators)
		topCh <- topResult{rows, err}
	}()
	go func() {
		deals, err := uc.analytics.UpcomingActions(ctx, agency.ID, now, now.Add(upcomingWindow), upcomingLimit)
		upcomingCh <- upcomingResult{deals, err}
	}()

	count := <-countCh
	totals := <-totalsCh
	revenue := <-revenueCh
	top := <-topCh
	upcoming := <-upcomingCh

	for _, r := range []struct {
		op  string
		err error
	}{
		{"contar creators", count.err},
		{"totales por estado", totals.err},
		{"ingresos del período", revenue.err},
		{"top creators", top.err},
		{"próximas acciones", upcoming.err},
	} {
		if r.err != nil {
			return nil, domain.Infra("dashboard: "+r.op, r.err)
		}
	}

	out := &dto.DashboardSummaryDTO{
		CreatorCount:    count.n,
		Revenue:         toCurrencyAmounts(revenue.rows),
		TopCreators:     make([]dto.TopCreatorDTO, 0, len(top.rows)),
		UpcomingActions: make([]dto.DealResponse, 0, len(upcoming.deals)),
		PeriodStart:     start,
		PeriodEnd:       end,
		DateLabel:       monthLabel(start),
	}
	out.Pipeline, out.PipelineValue, out.ActiveDeals = pipeline(totals.rows)
	for _, t := range top.rows {
		out.TopCreators = append(out.TopCreators, dto.TopCreatorDTO{
			CreatorID:      t.CreatorID,
			Name:           t.Name,
			Niche:          t.Niche,
			CompletedDeals: t.CompletedDeals,
			Revenue:        t.Revenue.Round(2),
			Currency:       t.Currency,
		})
	}
	for _, d := range upcoming.deals {
		out.UpcomingActions = append(out.UpcomingActions, *usecase.ToDealResponse(d, nil))
	}
	return out, nil
}

// pipeline ordena los totales según el ciclo de vida (estados sin deals con count 0) y
// suma por moneda el valor de los deals abiertos.
func pipeline(rows []repository.StatusTotal) ([]dto.StatusSummaryDTO, []dto.CurrencyAmountDTO, int) {
	byStatus := make(map[entity.DealStatus]*dto.StatusSummaryDTO, len(entity.DealStatuses))
	out := make([]dto.StatusSummaryDTO, len(entity.DealStatuses))
	for i, s := range entity.DealStatuses {
		out[i] = dto.StatusSummaryDTO{Status: string(s), Amounts: []dto.CurrencyAmountDTO{}}
		byStatus[s] = &out[i]
	}

	var open []repository.CurrencyAmount
	active := 0
	for _, r := range rows {
		summary, ok := byStatus[r.Status]
		if !ok {
			continue
		}
		summary.Count += r.Count
		summary.Amounts = append(summary.Amounts, dto.CurrencyAmountDTO{Currency: r.Currency, Amount: r.Amount.Round(2)})
		if r.Status == entity.DealActive {
			active += r.Count
		}
		if !r.Status.IsTerminal() {
			open = append(open, repository.CurrencyAmount{Currency: r.Currency, Amount: r.Amount})
		}
	}
	return out, toCurrencyAmounts(mergeCurrencies(open)), active
}

func mergeCurrencies(rows []repository.CurrencyAmount) []repository.CurrencyAmount {
	var out []repository.CurrencyAmount
	index := map[string]int{}
	for _, r := range rows {
		if i, ok := index[r.Currency]; ok {
			out[i].Amount = out[i].Amount.Add(r.Amount)
			continue
		}
		index[r.Currency] = len(out)
		out = append(out, r)
	}
	return out
}

func toCurrencyAmounts(rows []repository.CurrencyAmount) []dto.CurrencyAmountDTO {
	out := make([]dto.CurrencyAmountDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CurrencyAmountDTO{Currency: r.Currency, Amount: r.Amount.Round(2)})
	}
	return out
}

// period resuelve [start, end] a partir de fechas YYYY-MM-DD (ambas inclusive).
func period(in dto.DashboardRequest, now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if s := strings.TrimSpace(in.StartDate); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewValidationError("start_date", "start_date debe tener formato YYYY-MM-DD")
		}
		start = t
	}
	if s := strings.TrimSpace(in.EndDate); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewValidationError("end_date", "end_date debe tener formato YYYY-MM-DD")
		}
		end = t
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.NewValidationError("end_date", "end_date no puede ser anterior a start_date")
	}
	return start, end.Add(24*time.Hour - time.Nanosecond), nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Octubre 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
