package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Agencia-api/internal/application/access"
	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

// DealBriefUseCase genera la ficha PDF de un deal para compartir con la marca o el creator.
type DealBriefUseCase struct {
	resolver  *auth.IdentityResolver
	guard     *access.Guard
	agencies  repository.AgencyRepository
	generator ports.DealBriefGenerator
}

// NewDealBriefUseCase construye el caso de uso.
func NewDealBriefUseCase(
	resolver *auth.IdentityResolver,
	guard *access.Guard,
	agencies repository.AgencyRepository,
	generator ports.DealBriefGenerator,
) *DealBriefUseCase {
	return &DealBriefUseCase{resolver: resolver, guard: guard, agencies: agencies, generator: generator}
}

// Download autoriza el deal y devuelve (pdf, nombre de archivo).
// Mismo orden de errores que GetByID: NotFound antes que Forbidden.
func (uc *DealBriefUseCase) Download(ctx context.Context, principal, dealID string) ([]byte, string, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, "", err
	}
	deal, creator, err := uc.guard.AuthorizeDeal(ctx, user, dealID)
	if err != nil {
		return nil, "", err
	}
	agency, err := uc.agencies.GetByID(ctx, creator.AgencyID)
	if err != nil {
		return nil, "", domain.Infra("ficha: obtener agencia", err)
	}
	if agency == nil {
		return nil, "", domain.ErrForbidden
	}

	pdf, err := uc.generator.GenerateDealBrief(ctx, ports.DealBrief{
		Agency:      agency,
		Creator:     creator,
		Deal:        deal,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, "", domain.Infra("ficha: generar pdf", err)
	}
	return pdf, briefFilename(deal.Brand, deal.ID), nil
}

// briefFilename ej: "deal_nike_3f2a9c1e.pdf". Solo [a-z0-9_] en la parte de la marca.
func briefFilename(brand, id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(brand)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		slug = "deal"
	}
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("deal_%s_%s.pdf", slug, short)
}
