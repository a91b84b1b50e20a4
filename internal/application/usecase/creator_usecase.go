package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Agencia-api/internal/application/access"
	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/internal/application/validation"
	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

// CreatorUseCase registro de creators acotado a la agencia del usuario.
type CreatorUseCase struct {
	tx       ports.TxRunner
	resolver *auth.IdentityResolver
	guard    *access.Guard
	creators repository.CreatorRepository
}

// NewCreatorUseCase construye el caso de uso.
func NewCreatorUseCase(
	tx ports.TxRunner,
	resolver *auth.IdentityResolver,
	guard *access.Guard,
	creators repository.CreatorRepository,
) *CreatorUseCase {
	return &CreatorUseCase{tx: tx, resolver: resolver, guard: guard, creators: creators}
}

// Create crea un creator en la agencia del usuario. AgencyID queda fijo para siempre.
func (uc *CreatorUseCase) Create(ctx context.Context, principal string, in dto.CreateCreatorRequest) (*dto.CreatorResponse, error) {
	_, agency, err := uc.resolver.ResolveWithAgency(ctx, principal)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Niche = strings.TrimSpace(in.Niche)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	creator := &entity.Creator{
		ID:            uuid.New().String(),
		AgencyID:      agency.ID,
		Name:          in.Name,
		Email:         in.Email,
		Niche:         in.Niche,
		SocialHandles: toSocialHandles(in.SocialHandles),
		BaseRate:      in.BaseRate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.creators.Create(ctx, creator); err != nil {
		return nil, domain.Infra("crear creator", err)
	}
	return toCreatorResponse(creator), nil
}

// GetByID devuelve el creator si el usuario es miembro de su agencia.
func (uc *CreatorUseCase) GetByID(ctx context.Context, principal, id string) (*dto.CreatorResponse, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	creator, err := uc.guard.AuthorizeCreator(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return toCreatorResponse(creator), nil
}

// Update aplica una actualización parcial. Nunca cambia la agencia dueña.
func (uc *CreatorUseCase) Update(ctx context.Context, principal, id string, in dto.UpdateCreatorRequest) (*dto.CreatorResponse, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	trimPtr(in.Name)
	trimPtr(in.Niche)
	clearEmail := blankToNil(&in.Email)

	var updated *entity.Creator
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		creator, err := uc.guard.WithTx(repos).LockCreator(ctx, user, id)
		if err != nil {
			return err
		}
		if err := validation.Struct(in); err != nil {
			return err
		}
		if err := exclusiveClear("base_rate", in.BaseRate != nil, in.ClearBaseRate); err != nil {
			return err
		}
		if in.Name != nil {
			creator.Name = *in.Name
		}
		if in.Email != nil {
			creator.Email = *in.Email
		} else if clearEmail {
			creator.Email = ""
		}
		if in.Niche != nil {
			creator.Niche = *in.Niche
		}
		if in.SocialHandles != nil {
			creator.SocialHandles = toSocialHandles(in.SocialHandles)
		}
		if in.BaseRate != nil {
			creator.BaseRate = in.BaseRate
		} else if in.ClearBaseRate {
			creator.BaseRate = nil
		}
		creator.UpdatedAt = time.Now().UTC()
		if err := repos.Creators.Update(ctx, creator); err != nil {
			return domain.Infra("actualizar creator", err)
		}
		updated = creator
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCreatorResponse(updated), nil
}

// Delete elimina el creator y, en la misma transacción, todos sus deals.
// Si cualquier paso falla no se borra nada.
func (uc *CreatorUseCase) Delete(ctx context.Context, principal, id string) error {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return err
	}
	var removedDeals int64
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		creator, err := uc.guard.WithTx(repos).LockCreator(ctx, user, id)
		if err != nil {
			return err
		}
		removedDeals, err = repos.Deals.DeleteByCreator(ctx, creator.ID)
		if err != nil {
			return domain.Infra("eliminar deals del creator", err)
		}
		if err := repos.Creators.Delete(ctx, creator.ID); err != nil {
			return domain.Infra("eliminar creator", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().
		Str("creator_id", id).
		Str("user_id", user.ID).
		Int64("deals_removed", removedDeals).
		Msg("creator eliminado con sus deals")
	return nil
}

// List lista los creators de la agencia del usuario, más recientes primero.
func (uc *CreatorUseCase) List(ctx context.Context, principal string, page dto.PageRequest) (*dto.CreatorListResponse, error) {
	_, agency, err := uc.resolver.ResolveWithAgency(ctx, principal)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.creators.ListByAgency(ctx, agency.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Infra("listar creators", err)
	}
	items := make([]dto.CreatorListItem, 0, len(list))
	for _, c := range list {
		items = append(items, dto.CreatorListItem{
			CreatorResponse: *toCreatorResponse(&c.Creator),
			DealCount:       c.DealCount,
			DealsAmounts:    currencyAmounts(c.DealsAmounts),
		})
	}
	return &dto.CreatorListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// blankToNil recorta *s; si queda vacío lo quita del request (no pasa por email/url)
// y devuelve true: el campo opcional debe borrarse.
func blankToNil(s **string) bool {
	if *s == nil {
		return false
	}
	v := strings.TrimSpace(**s)
	if v != "" {
		**s = v
		return false
	}
	*s = nil
	return true
}

// exclusiveClear rechaza pedir a la vez un valor nuevo y el borrado del mismo campo.
func exclusiveClear(field string, set, reset bool) error {
	if set && reset {
		return domain.NewValidationError(field, field+" y clear_"+field+" son excluyentes")
	}
	return nil
}

// currencyAmounts pasa moneda -> suma a una lista ordenada por código.
func currencyAmounts(m map[string]decimal.Decimal) []dto.CurrencyAmountDTO {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out := make([]dto.CurrencyAmountDTO, 0, len(codes))
	for _, code := range codes {
		out = append(out, dto.CurrencyAmountDTO{Currency: code, Amount: m[code].Round(2)})
	}
	return out
}

func toSocialHandles(in map[string]dto.SocialHandleDTO) map[string]entity.SocialHandle {
	out := make(map[string]entity.SocialHandle, len(in))
	for platform, h := range in {
		out[strings.ToLower(strings.TrimSpace(platform))] = entity.SocialHandle{
			Handle: strings.TrimSpace(h.Handle),
			Token:  h.Token,
		}
	}
	return out
}

func toCreatorResponse(c *entity.Creator) *dto.CreatorResponse {
	if c == nil {
		return nil
	}
	handles := make(map[string]dto.SocialHandleDTO, len(c.SocialHandles))
	for platform, h := range c.SocialHandles {
		handles[platform] = dto.SocialHandleDTO{Handle: h.Handle, Token: h.Token}
	}
	return &dto.CreatorResponse{
		ID:            c.ID,
		AgencyID:      c.AgencyID,
		Name:          c.Name,
		Email:         c.Email,
		Niche:         c.Niche,
		SocialHandles: handles,
		BaseRate:      c.BaseRate,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
