package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/currency"

	"github.com/jhoicas/Agencia-api/internal/application/access"
	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/internal/application/validation"
	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

// DealUseCase ciclo de vida de los deals de los creators de la agencia.
type DealUseCase struct {
	tx       ports.TxRunner
	resolver *auth.IdentityResolver
	guard    *access.Guard
	deals    repository.DealRepository
}

// NewDealUseCase construye el caso de uso.
func NewDealUseCase(
	tx ports.TxRunner,
	resolver *auth.IdentityResolver,
	guard *access.Guard,
	deals repository.DealRepository,
) *DealUseCase {
	return &DealUseCase{tx: tx, resolver: resolver, guard: guard, deals: deals}
}

// Create registra un deal para un creator de la agencia del usuario. Siempre nace PENDING.
func (uc *DealUseCase) Create(ctx context.Context, principal string, in dto.CreateDealRequest) (*dto.DealResponse, error) {
	user, _, err := uc.resolver.ResolveWithAgency(ctx, principal)
	if err != nil {
		return nil, err
	}
	in.Brand = strings.TrimSpace(in.Brand)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	code, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	creator, err := uc.guard.AuthorizeParentCreator(ctx, user, in.CreatorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deal := &entity.Deal{
		ID:           uuid.New().String(),
		CreatorID:    creator.ID,
		Brand:        in.Brand,
		ContactName:  strings.TrimSpace(in.ContactName),
		ContactEmail: in.ContactEmail,
		Amount:       in.Amount,
		Currency:     code,
		Status:       entity.DealPending,
		Description:  in.Description,
		Requirements: in.Requirements,
		Deliverables: in.Deliverables,
		Notes:        in.Notes,
		NextActionAt: in.NextActionAt,
		ContractURL:  in.ContractURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.deals.Create(ctx, deal); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return nil, err
		}
		return nil, domain.Infra("crear deal", err)
	}
	return ToDealResponse(deal, creator), nil
}

// GetByID devuelve el deal con su creator si el usuario es miembro de la agencia dueña.
func (uc *DealUseCase) GetByID(ctx context.Context, principal, id string) (*dto.DealResponse, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	deal, creator, err := uc.guard.AuthorizeDeal(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return ToDealResponse(deal, creator), nil
}

// Update aplica una actualización parcial. Si Status difiere del actual debe ser una
// transición permitida; un status igual al actual no cuenta como transición.
// Con cualquier error el deal queda intacto.
func (uc *DealUseCase) Update(ctx context.Context, principal, id string, in dto.UpdateDealRequest) (*dto.DealResponse, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	trimPtr(in.Brand)
	trimPtr(in.ContactName)
	clearContactEmail := blankToNil(&in.ContactEmail)
	clearContractURL := blankToNil(&in.ContractURL)

	var (
		updated *entity.Deal
		owner   *entity.Creator
		from    entity.DealStatus
	)
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		deal, creator, err := uc.guard.WithTx(repos).LockDeal(ctx, user, id)
		if err != nil {
			return err
		}
		if err := validation.Struct(in); err != nil {
			return err
		}
		if err := exclusiveClear("amount", in.Amount != nil, in.ClearAmount); err != nil {
			return err
		}
		if err := exclusiveClear("next_action_at", in.NextActionAt != nil, in.ClearNextActionAt); err != nil {
			return err
		}
		from = deal.Status
		if in.Status != nil {
			next := entity.DealStatus(*in.Status)
			if next != deal.Status && !deal.Status.CanTransitionTo(next) {
				return &domain.TransitionError{From: string(deal.Status), To: string(next)}
			}
			deal.Status = next
		}
		if in.Currency != nil {
			code, err := normalizeCurrency(*in.Currency)
			if err != nil {
				return err
			}
			deal.Currency = code
		}
		applyDealChanges(deal, in)
		if clearContactEmail {
			deal.ContactEmail = ""
		}
		if clearContractURL {
			deal.ContractURL = ""
		}
		deal.UpdatedAt = time.Now().UTC()
		if err := repos.Deals.Update(ctx, deal); err != nil {
			return domain.Infra("actualizar deal", err)
		}
		updated, owner = deal, creator
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated.Status != from {
		logTransition(updated.ID, user.ID, from, updated.Status)
	}
	return ToDealResponse(updated, owner), nil
}

// Transition cambia solo el estado. A diferencia de Update, pedir el estado actual
// es una transición inválida.
func (uc *DealUseCase) Transition(ctx context.Context, principal, id string, in dto.TransitionRequest) (*dto.DealResponse, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	var (
		updated *entity.Deal
		owner   *entity.Creator
		from    entity.DealStatus
	)
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		deal, creator, err := uc.guard.WithTx(repos).LockDeal(ctx, user, id)
		if err != nil {
			return err
		}
		if err := validation.Struct(in); err != nil {
			return err
		}
		next := entity.DealStatus(in.Status)
		if !deal.Status.CanTransitionTo(next) {
			return &domain.TransitionError{From: string(deal.Status), To: string(next)}
		}
		from = deal.Status
		deal.Status = next
		deal.UpdatedAt = time.Now().UTC()
		if err := repos.Deals.Update(ctx, deal); err != nil {
			return domain.Infra("actualizar estado del deal", err)
		}
		updated, owner = deal, creator
		return nil
	})
	if err != nil {
		return nil, err
	}
	logTransition(updated.ID, user.ID, from, updated.Status)
	return ToDealResponse(updated, owner), nil
}

// AllowedTransitions informa los estados alcanzables desde el estado actual del deal.
func (uc *DealUseCase) AllowedTransitions(ctx context.Context, principal, id string) (*dto.DealTransitionsResponse, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	deal, _, err := uc.guard.AuthorizeDeal(ctx, user, id)
	if err != nil {
		return nil, err
	}
	next := deal.Status.NextStatuses()
	out := &dto.DealTransitionsResponse{
		DealID:   deal.ID,
		Current:  string(deal.Status),
		Next:     make([]string, 0, len(next)),
		Terminal: deal.Status.IsTerminal(),
	}
	for _, s := range next {
		out.Next = append(out.Next, string(s))
	}
	return out, nil
}

// List lista los deals de la agencia del usuario. Si se filtra por creator, éste debe
// pertenecer a la agencia (mismo orden NotFound/Forbidden que una lectura directa).
func (uc *DealUseCase) List(ctx context.Context, principal, creatorID, status string, page dto.PageRequest) (*dto.DealListResponse, error) {
	user, agency, err := uc.resolver.ResolveWithAgency(ctx, principal)
	if err != nil {
		return nil, err
	}
	filter := repository.DealFilter{AgencyID: agency.ID}
	if creatorID != "" {
		creator, err := uc.guard.AuthorizeCreator(ctx, user, creatorID)
		if err != nil {
			return nil, err
		}
		filter.CreatorID = creator.ID
	}
	if status != "" {
		s := entity.DealStatus(strings.ToUpper(strings.TrimSpace(status)))
		if !s.Valid() {
			return nil, domain.NewValidationError("status", "status no es un estado de deal válido")
		}
		filter.Status = s
	}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	deals, err := uc.deals.List(ctx, filter)
	if err != nil {
		return nil, domain.Infra("listar deals", err)
	}
	items := make([]dto.DealResponse, 0, len(deals))
	for _, d := range deals {
		items = append(items, *ToDealResponse(d, nil))
	}
	return &dto.DealListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un deal de la agencia del usuario.
func (uc *DealUseCase) Delete(ctx context.Context, principal, id string) error {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		deal, _, err := uc.guard.WithTx(repos).LockDeal(ctx, user, id)
		if err != nil {
			return err
		}
		if err := repos.Deals.Delete(ctx, deal.ID); err != nil {
			return domain.Infra("eliminar deal", err)
		}
		return nil
	})
}

func applyDealChanges(deal *entity.Deal, in dto.UpdateDealRequest) {
	if in.Brand != nil {
		deal.Brand = *in.Brand
	}
	if in.ContactName != nil {
		deal.ContactName = *in.ContactName
	}
	if in.ContactEmail != nil {
		deal.ContactEmail = *in.ContactEmail
	}
	if in.Amount != nil {
		deal.Amount = in.Amount
	} else if in.ClearAmount {
		deal.Amount = nil
	}
	if in.Description != nil {
		deal.Description = *in.Description
	}
	if in.Requirements != nil {
		deal.Requirements = *in.Requirements
	}
	if in.Deliverables != nil {
		deal.Deliverables = *in.Deliverables
	}
	if in.Notes != nil {
		deal.Notes = *in.Notes
	}
	if in.NextActionAt != nil {
		deal.NextActionAt = in.NextActionAt
	} else if in.ClearNextActionAt {
		deal.NextActionAt = nil
	}
	if in.ContractURL != nil {
		deal.ContractURL = *in.ContractURL
	}
}

// normalizeCurrency valida el código ISO 4217; vacío equivale a la moneda por defecto.
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return entity.DefaultCurrency, nil
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", domain.NewValidationError("currency", "currency no es un código ISO 4217 reconocido")
	}
	return unit.String(), nil
}

func logTransition(dealID, userID string, from, to entity.DealStatus) {
	log.Info().
		Str("deal_id", dealID).
		Str("user_id", userID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("deal cambió de estado")
}

// ToDealResponse convierte el deal a DTO; creator es opcional.
func ToDealResponse(d *entity.Deal, creator *entity.Creator) *dto.DealResponse {
	out := &dto.DealResponse{
		ID:           d.ID,
		CreatorID:    d.CreatorID,
		Brand:        d.Brand,
		ContactName:  d.ContactName,
		ContactEmail: d.ContactEmail,
		Amount:       d.Amount,
		Currency:     d.Currency,
		Status:       string(d.Status),
		Description:  d.Description,
		Requirements: d.Requirements,
		Deliverables: d.Deliverables,
		Notes:        d.Notes,
		NextActionAt: d.NextActionAt,
		ContractURL:  d.ContractURL,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if creator != nil {
		out.Creator = &dto.DealCreatorRef{ID: creator.ID, Name: creator.Name, Niche: creator.Niche}
	}
	return out
}
