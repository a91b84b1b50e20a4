package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/internal/application/validation"
	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

// AgencyUseCase aprovisionamiento y lectura de la agencia del usuario.
type AgencyUseCase struct {
	tx       ports.TxRunner
	resolver *auth.IdentityResolver
	agencies repository.AgencyRepository
}

// NewAgencyUseCase construye el caso de uso.
func NewAgencyUseCase(tx ports.TxRunner, resolver *auth.IdentityResolver, agencies repository.AgencyRepository) *AgencyUseCase {
	return &AgencyUseCase{tx: tx, resolver: resolver, agencies: agencies}
}

// Provision crea la agencia del usuario, lo vincula como primer miembro y lo promueve a ADMIN.
// Todo ocurre en una sola transacción con la fila del usuario bloqueada, de modo que dos
// llamadas concurrentes producen exactamente una agencia y la segunda recibe ErrAgencyExists.
func (uc *AgencyUseCase) Provision(ctx context.Context, principal string, in dto.ProvisionAgencyRequest) (*dto.AgencyResponse, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if user.HasAgency() {
		return nil, domain.ErrAgencyExists
	}

	now := time.Now().UTC()
	agency := &entity.Agency{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var admin *entity.User
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		locked, err := repos.Users.GetByIDForUpdate(ctx, user.ID)
		if err != nil {
			return domain.Infra("bloquear usuario", err)
		}
		if locked == nil {
			return domain.ErrUnauthenticated
		}
		if locked.HasAgency() {
			return domain.ErrAgencyExists
		}
		if err := repos.Agencies.Create(ctx, agency); err != nil {
			return domain.Infra("crear agencia", err)
		}
		if err := repos.Users.AttachAgency(ctx, locked.ID, agency.ID, entity.RoleAdmin); err != nil {
			if errors.Is(err, domain.ErrAgencyExists) {
				return err
			}
			return domain.Infra("vincular usuario a agencia", err)
		}
		locked.AgencyID = &agency.ID
		locked.Role = entity.RoleAdmin
		admin = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("agency_id", agency.ID).
		Str("user_id", admin.ID).
		Msg("agencia aprovisionada; usuario promovido a ADMIN")

	return toAgencyResponse(agency, []entity.AgencyMember{{
		ID: admin.ID, Email: admin.Email, Name: admin.Name, Role: admin.Role,
	}}, 0), nil
}

// Get devuelve la agencia del usuario con sus miembros y el número de creators.
func (uc *AgencyUseCase) Get(ctx context.Context, principal string) (*dto.AgencyResponse, error) {
	user, err := uc.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	agency, err := uc.resolver.ResolveAgency(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrNoAgency) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	members, err := uc.agencies.ListMembers(ctx, agency.ID)
	if err != nil {
		return nil, domain.Infra("listar miembros", err)
	}
	count, err := uc.agencies.CountCreators(ctx, agency.ID)
	if err != nil {
		return nil, domain.Infra("contar creators", err)
	}
	return toAgencyResponse(agency, members, count), nil
}

func toAgencyResponse(a *entity.Agency, members []entity.AgencyMember, creatorCount int) *dto.AgencyResponse {
	out := &dto.AgencyResponse{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		Members:      make([]dto.AgencyMemberResponse, 0, len(members)),
		CreatorCount: creatorCount,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	for _, m := range members {
		out.Members = append(out.Members, dto.AgencyMemberResponse{ID: m.ID, Email: m.Email, Name: m.Name, Role: m.Role})
	}
	return out
}
