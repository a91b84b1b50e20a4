package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

// EntityKind tipo de entidad protegida por el guard.
type EntityKind string

const (
	KindCreator EntityKind = "creator"
	KindDeal    EntityKind = "deal"
)

// OwnedEntity entidad autorizada junto con su cadena de propiedad resuelta.
// Para KindCreator, Deal es nil.
type OwnedEntity struct {
	Kind     EntityKind
	Creator  *entity.Creator
	Deal     *entity.Deal
	AgencyID string
}

// Guard decide el acceso a creators y deals recorriendo Deal -> Creator -> Agency -> {Users}.
//
// Orden canónico: primero existencia (ErrNotFound), luego membresía (ErrForbidden).
// La membresía se consulta en cada llamada; ninguna decisión se cachea.
type Guard struct {
	agencies repository.AgencyRepository
	creators repository.CreatorRepository
	deals    repository.DealRepository
}

// NewGuard construye el guard sobre los repositorios dados (pool o tx).
func NewGuard(
	agencies repository.AgencyRepository,
	creators repository.CreatorRepository,
	deals repository.DealRepository,
) *Guard {
	return &Guard{agencies: agencies, creators: creators, deals: deals}
}

// WithTx devuelve un guard cuyas lecturas corren dentro de la transacción de repos.
func (g *Guard) WithTx(repos ports.TxRepos) *Guard {
	return NewGuard(repos.Agencies, repos.Creators, repos.Deals)
}

// Authorize resuelve la entidad (kind, id) y verifica que user sea miembro de la agencia dueña.
func (g *Guard) Authorize(ctx context.Context, user *entity.User, kind EntityKind, id string) (*OwnedEntity, error) {
	switch kind {
	case KindCreator:
		creator, err := g.AuthorizeCreator(ctx, user, id)
		if err != nil {
			return nil, err
		}
		return &OwnedEntity{Kind: kind, Creator: creator, AgencyID: creator.AgencyID}, nil
	case KindDeal:
		deal, creator, err := g.AuthorizeDeal(ctx, user, id)
		if err != nil {
			return nil, err
		}
		return &OwnedEntity{Kind: kind, Creator: creator, Deal: deal, AgencyID: creator.AgencyID}, nil
	default:
		return nil, fmt.Errorf("tipo de entidad desconocido: %q", kind)
	}
}

// AuthorizeCreator carga el creator y verifica la membresía del usuario en su agencia.
func (g *Guard) AuthorizeCreator(ctx context.Context, user *entity.User, creatorID string) (*entity.Creator, error) {
	return g.creator(ctx, user, creatorID, false)
}

// LockCreator igual que AuthorizeCreator pero bloquea la fila (usar dentro de una tx).
func (g *Guard) LockCreator(ctx context.Context, user *entity.User, creatorID string) (*entity.Creator, error) {
	return g.creator(ctx, user, creatorID, true)
}

// AuthorizeDeal carga el deal, su creator y verifica la membresía en la agencia del creator.
func (g *Guard) AuthorizeDeal(ctx context.Context, user *entity.User, dealID string) (*entity.Deal, *entity.Creator, error) {
	return g.deal(ctx, user, dealID, false)
}

// LockDeal igual que AuthorizeDeal pero bloquea la fila del deal (usar dentro de una tx).
func (g *Guard) LockDeal(ctx context.Context, user *entity.User, dealID string) (*entity.Deal, *entity.Creator, error) {
	return g.deal(ctx, user, dealID, true)
}

// AuthorizeParentCreator valida el creator referenciado al crear un deal.
// Inexistente o de otra agencia: ErrForbidden (el insert nunca llega a ejecutarse).
func (g *Guard) AuthorizeParentCreator(ctx context.Context, user *entity.User, creatorID string) (*entity.Creator, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !validID(creatorID) {
		return nil, fmt.Errorf("%w: creator no encontrado o sin acceso", domain.ErrForbidden)
	}
	creator, err := g.creators.GetByID(ctx, creatorID)
	if err != nil {
		return nil, domain.Infra("cargar creator", err)
	}
	if creator == nil {
		return nil, fmt.Errorf("%w: creator no encontrado o sin acceso", domain.ErrForbidden)
	}
	if err := g.checkMembership(ctx, user, creator.AgencyID); err != nil {
		return nil, err
	}
	return creator, nil
}

func (g *Guard) creator(ctx context.Context, user *entity.User, creatorID string, lock bool) (*entity.Creator, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !validID(creatorID) {
		return nil, fmt.Errorf("%w: creator %s", domain.ErrNotFound, creatorID)
	}
	var (
		creator *entity.Creator
		err     error
	)
	if lock {
		creator, err = g.creators.GetByIDForUpdate(ctx, creatorID)
	} else {
		creator, err = g.creators.GetByID(ctx, creatorID)
	}
	if err != nil {
		return nil, domain.Infra("cargar creator", err)
	}
	if creator == nil {
		return nil, fmt.Errorf("%w: creator %s", domain.ErrNotFound, creatorID)
	}
	if err := g.checkMembership(ctx, user, creator.AgencyID); err != nil {
		return nil, err
	}
	return creator, nil
}

func (g *Guard) deal(ctx context.Context, user *entity.User, dealID string, lock bool) (*entity.Deal, *entity.Creator, error) {
	if user == nil {
		return nil, nil, domain.ErrUnauthenticated
	}
	if !validID(dealID) {
		return nil, nil, fmt.Errorf("%w: deal %s", domain.ErrNotFound, dealID)
	}
	var (
		deal *entity.Deal
		err  error
	)
	if lock {
		deal, err = g.deals.GetByIDForUpdate(ctx, dealID)
	} else {
		deal, err = g.deals.GetByID(ctx, dealID)
	}
	if err != nil {
		return nil, nil, domain.Infra("cargar deal", err)
	}
	if deal == nil {
		return nil, nil, fmt.Errorf("%w: deal %s", domain.ErrNotFound, dealID)
	}
	creator, err := g.creators.GetByID(ctx, deal.CreatorID)
	if err != nil {
		return nil, nil, domain.Infra("cargar creator del deal", err)
	}
	if creator == nil {
		// Cadena rota: ninguna agencia puede acreditar la propiedad.
		return nil, nil, domain.ErrForbidden
	}
	if err := g.checkMembership(ctx, user, creator.AgencyID); err != nil {
		return nil, nil, err
	}
	return deal, creator, nil
}

func (g *Guard) checkMembership(ctx context.Context, user *entity.User, agencyID string) error {
	member, err := g.agencies.IsMember(ctx, agencyID, user.ID)
	if err != nil {
		return domain.Infra("verificar membresía", err)
	}
	if !member {
		return domain.ErrForbidden
	}
	return nil
}

// validID: los ids son UUID; cualquier otro valor no puede existir en la BD.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
