package auth

import (
	"context"

	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

// IdentityResolver traduce el principal autenticado (id de usuario del token) al User
// y, transitivamente, a su Agency. No guarda estado: cada llamada vuelve a leer la BD
// para que un cambio de membresía o de rol se vea en la siguiente petición.
type IdentityResolver struct {
	users    repository.UserRepository
	agencies repository.AgencyRepository
}

// NewIdentityResolver construye el resolvedor.
func NewIdentityResolver(users repository.UserRepository, agencies repository.AgencyRepository) *IdentityResolver {
	return &IdentityResolver{users: users, agencies: agencies}
}

// Resolve carga el usuario del principal. Sin principal o sin fila: ErrUnauthenticated.
func (r *IdentityResolver) Resolve(ctx context.Context, principal string) (*entity.User, error) {
	if principal == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := r.users.GetByID(ctx, principal)
	if err != nil {
		return nil, domain.Infra("resolver usuario", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// ResolveAgency devuelve la agencia del usuario o ErrNoAgency si no tiene.
func (r *IdentityResolver) ResolveAgency(ctx context.Context, user *entity.User) (*entity.Agency, error) {
	if !user.HasAgency() {
		return nil, domain.ErrNoAgency
	}
	agency, err := r.agencies.GetByID(ctx, *user.AgencyID)
	if err != nil {
		return nil, domain.Infra("resolver agencia", err)
	}
	if agency == nil {
		return nil, domain.ErrNoAgency
	}
	return agency, nil
}

// ResolveWithAgency combina Resolve y ResolveAgency.
func (r *IdentityResolver) ResolveWithAgency(ctx context.Context, principal string) (*entity.User, *entity.Agency, error) {
	user, err := r.Resolve(ctx, principal)
	if err != nil {
		return nil, nil, err
	}
	agency, err := r.ResolveAgency(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, agency, nil
}
