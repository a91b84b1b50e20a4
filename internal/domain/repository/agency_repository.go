package repository

import (
	"context"

	"github.com/jhoicas/Agencia-api/internal/domain/entity"
)

// AgencyRepository define el puerto de persistencia para Agency.
type AgencyRepository interface {
	Create(ctx context.Context, agency *entity.Agency) error
	GetByID(ctx context.Context, id string) (*entity.Agency, error)
	// IsMember consulta la membresía en cada llamada; no se cachea.
	IsMember(ctx context.Context, agencyID, userID string) (bool, error)
	ListMembers(ctx context.Context, agencyID string) ([]entity.AgencyMember, error)
	CountCreators(ctx context.Context, agencyID string) (int, error)
}
