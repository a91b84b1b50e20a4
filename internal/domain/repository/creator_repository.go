package repository

import (
	"context"

	"github.com/jhoicas/Agencia-api/internal/domain/entity"
)

// CreatorRepository define el puerto de persistencia para Creator.
type CreatorRepository interface {
	Create(ctx context.Context, creator *entity.Creator) error
	GetByID(ctx context.Context, id string) (*entity.Creator, error)
	// GetByIDForUpdate bloquea la fila del creator; solo dentro de una tx.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Creator, error)
	// Update persiste los campos editables; agency_id nunca se modifica.
	Update(ctx context.Context, creator *entity.Creator) error
	ListByAgency(ctx context.Context, agencyID string, limit, offset int) ([]*entity.CreatorSummary, error)
	Delete(ctx context.Context, id string) error
}
