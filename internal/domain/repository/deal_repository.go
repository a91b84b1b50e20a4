package repository

import (
	"context"

	"github.com/jhoicas/Agencia-api/internal/domain/entity"
)

// DealFilter filtros opcionales para listar deals de una agencia.
type DealFilter struct {
	AgencyID  string
	CreatorID string            // vacío = todos los creators de la agencia
	Status    entity.DealStatus // vacío = todos los estados
	Limit     int
	Offset    int
}

// DealRepository define el puerto de persistencia para Deal.
type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	GetByID(ctx context.Context, id string) (*entity.Deal, error)
	// GetByIDForUpdate bloquea la fila del deal; solo dentro de una tx.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Deal, error)
	// Update persiste los campos editables y el estado; creator_id nunca se modifica.
	Update(ctx context.Context, deal *entity.Deal) error
	List(ctx context.Context, f DealFilter) ([]*entity.Deal, error)
	Delete(ctx context.Context, id string) error
	// DeleteByCreator elimina todos los deals del creator y devuelve cuántos borró.
	DeleteByCreator(ctx context.Context, creatorID string) (int64, error)
}
