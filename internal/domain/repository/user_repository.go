package repository

import (
	"context"

	"github.com/jhoicas/Agencia-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get* devuelven (nil, nil) cuando no existe la fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByIDForUpdate bloquea la fila del usuario (SELECT FOR UPDATE); solo dentro de una tx.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	// AttachAgency vincula el usuario a la agencia y fija su rol en la misma sentencia.
	AttachAgency(ctx context.Context, userID, agencyID, role string) error
}
