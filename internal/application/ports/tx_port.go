package ports

import (
	"context"

	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Users    repository.UserRepository
	Agencies repository.AgencyRepository
	Creators repository.CreatorRepository
	Deals    repository.DealRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD. Si fn devuelve error se hace
// Rollback y nada de lo escrito queda visible; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
