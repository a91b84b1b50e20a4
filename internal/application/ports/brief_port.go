package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Agencia-api/internal/domain/entity"
)

// DealBrief datos ya autorizados que se imprimen en la ficha del deal.
type DealBrief struct {
	Agency      *entity.Agency
	Creator     *entity.Creator
	Deal        *entity.Deal
	GeneratedAt time.Time
}

// DealBriefGenerator puerto de salida para la ficha PDF de un deal.
type DealBriefGenerator interface {
	GenerateDealBrief(ctx context.Context, brief DealBrief) ([]byte, error)
}
