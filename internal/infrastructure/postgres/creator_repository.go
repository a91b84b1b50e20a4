package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

var _ repository.CreatorRepository = (*CreatorRepo)(nil)

const creatorColumns = `c.id, c.agency_id, c.name, c.email, c.niche, c.social_handles, c.base_rate, c.created_at, c.updated_at`

// CreatorRepo implementación del puerto CreatorRepository sobre PostgreSQL (usable con pool o tx).
type CreatorRepo struct {
	q Querier
}

// NewCreatorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreatorRepository(q Querier) *CreatorRepo {
	return &CreatorRepo{q: q}
}

// Create persiste un nuevo creator. social_handles se guarda como JSONB.
func (r *CreatorRepo) Create(ctx context.Context, c *entity.Creator) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO creators (id, agency_id, name, email, niche, social_handles, base_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.AgencyID, c.Name, c.Email, c.Niche, handlesOrEmpty(c.SocialHandles), c.BaseRate,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert creator: %w", err)
	}
	return nil
}

// GetByID obtiene un creator por ID.
func (r *CreatorRepo) GetByID(ctx context.Context, id string) (*entity.Creator, error) {
	return r.findOne(ctx, `SELECT `+creatorColumns+` FROM creators c WHERE c.id = $1`, id)
}

// GetByIDForUpdate obtiene el creator bloqueando su fila: un deal nuevo para este creator
// espera al commit (y falla por FK si el creator se borró).
func (r *CreatorRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Creator, error) {
	return r.findOne(ctx, `SELECT `+creatorColumns+` FROM creators c WHERE c.id = $1 FOR UPDATE`, id)
}

// Update persiste los campos editables. agency_id no se toca.
func (r *CreatorRepo) Update(ctx context.Context, c *entity.Creator) error {
	_, err := r.q.Exec(ctx, `
		UPDATE creators
		SET name = $2, email = $3, niche = $4, social_handles = $5, base_rate = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, c.Email, c.Niche, handlesOrEmpty(c.SocialHandles), c.BaseRate, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update creator: %w", err)
	}
	return nil
}

// ListByAgency lista los creators de la agencia con el número de sus deals y el total
// por moneda (jsonb {"USD": 1500.00, ...}; nunca se suman monedas distintas).
func (r *CreatorRepo) ListByAgency(ctx context.Context, agencyID string, limit, offset int) ([]*entity.CreatorSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+creatorColumns+`,
		       (SELECT COUNT(*) FROM deals d WHERE d.creator_id = c.id),
		       COALESCE((
		           SELECT jsonb_object_agg(t.currency, t.total)
		           FROM (
		               SELECT d.currency, SUM(d.amount) AS total
		               FROM deals d
		               WHERE d.creator_id = c.id AND d.amount IS NOT NULL
		               GROUP BY d.currency
		           ) t
		       ), '{}'::jsonb)
		FROM creators c
		WHERE c.agency_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`,
		agencyID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list creators: %w", err)
	}
	defer rows.Close()

	var list []*entity.CreatorSummary
	for rows.Next() {
		var s entity.CreatorSummary
		if err := rows.Scan(
			&s.ID, &s.AgencyID, &s.Name, &s.Email, &s.Niche, &s.SocialHandles, &s.BaseRate,
			&s.CreatedAt, &s.UpdatedAt, &s.DealCount, &s.DealsAmounts,
		); err != nil {
			return nil, fmt.Errorf("scan creator: %w", err)
		}
		if s.SocialHandles == nil {
			s.SocialHandles = map[string]entity.SocialHandle{}
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina el creator. Falla por FK si aún tiene deals.
func (r *CreatorRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM creators WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete creator: %w", err)
	}
	return nil
}

func (r *CreatorRepo) findOne(ctx context.Context, query, id string) (*entity.Creator, error) {
	if !isUUID(id) {
		return nil, nil
	}
	c, err := scanCreator(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get creator: %w", err)
	}
	return c, nil
}

func scanCreator(row pgx.Row) (*entity.Creator, error) {
	var c entity.Creator
	if err := row.Scan(
		&c.ID, &c.AgencyID, &c.Name, &c.Email, &c.Niche, &c.SocialHandles, &c.BaseRate,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if c.SocialHandles == nil {
		c.SocialHandles = map[string]entity.SocialHandle{}
	}
	return &c, nil
}

func handlesOrEmpty(h map[string]entity.SocialHandle) map[string]entity.SocialHandle {
	if h == nil {
		return map[string]entity.SocialHandle{}
	}
	return h
}
