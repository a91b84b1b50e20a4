package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

var _ repository.AgencyRepository = (*AgencyRepo)(nil)

// AgencyRepo implementación del puerto AgencyRepository sobre PostgreSQL.
type AgencyRepo struct {
	q Querier
}

// NewAgencyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAgencyRepository(q Querier) *AgencyRepo {
	return &AgencyRepo{q: q}
}

// Create persiste una nueva agencia.
func (r *AgencyRepo) Create(ctx context.Context, agency *entity.Agency) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO agencies (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		agency.ID, agency.Name, agency.Description, agency.CreatedAt, agency.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert agency: %w", err)
	}
	return nil
}

// GetByID obtiene una agencia por ID.
func (r *AgencyRepo) GetByID(ctx context.Context, id string) (*entity.Agency, error) {
	var a entity.Agency
	err := r.q.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM agencies WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agency: %w", err)
	}
	return &a, nil
}

// IsMember consulta si el usuario pertenece a la agencia.
func (r *AgencyRepo) IsMember(ctx context.Context, agencyID, userID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND agency_id = $2)`,
		userID, agencyID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return ok, nil
}

// ListMembers lista los usuarios de la agencia por orden de alta.
func (r *AgencyRepo) ListMembers(ctx context.Context, agencyID string) ([]entity.AgencyMember, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, email, name, role FROM users
		WHERE agency_id = $1 ORDER BY created_at`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()
	var list []entity.AgencyMember
	for rows.Next() {
		var m entity.AgencyMember
		if err := rows.Scan(&m.ID, &m.Email, &m.Name, &m.Role); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountCreators número de creators de la agencia.
func (r *AgencyRepo) CountCreators(ctx context.Context, agencyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM creators WHERE agency_id = $1`, agencyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count creators: %w", err)
	}
	return n, nil
}
