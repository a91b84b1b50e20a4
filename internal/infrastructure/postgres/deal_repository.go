package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

var _ repository.DealRepository = (*DealRepo)(nil)

const dealColumns = `d.id, d.creator_id, d.brand, d.contact_name, d.contact_email, d.amount, d.currency, d.status,
	d.description, d.requirements, d.deliverables, d.notes, d.next_action_at, d.contract_url, d.created_at, d.updated_at`

// DealRepo implementación del puerto DealRepository sobre PostgreSQL (usable con pool o tx).
type DealRepo struct {
	q Querier
}

// NewDealRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDealRepository(q Querier) *DealRepo {
	return &DealRepo{q: q}
}

// Create persiste un nuevo deal. Si el creator desapareció entre la verificación y el
// insert, la FK lo rechaza y se reporta como acceso denegado.
func (r *DealRepo) Create(ctx context.Context, d *entity.Deal) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO deals (id, creator_id, brand, contact_name, contact_email, amount, currency, status,
			description, requirements, deliverables, notes, next_action_at, contract_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		d.ID, d.CreatorID, d.Brand, d.ContactName, d.ContactEmail, d.Amount, d.Currency, string(d.Status),
		d.Description, d.Requirements, d.Deliverables, d.Notes, d.NextActionAt, d.ContractURL,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: creator %s ya no existe", domain.ErrForbidden, d.CreatorID)
		}
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

// GetByID obtiene un deal por ID.
func (r *DealRepo) GetByID(ctx context.Context, id string) (*entity.Deal, error) {
	return r.findOne(ctx, `SELECT `+dealColumns+` FROM deals d WHERE d.id = $1`, id)
}

// GetByIDForUpdate obtiene el deal bloqueando su fila hasta el fin de la tx.
func (r *DealRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Deal, error) {
	return r.findOne(ctx, `SELECT `+dealColumns+` FROM deals d WHERE d.id = $1 FOR UPDATE`, id)
}

// Update persiste campos editables y estado. creator_id no se toca.
func (r *DealRepo) Update(ctx context.Context, d *entity.Deal) error {
	_, err := r.q.Exec(ctx, `
		UPDATE deals SET brand = $2, contact_name = $3, contact_email = $4, amount = $5, currency = $6,
			status = $7, description = $8, requirements = $9, deliverables = $10, notes = $11,
			next_action_at = $12, contract_url = $13, updated_at = $14
		WHERE id = $1`,
		d.ID, d.Brand, d.ContactName, d.ContactEmail, d.Amount, d.Currency, string(d.Status),
		d.Description, d.Requirements, d.Deliverables, d.Notes, d.NextActionAt, d.ContractURL, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	return nil
}

// List lista los deals de los creators de una agencia, más recientes primero.
func (r *DealRepo) List(ctx context.Context, f repository.DealFilter) ([]*entity.Deal, error) {
	var (
		where = []string{"c.agency_id = $1"}
		args  = []any{f.AgencyID}
	)
	if f.CreatorID != "" {
		args = append(args, f.CreatorID)
		where = append(where, fmt.Sprintf("d.creator_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("d.status = $%d", len(args)))
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM deals d
		JOIN creators c ON c.id = d.creator_id
		WHERE %s
		ORDER BY d.created_at DESC
		LIMIT $%d OFFSET $%d`,
		dealColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete elimina un deal por ID.
func (r *DealRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	return nil
}

// DeleteByCreator elimina todos los deals del creator.
func (r *DealRepo) DeleteByCreator(ctx context.Context, creatorID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM deals WHERE creator_id = $1`, creatorID)
	if err != nil {
		return 0, fmt.Errorf("delete deals by creator: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *DealRepo) findOne(ctx context.Context, query, id string) (*entity.Deal, error) {
	if !isUUID(id) {
		return nil, nil
	}
	d, err := scanDeal(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

// rowScanner lo común entre pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeal(row rowScanner) (*entity.Deal, error) {
	var (
		d      entity.Deal
		status string
	)
	if err := row.Scan(
		&d.ID, &d.CreatorID, &d.Brand, &d.ContactName, &d.ContactEmail, &d.Amount, &d.Currency, &status,
		&d.Description, &d.Requirements, &d.Deliverables, &d.Notes, &d.NextActionAt, &d.ContractURL,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.Status = entity.DealStatus(status)
	return &d, nil
}
