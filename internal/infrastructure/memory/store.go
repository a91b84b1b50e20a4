// Package memory implementa los puertos de persistencia en memoria, con las mismas
// reglas que el esquema PostgreSQL (email único, FK creator->deals RESTRICT, una agencia
// por usuario). Las transacciones se serializan y se revierten con una instantánea.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
)

// ErrRestrict emula la violación de FK al borrar un creator con deals.
var ErrRestrict = errors.New("memory: creator todavía referenciado por deals")

type data struct {
	users    map[string]entity.User
	agencies map[string]entity.Agency
	creators map[string]entity.Creator
	deals    map[string]entity.Deal
	order    map[string]int64 // id -> secuencia de inserción
}

func (d *data) clone() *data {
	out := &data{
		users:    make(map[string]entity.User, len(d.users)),
		agencies: make(map[string]entity.Agency, len(d.agencies)),
		creators: make(map[string]entity.Creator, len(d.creators)),
		deals:    make(map[string]entity.Deal, len(d.deals)),
		order:    make(map[string]int64, len(d.order)),
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.agencies {
		out.agencies[k] = v
	}
	for k, v := range d.creators {
		out.creators[k] = v
	}
	for k, v := range d.deals {
		out.deals[k] = v
	}
	for k, v := range d.order {
		out.order[k] = v
	}
	return out
}

// Store almacén en memoria. El valor cero no es usable; usar New.
type Store struct {
	mu   sync.Mutex // protege d, seq y fail
	txMu sync.Mutex // serializa transacciones (equivale a los bloqueos de fila)
	d    *data
	seq  int64
	fail map[string]error
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{
		d: &data{
			users:    map[string]entity.User{},
			agencies: map[string]entity.Agency{},
			creators: map[string]entity.Creator{},
			deals:    map[string]entity.Deal{},
			order:    map[string]int64{},
		},
		fail: map[string]error{},
	}
}

// FailOn hace que la operación op (ej. "deals.DeleteByCreator") devuelva err.
// err nil elimina el fallo inyectado.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *Store) failure(op string) error {
	return s.fail[op]
}

func (s *Store) nextSeq(id string) {
	s.seq++
	s.d.order[id] = s.seq
}

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Agencies repositorio de agencias.
func (s *Store) Agencies() repository.AgencyRepository { return &agencyRepo{s} }

// Creators repositorio de creators.
func (s *Store) Creators() repository.CreatorRepository { return &creatorRepo{s} }

// Deals repositorio de deals.
func (s *Store) Deals() repository.DealRepository { return &dealRepo{s} }

// TxRunner runner transaccional sobre el almacén.
func (s *Store) TxRunner() ports.TxRunner { return &txRunner{s} }

// Counts número de filas por tabla, útil para verificar atomicidad.
func (s *Store) Counts() (users, agencies, creators, deals int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.d.users), len(s.d.agencies), len(s.d.creators), len(s.d.deals)
}

type txRunner struct{ s *Store }

// Run ejecuta fn de forma exclusiva; si devuelve error se restaura la instantánea previa.
func (t *txRunner) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return domain.Infra("begin transaction", err)
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	t.s.mu.Lock()
	snapshot := t.s.d.clone()
	t.s.mu.Unlock()

	err := fn(ports.TxRepos{
		Users:    t.s.Users(),
		Agencies: t.s.Agencies(),
		Creators: t.s.Creators(),
		Deals:    t.s.Deals(),
	})
	if err != nil {
		t.s.mu.Lock()
		t.s.d = snapshot
		t.s.mu.Unlock()
		return err
	}
	return nil
}

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("users.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.d.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.d.users[u.ID] = cloneUser(*u)
	r.s.nextSeq(u.ID)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, nil
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.d.users {
		if u.Email == email {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepo) AttachAgency(_ context.Context, userID, agencyID, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("users.AttachAgency"); err != nil {
		return err
	}
	u, ok := r.s.d.users[userID]
	if !ok || u.HasAgency() {
		return domain.ErrAgencyExists
	}
	id := agencyID
	u.AgencyID = &id
	u.Role = role
	r.s.d.users[userID] = u
	return nil
}

// ── agencies ─────────────────────────────────────────────────────────────────

type agencyRepo struct{ s *Store }

func (r *agencyRepo) Create(_ context.Context, a *entity.Agency) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("agencies.Create"); err != nil {
		return err
	}
	r.s.d.agencies[a.ID] = *a
	r.s.nextSeq(a.ID)
	return nil
}

func (r *agencyRepo) GetByID(_ context.Context, id string) (*entity.Agency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.d.agencies[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *agencyRepo) IsMember(_ context.Context, agencyID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("agencies.IsMember"); err != nil {
		return false, err
	}
	u, ok := r.s.d.users[userID]
	return ok && u.AgencyID != nil && *u.AgencyID == agencyID, nil
}

func (r *agencyRepo) ListMembers(_ context.Context, agencyID string) ([]entity.AgencyMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []entity.User
	for _, u := range r.s.d.users {
		if u.AgencyID != nil && *u.AgencyID == agencyID {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return r.s.d.order[users[i].ID] < r.s.d.order[users[j].ID] })
	out := make([]entity.AgencyMember, 0, len(users))
	for _, u := range users {
		out = append(out, entity.AgencyMember{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
	}
	return out, nil
}

func (r *agencyRepo) CountCreators(_ context.Context, agencyID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, c := range r.s.d.creators {
		if c.AgencyID == agencyID {
			n++
		}
	}
	return n, nil
}

// ── creators ─────────────────────────────────────────────────────────────────

type creatorRepo struct{ s *Store }

func (r *creatorRepo) Create(_ context.Context, c *entity.Creator) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("creators.Create"); err != nil {
		return err
	}
	if _, ok := r.s.d.agencies[c.AgencyID]; !ok {
		return fmt.Errorf("memory: agencia %s no existe", c.AgencyID)
	}
	r.s.d.creators[c.ID] = cloneCreator(*c)
	r.s.nextSeq(c.ID)
	return nil
}

func (r *creatorRepo) GetByID(_ context.Context, id string) (*entity.Creator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("creators.GetByID"); err != nil {
		return nil, err
	}
	c, ok := r.s.d.creators[id]
	if !ok {
		return nil, nil
	}
	out := cloneCreator(c)
	return &out, nil
}

func (r *creatorRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Creator, error) {
	return r.GetByID(ctx, id)
}

func (r *creatorRepo) Update(_ context.Context, c *entity.Creator) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("creators.Update"); err != nil {
		return err
	}
	prev, ok := r.s.d.creators[c.ID]
	if !ok {
		return nil
	}
	next := cloneCreator(*c)
	next.AgencyID = prev.AgencyID
	next.CreatedAt = prev.CreatedAt
	r.s.d.creators[c.ID] = next
	return nil
}

func (r *creatorRepo) ListByAgency(_ context.Context, agencyID string, limit, offset int) ([]*entity.CreatorSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id, c := range r.s.d.creators {
		if c.AgencyID == agencyID {
			ids = append(ids, id)
		}
	}
	ids = r.s.newestFirst(ids, limit, offset)
	out := make([]*entity.CreatorSummary, 0, len(ids))
	for _, id := range ids {
		sum := entity.CreatorSummary{Creator: cloneCreator(r.s.d.creators[id]), DealsAmounts: map[string]decimal.Decimal{}}
		for _, d := range r.s.d.deals {
			if d.CreatorID != id {
				continue
			}
			sum.DealCount++
			if d.Amount != nil {
				sum.DealsAmounts[d.Currency] = sum.DealsAmounts[d.Currency].Add(*d.Amount)
			}
		}
		out = append(out, &sum)
	}
	return out, nil
}

func (r *creatorRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("creators.Delete"); err != nil {
		return err
	}
	for _, d := range r.s.d.deals {
		if d.CreatorID == id {
			return ErrRestrict
		}
	}
	delete(r.s.d.creators, id)
	delete(r.s.d.order, id)
	return nil
}

// ── deals ────────────────────────────────────────────────────────────────────

type dealRepo struct{ s *Store }

func (r *dealRepo) Create(_ context.Context, d *entity.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("deals.Create"); err != nil {
		return err
	}
	if _, ok := r.s.d.creators[d.CreatorID]; !ok {
		return fmt.Errorf("%w: creator %s ya no existe", domain.ErrForbidden, d.CreatorID)
	}
	r.s.d.deals[d.ID] = *d
	r.s.nextSeq(d.ID)
	return nil
}

func (r *dealRepo) GetByID(_ context.Context, id string) (*entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("deals.GetByID"); err != nil {
		return nil, err
	}
	d, ok := r.s.d.deals[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *dealRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Deal, error) {
	return r.GetByID(ctx, id)
}

func (r *dealRepo) Update(_ context.Context, d *entity.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("deals.Update"); err != nil {
		return err
	}
	prev, ok := r.s.d.deals[d.ID]
	if !ok {
		return nil
	}
	next := *d
	next.CreatorID = prev.CreatorID
	next.CreatedAt = prev.CreatedAt
	r.s.d.deals[d.ID] = next
	return nil
}

func (r *dealRepo) List(_ context.Context, f repository.DealFilter) ([]*entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id, d := range r.s.d.deals {
		c, ok := r.s.d.creators[d.CreatorID]
		if !ok || c.AgencyID != f.AgencyID {
			continue
		}
		if f.CreatorID != "" && d.CreatorID != f.CreatorID {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		ids = append(ids, id)
	}
	ids = r.s.newestFirst(ids, f.Limit, f.Offset)
	out := make([]*entity.Deal, 0, len(ids))
	for _, id := range ids {
		d := r.s.d.deals[id]
		out = append(out, &d)
	}
	return out, nil
}

func (r *dealRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("deals.Delete"); err != nil {
		return err
	}
	delete(r.s.d.deals, id)
	delete(r.s.d.order, id)
	return nil
}

func (r *dealRepo) DeleteByCreator(_ context.Context, creatorID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("deals.DeleteByCreator"); err != nil {
		return 0, err
	}
	var n int64
	for id, d := range r.s.d.deals {
		if d.CreatorID == creatorID {
			delete(r.s.d.deals, id)
			delete(r.s.d.order, id)
			n++
		}
	}
	return n, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// newestFirst ordena por inserción descendente y aplica la paginación. Llamar con mu tomado.
func (s *Store) newestFirst(ids []string, limit, offset int) []string {
	sort.Slice(ids, func(i, j int) bool { return s.d.order[ids[i]] > s.d.order[ids[j]] })
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}

func cloneUser(u entity.User) entity.User {
	if u.AgencyID != nil {
		id := *u.AgencyID
		u.AgencyID = &id
	}
	return u
}

func cloneCreator(c entity.Creator) entity.Creator {
	handles := make(map[string]entity.SocialHandle, len(c.SocialHandles))
	for k, v := range c.SocialHandles {
		handles[k] = v
	}
	c.SocialHandles = handles
	return c
}
