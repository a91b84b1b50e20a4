package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Agencia-api/internal/application/access"
	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/usecase"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/infrastructure/memory"
)

// fakeLLM colaborador de redacción controlable desde el test.
type fakeLLM struct {
	mu      sync.Mutex
	text    string
	err     error
	block   bool
	calls   int
	systems []string
	prompts []string
}

func (f *fakeLLM) Draft(ctx context.Context, system, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, prompt)
	block, text, err := f.block, f.text, f.err
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return text, err
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fixture struct {
	ctx     context.Context
	store   *memory.Store
	llm     *fakeLLM
	agency  *usecase.AgencyUseCase
	creator *usecase.CreatorUseCase
	deal    *usecase.DealUseCase
	ai      *usecase.AIUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	resolver := auth.NewIdentityResolver(store.Users(), store.Agencies())
	guard := access.NewGuard(store.Agencies(), store.Creators(), store.Deals())
	llm := &fakeLLM{text: "Subject: Hola\n\nBorrador"}
	return &fixture{
		ctx:     context.Background(),
		store:   store,
		llm:     llm,
		agency:  usecase.NewAgencyUseCase(store.TxRunner(), resolver, store.Agencies()),
		creator: usecase.NewCreatorUseCase(store.TxRunner(), resolver, guard, store.Creators()),
		deal:    usecase.NewDealUseCase(store.TxRunner(), resolver, guard, store.Deals()),
		ai:      usecase.NewAIUseCase(llm, resolver, guard, 200*time.Millisecond),
	}
}

// newUser inserta un usuario sin agencia y devuelve su id (principal).
func (f *fixture) newUser(t *testing.T, email string) string {
	t.Helper()
	now := time.Now().UTC()
	u := &entity.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      email,
		Role:      entity.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	return u.ID
}

// newAgencyUser crea un usuario y le aprovisiona una agencia.
func (f *fixture) newAgencyUser(t *testing.T, email, agencyName string) (string, *dto.AgencyResponse) {
	t.Helper()
	userID := f.newUser(t, email)
	agency, err := f.agency.Provision(f.ctx, userID, dto.ProvisionAgencyRequest{Name: agencyName})
	require.NoError(t, err)
	return userID, agency
}

func (f *fixture) newCreator(t *testing.T, principal, name string) *dto.CreatorResponse {
	t.Helper()
	out, err := f.creator.Create(f.ctx, principal, dto.CreateCreatorRequest{Name: name, Niche: "fitness"})
	require.NoError(t, err)
	return out
}

func (f *fixture) newDeal(t *testing.T, principal, creatorID, brand string) *dto.DealResponse {
	t.Helper()
	amount := decimal.NewFromInt(5000)
	out, err := f.deal.Create(f.ctx, principal, dto.CreateDealRequest{CreatorID: creatorID, Brand: brand, Amount: &amount})
	require.NoError(t, err)
	return out
}

func strPtr(s string) *string { return &s }
