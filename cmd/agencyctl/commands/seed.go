package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Agencia-api/internal/application/access"
	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/internal/application/usecase"
	"github.com/jhoicas/Agencia-api/internal/domain"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
	"github.com/jhoicas/Agencia-api/internal/domain/repository"
	"github.com/jhoicas/Agencia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Agencia-api/internal/infrastructure/postgres"
)

type seedOptions struct {
	Email    string
	Password string
	Agency   string
	DryRun   bool
}

// seedBackend casos de uso sobre los que corre el seed (PostgreSQL o memoria).
type seedBackend struct {
	auth     *auth.AuthUseCase
	agencies *usecase.AgencyUseCase
	creators *usecase.CreatorUseCase
	deals    *usecase.DealUseCase
}

type seedReport struct {
	UserID   string
	AgencyID string
	Creators int
	Deals    int
	Skipped  bool
}

type sampleDeal struct {
	brand  string
	amount int64
	path   []entity.DealStatus
}

type sampleCreator struct {
	name     string
	niche    string
	platform string
	handle   string
	baseRate int64
	deals    []sampleDeal
}

var sampleData = []sampleCreator{
	{
		name: "Sarah Johnson", niche: "fitness", platform: "instagram", handle: "@sarahfit", baseRate: 100,
		deals: []sampleDeal{
			{brand: "Nike", amount: 5000, path: []entity.DealStatus{entity.DealNegotiating}},
			{brand: "Adidas", amount: 3200},
		},
	},
	{
		name: "Mike Chen", niche: "tech", platform: "youtube", handle: "@mikereviews", baseRate: 250,
		deals: []sampleDeal{
			{brand: "Samsung", amount: 12000, path: []entity.DealStatus{entity.DealActive, entity.DealCompleted}},
		},
	},
	{
		name: "Lucía Gómez", niche: "travel", platform: "tiktok", handle: "@luciaviaja", baseRate: 80,
		deals: []sampleDeal{
			{brand: "Airbnb", amount: 4000, path: []entity.DealStatus{entity.DealCancelled}},
		},
	},
}

func seedCmd() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea un usuario demo con su agencia, creators y deals de ejemplo",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				users    repository.UserRepository
				agencies repository.AgencyRepository
				creators repository.CreatorRepository
				deals    repository.DealRepository
				tx       ports.TxRunner
			)
			if opts.DryRun {
				store := memory.New()
				users, agencies, creators, deals, tx = store.Users(), store.Agencies(), store.Creators(), store.Deals(), store.TxRunner()
			} else {
				pool, err := postgres.NewPool(ctx, cfg.DB)
				if err != nil {
					return err
				}
				defer pool.Close()
				users = postgres.NewUserRepository(pool)
				agencies = postgres.NewAgencyRepository(pool)
				creators = postgres.NewCreatorRepository(pool)
				deals = postgres.NewDealRepository(pool)
				tx = postgres.NewTxRunner(pool)
			}

			resolver := auth.NewIdentityResolver(users, agencies)
			guard := access.NewGuard(agencies, creators, deals)
			backend := seedBackend{
				auth: auth.NewAuthUseCase(users, resolver, auth.JWTConfig{
					Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
				}),
				agencies: usecase.NewAgencyUseCase(tx, resolver, agencies),
				creators: usecase.NewCreatorUseCase(tx, resolver, guard, creators),
				deals:    usecase.NewDealUseCase(tx, resolver, guard, deals),
			}

			report, err := runSeed(ctx, backend, opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			log.Info().
				Str("user_id", report.UserID).
				Str("agency_id", report.AgencyID).
				Int("creators", report.Creators).
				Int("deals", report.Deals).
				Bool("dry_run", opts.DryRun).
				Msg("seed terminado")
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "demo@agencia.test", "email del usuario demo")
	cmd.Flags().StringVar(&opts.Password, "password", "demo12345", "password del usuario demo")
	cmd.Flags().StringVar(&opts.Agency, "agency", "Agencia Demo", "nombre de la agencia")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "ejecutar contra un almacén en memoria (no toca la BD)")
	return cmd
}

// runSeed es idempotente: si la agencia del usuario ya tiene creators no agrega nada.
func runSeed(ctx context.Context, b seedBackend, opts seedOptions, out io.Writer) (*seedReport, error) {
	userID, err := ensureUser(ctx, b.auth, opts)
	if err != nil {
		return nil, err
	}
	report := &seedReport{UserID: userID}

	if _, err := b.agencies.Provision(ctx, userID, dto.ProvisionAgencyRequest{Name: opts.Agency}); err != nil && !errors.Is(err, domain.ErrAgencyExists) {
		return nil, fmt.Errorf("aprovisionar agencia: %w", err)
	}
	agency, err := b.agencies.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("leer agencia: %w", err)
	}
	report.AgencyID = agency.ID
	if agency.CreatorCount > 0 {
		report.Skipped = true
		fmt.Fprintf(out, "La agencia %q ya tiene %d creators; no se agregan datos.\n", agency.Name, agency.CreatorCount)
		return report, nil
	}

	for _, sc := range sampleData {
		rate := decimal.NewFromInt(sc.baseRate)
		creator, err := b.creators.Create(ctx, userID, dto.CreateCreatorRequest{
			Name:          sc.name,
			Niche:         sc.niche,
			SocialHandles: map[string]dto.SocialHandleDTO{sc.platform: {Handle: sc.handle}},
			BaseRate:      &rate,
		})
		if err != nil {
			return nil, fmt.Errorf("crear creator %s: %w", sc.name, err)
		}
		report.Creators++

		for _, sd := range sc.deals {
			amount := decimal.NewFromInt(sd.amount)
			deal, err := b.deals.Create(ctx, userID, dto.CreateDealRequest{
				CreatorID: creator.ID,
				Brand:     sd.brand,
				Amount:    &amount,
			})
			if err != nil {
				return nil, fmt.Errorf("crear deal %s: %w", sd.brand, err)
			}
			for _, next := range sd.path {
				if _, err := b.deals.Transition(ctx, userID, deal.ID, dto.TransitionRequest{Status: string(next)}); err != nil {
					return nil, fmt.Errorf("deal %s -> %s: %w", sd.brand, next, err)
				}
			}
			report.Deals++
		}
	}

	fmt.Fprintf(out, "Usuario %s en agencia %q: %d creators, %d deals.\n", opts.Email, agency.Name, report.Creators, report.Deals)
	return report, nil
}

// ensureUser registra el usuario o, si ya existe, verifica su password con login.
func ensureUser(ctx context.Context, uc *auth.AuthUseCase, opts seedOptions) (string, error) {
	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: opts.Email, Password: opts.Password, Name: "Demo"})
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, domain.ErrEmailAlreadyExists) {
		return "", fmt.Errorf("registrar usuario: %w", err)
	}
	login, err := uc.Login(ctx, dto.LoginRequest{Email: opts.Email, Password: opts.Password})
	if err != nil {
		return "", fmt.Errorf("usuario existente: %w", err)
	}
	return login.User.ID, nil
}
