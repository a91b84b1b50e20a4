package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Agencia-api/internal/application/access"
	appanalytics "github.com/jhoicas/Agencia-api/internal/application/analytics"
	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/usecase"
	infraai "github.com/jhoicas/Agencia-api/internal/infrastructure/ai"
	"github.com/jhoicas/Agencia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Agencia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Agencia-api/internal/interfaces/http"
	"github.com/jhoicas/Agencia-api/pkg/config"
	"github.com/jhoicas/Agencia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("ai_provider", cfg.AI.Provider).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	agencyRepo := postgres.NewAgencyRepository(pool)
	creatorRepo := postgres.NewCreatorRepository(pool)
	dealRepo := postgres.NewDealRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := auth.NewIdentityResolver(userRepo, agencyRepo)
	guard := access.NewGuard(agencyRepo, creatorRepo, dealRepo)

	if cfg.AI.APIKey() == "" {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("sin API key de IA: /api/ai responderá 502")
	}
	llm := infraai.NewLLMService(cfg.AI)

	authUC := auth.NewAuthUseCase(userRepo, resolver, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.AI.Timeout() + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger())

	// Swagger UI: http://localhost:<port>/docs (solo si el archivo existe)
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Agencia API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger no disponible")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		AgencyUC:    usecase.NewAgencyUseCase(txRunner, resolver, agencyRepo),
		CreatorUC:   usecase.NewCreatorUseCase(txRunner, resolver, guard, creatorRepo),
		DealUC:      usecase.NewDealUseCase(txRunner, resolver, guard, dealRepo),
		AIUC:        usecase.NewAIUseCase(llm, resolver, guard, cfg.AI.Timeout()),
		DashboardUC: appanalytics.NewDashboardUseCase(resolver, agencyRepo, postgres.NewAnalyticsRepository(pool)),
		BriefUC:     usecase.NewDealBriefUseCase(resolver, guard, agencyRepo, pdf.NewMarotoBriefGenerator()),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
