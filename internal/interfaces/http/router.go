package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Agencia-api/internal/application/analytics"
	"github.com/jhoicas/Agencia-api/internal/application/auth"
	"github.com/jhoicas/Agencia-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	AgencyUC    *usecase.AgencyUseCase
	CreatorUC   *usecase.CreatorUseCase
	DealUC      *usecase.DealUseCase
	AIUC        *usecase.AIUseCase
	DashboardUC *appanalytics.DashboardUseCase
	BriefUC     *usecase.DealBriefUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	agencyHandler := NewAgencyHandler(deps.AgencyUC)
	protected.Post("/agency", agencyHandler.Provision)
	protected.Get("/agency", agencyHandler.Get)

	creators := protected.Group("/creators")
	creatorHandler := NewCreatorHandler(deps.CreatorUC)
	creators.Post("/", creatorHandler.Create)
	creators.Get("/", creatorHandler.List)
	creators.Get("/:id", creatorHandler.GetByID)
	creators.Put("/:id", creatorHandler.Update)
	creators.Delete("/:id", creatorHandler.Delete)

	deals := protected.Group("/deals")
	dealHandler := NewDealHandler(deps.DealUC)
	deals.Post("/", dealHandler.Create)
	deals.Get("/", dealHandler.List)
	deals.Get("/:id", dealHandler.GetByID)
	deals.Put("/:id", dealHandler.Update)
	deals.Delete("/:id", dealHandler.Delete)
	deals.Post("/:id/transition", dealHandler.Transition)
	deals.Get("/:id/transitions", dealHandler.Transitions)
	deals.Get("/:id/brief", NewDealBriefHandler(deps.BriefUC).Download)

	ai := protected.Group("/ai")
	aiHandler := NewAIHandler(deps.AIUC)
	ai.Post("/email", aiHandler.DraftEmail)
	ai.Post("/sponsorship-reply", aiHandler.DraftSponsorshipReply)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)
}
