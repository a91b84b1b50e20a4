package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Agencia-api/internal/application/analytics"
	"github.com/jhoicas/Agencia-api/internal/application/dto"
)

// DashboardHandler maneja el resumen de la agencia.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen de la agencia
// @Description  Embudo de deals por estado, ingresos COMPLETED del período, top creators y próximas acciones (7 días).
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD)"
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	var in dto.DashboardRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	summary, err := h.uc.GetSummary(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
