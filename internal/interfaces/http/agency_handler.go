package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/usecase"
)

// AgencyHandler aprovisionamiento y lectura de la agencia del usuario.
type AgencyHandler struct {
	uc *usecase.AgencyUseCase
}

// NewAgencyHandler construye el handler.
func NewAgencyHandler(uc *usecase.AgencyUseCase) *AgencyHandler {
	return &AgencyHandler{uc: uc}
}

// Provision godoc
// @Summary      Crear la agencia del usuario
// @Description  Crea la agencia, vincula al usuario como primer miembro y lo promueve a ADMIN.
// @Tags         agency
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProvisionAgencyRequest  true  "name, description"
// @Success      201   {object}  dto.AgencyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/agency [post]
func (h *AgencyHandler) Provision(c *fiber.Ctx) error {
	var in dto.ProvisionAgencyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Provision(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Agencia del usuario
// @Tags         agency
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AgencyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/agency [get]
func (h *AgencyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
