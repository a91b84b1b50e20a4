package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/usecase"
)

// AIHandler endpoints de redacción asistida. Nunca modifican datos.
type AIHandler struct {
	uc *usecase.AIUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// DraftEmail godoc
// @Summary      Redactar correo con IA
// @Description  Tipos: outreach, negotiation, followup, collaboration, thank_you.
// @Description  Tonos: professional (por defecto), friendly, casual, formal.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmailDraftRequest  true  "type y context"
// @Success      200   {object}  dto.EmailDraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Failure      504   {object}  dto.ErrorResponse
// @Router       /api/ai/email [post]
func (h *AIHandler) DraftEmail(c *fiber.Ctx) error {
	var in dto.EmailDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.DraftEmail(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DraftSponsorshipReply godoc
// @Summary      Responder propuesta de patrocinio con IA
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SponsorshipReplyRequest  true  "creator_id, email_body, follower_count"
// @Success      200   {object}  dto.SponsorshipReplyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/ai/sponsorship-reply [post]
func (h *AIHandler) DraftSponsorshipReply(c *fiber.Ctx) error {
	var in dto.SponsorshipReplyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.DraftSponsorshipReply(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
