package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Agencia-api/internal/application/usecase"
)

// DealBriefHandler descarga la ficha PDF de un deal.
type DealBriefHandler struct {
	uc *usecase.DealBriefUseCase
}

// NewDealBriefHandler construye el handler.
func NewDealBriefHandler(uc *usecase.DealBriefUseCase) *DealBriefHandler {
	return &DealBriefHandler{uc: uc}
}

// Download godoc
// @Summary      Ficha PDF del deal
// @Tags         deals
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del deal"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deals/{id}/brief [get]
func (h *DealBriefHandler) Download(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Download(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(pdf)
}
