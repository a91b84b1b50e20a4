package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/usecase"
)

// DealHandler maneja las peticiones HTTP para Deal (protegido).
type DealHandler struct {
	uc *usecase.DealUseCase
}

// NewDealHandler construye el handler.
func NewDealHandler(uc *usecase.DealUseCase) *DealHandler {
	return &DealHandler{uc: uc}
}

// Create godoc
// @Summary      Crear deal
// @Description  El deal nace en estado PENDING. El creator debe pertenecer a la agencia del usuario.
// @Tags         deals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDealRequest  true  "Datos del deal"
// @Success      201   {object}  dto.DealResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/deals [post]
func (h *DealHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDealRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar deals de la agencia
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        creator_id  query  string  false  "Filtrar por creator"
// @Param        status      query  string  false  "Filtrar por estado"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.DealListResponse
// @Router       /api/deals [get]
func (h *DealHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), c.Query("creator_id"), c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener deal por ID
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del deal"
// @Success      200  {object}  dto.DealResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deals/{id} [get]
func (h *DealHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar deal
// @Description  Si status cambia debe ser una transición permitida; si no, 422 y el deal queda intacto.
// @Tags         deals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del deal"
// @Param        body  body  dto.UpdateDealRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.DealResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/deals/{id} [put]
func (h *DealHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDealRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Cambiar estado del deal
// @Tags         deals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del deal"
// @Param        body  body  dto.TransitionRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.DealResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/deals/{id}/transition [post]
func (h *DealHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Transition(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transitions godoc
// @Summary      Estados alcanzables desde el estado actual
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del deal"
// @Success      200  {object}  dto.DealTransitionsResponse
// @Router       /api/deals/{id}/transitions [get]
func (h *DealHandler) Transitions(c *fiber.Ctx) error {
	out, err := h.uc.AllowedTransitions(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar deal
// @Tags         deals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del deal"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/deals/{id} [delete]
func (h *DealHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "deal eliminado"})
}
