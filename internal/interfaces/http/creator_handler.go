package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Agencia-api/internal/application/dto"
	"github.com/jhoicas/Agencia-api/internal/application/usecase"
)

// CreatorHandler maneja las peticiones HTTP para Creator (protegido).
type CreatorHandler struct {
	uc *usecase.CreatorUseCase
}

// NewCreatorHandler construye el handler.
func NewCreatorHandler(uc *usecase.CreatorUseCase) *CreatorHandler {
	return &CreatorHandler{uc: uc}
}

// Create godoc
// @Summary      Crear creator
// @Tags         creators
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCreatorRequest  true  "Datos del creator"
// @Success      201   {object}  dto.CreatorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/creators [post]
func (h *CreatorHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCreatorRequest
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
// @Summary      Listar creators de la agencia
// @Tags         creators
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.CreatorListResponse
// @Router       /api/creators [get]
func (h *CreatorHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener creator por ID
// @Tags         creators
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del creator"
// @Success      200  {object}  dto.CreatorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/creators/{id} [get]
func (h *CreatorHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar creator
// @Tags         creators
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del creator"
// @Param        body  body  dto.UpdateCreatorRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CreatorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/creators/{id} [put]
func (h *CreatorHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCreatorRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar creator y sus deals
// @Tags         creators
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del creator"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/creators/{id} [delete]
func (h *CreatorHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "creator eliminado"})
}
