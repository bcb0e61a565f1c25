package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
)

// ArmadorHandler maneja las peticiones HTTP para armadores externos.
type ArmadorHandler struct {
	uc *usecase.ArmadorUseCase
}

// NewArmadorHandler construye el handler.
func NewArmadorHandler(uc *usecase.ArmadorUseCase) *ArmadorHandler {
	return &ArmadorHandler{uc: uc}
}

// Create godoc
// @Summary      Crear armador
// @Tags         armadores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateArmadorRequest  true  "Datos del armador"
// @Success      201   {object}  dto.ArmadorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/armadores [post]
func (h *ArmadorHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateArmadorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener armador por ID
// @Tags         armadores
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del armador"
// @Success      200  {object}  dto.ArmadorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/armadores/{id} [get]
func (h *ArmadorHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar armadores
// @Tags         armadores
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.ArmadorResponse
// @Router       /api/armadores [get]
func (h *ArmadorHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
