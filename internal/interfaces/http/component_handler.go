package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
)

// ComponentHandler maneja las aristas del árbol de componentes de un producto.
type ComponentHandler struct {
	uc *usecase.ComponentUseCase
}

// NewComponentHandler construye el handler.
func NewComponentHandler(uc *usecase.ComponentUseCase) *ComponentHandler {
	return &ComponentHandler{uc: uc}
}

// Add godoc
// @Summary      Agregar componente a un producto
// @Tags         components
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AddComponentRequest  true  "Componente y cantidad"
// @Success      201   {object}  dto.ComponentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/components [post]
func (h *ComponentHandler) Add(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.AddComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Add(productID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar componentes de un producto
// @Tags         components
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}  dto.ComponentResponse
// @Router       /api/products/{id}/components [get]
func (h *ComponentHandler) List(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.List(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Quitar componente (arista)
// @Tags         components
// @Security     Bearer
// @Param        edgeID  path  string  true  "ID de la arista"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/components/{edgeID} [delete]
func (h *ComponentHandler) Remove(c *fiber.Ctx) error {
	edgeID := c.Params("edgeID")
	if edgeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "edgeID es requerido"})
	}
	if err := h.uc.Remove(edgeID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
