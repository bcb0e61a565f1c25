package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
)

// WorkHandler maneja trabajos de armado y su asociación con productos.
type WorkHandler struct {
	uc *usecase.WorkUseCase
}

// NewWorkHandler construye el handler.
func NewWorkHandler(uc *usecase.WorkUseCase) *WorkHandler {
	return &WorkHandler{uc: uc}
}

// Create godoc
// @Summary      Crear trabajo de armado
// @Tags         works
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkRequest  true  "Datos del trabajo"
// @Success      201   {object}  dto.WorkResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/works [post]
func (h *WorkHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar trabajos de armado
// @Tags         works
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.WorkResponse
// @Router       /api/works [get]
func (h *WorkHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Attach godoc
// @Summary      Asociar trabajo a un producto
// @Tags         works
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AttachWorkRequest  true  "Trabajo y cantidad"
// @Success      201
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/works [post]
func (h *WorkHandler) Attach(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.AttachWorkRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Attach(productID, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// ListByProduct godoc
// @Summary      Listar trabajos de un producto
// @Tags         works
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}  dto.ProductWorkResponse
// @Router       /api/products/{id}/works [get]
func (h *WorkHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.ListByProduct(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Detach godoc
// @Summary      Quitar trabajo de un producto
// @Tags         works
// @Security     Bearer
// @Param        linkID  path  string  true  "ID de la asociación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/product-works/{linkID} [delete]
func (h *WorkHandler) Detach(c *fiber.Ctx) error {
	linkID := c.Params("linkID")
	if linkID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "linkID es requerido"})
	}
	if err := h.uc.Detach(linkID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
