package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/orders"
)

// OrderHandler maneja las órdenes de producción externa: creación (con
// simulación opcional), consulta, transiciones del ciclo de vida y remisión.
type OrderHandler struct {
	uc    *orders.UseCase
	pdfUC *orders.PDFUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase, pdfUC *orders.PDFUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Crear orden de producción externa (mode=dry_run simula)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Armador, producto y cantidad"
// @Success      200   {object}  dto.BOMPreviewResponse  "mode=dry_run"
// @Success      201   {object}  dto.OrderResponse       "mode=commit"
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Create(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if result.Preview != nil {
		return c.JSON(result.Preview)
	}
	return c.Status(fiber.StatusCreated).JSON(result.Order)
}

// GetByID godoc
// @Summary      Obtener orden por ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Aplicar transición del ciclo de vida
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.TransitionOrderRequest  true  "Transición y payload"
// @Success      200   {object}  dto.OrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/transitions [post]
func (h *OrderHandler) Transition(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.TransitionOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Transition(c.Context(), id, in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DownloadDispatchPDF godoc
// @Summary      Descargar remisión (PDF) de la orden
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) DownloadDispatchPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	pdfBytes, filename, err := h.pdfUC.DownloadDispatchPDF(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
