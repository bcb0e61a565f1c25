package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/production"
)

// ProductionHandler maneja el motor de producción: explosión del BOM,
// producción interna, compras, ventas, reversas y el libro de movimientos.
type ProductionHandler struct {
	uc      *production.UseCase
	history *production.HistoryUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.UseCase, history *production.HistoryUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc, history: history}
}

// ExplodeBOM godoc
// @Summary      Explosión del BOM (simulación, solo lectura)
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del producto"
// @Param        quantity  query  string  true   "Cantidad a producir"
// @Success      200  {object}  dto.BOMPreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/production/bom/{id} [get]
func (h *ProductionHandler) ExplodeBOM(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	quantity, err := decimal.NewFromString(c.Query("quantity", "1"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity inválida"})
	}
	out, err := h.uc.ExplodeBOM(c.Context(), productID, quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CommitInternal godoc
// @Summary      Confirmar producción interna
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InternalProductionRequest  true  "Producto y cantidad"
// @Success      201   {object}  dto.MovementBatchResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/production/internal [post]
func (h *ProductionHandler) CommitInternal(c *fiber.Ctx) error {
	var in dto.InternalProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CommitInternalProduction(c.Context(), in.ProductID, in.Quantity, GetUserID(c), in.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CommitPurchase godoc
// @Summary      Confirmar compra de materia prima
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "Producto y cantidad"
// @Success      201   {object}  dto.MovementResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/production/purchases [post]
func (h *ProductionHandler) CommitPurchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CommitPurchase(c.Context(), in.ProductID, in.Quantity, GetUserID(c), in.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CommitSale godoc
// @Summary      Confirmar venta de producto terminado
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Producto y cantidad"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/production/sales [post]
func (h *ProductionHandler) CommitSale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CommitSale(c.Context(), in.ProductID, in.Quantity, GetUserID(c), in.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReverseMovement godoc
// @Summary      Reversar un movimiento (y su grupo de evento)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      201  {object}  dto.MovementBatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/reverse [post]
func (h *ProductionHandler) ReverseMovement(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.ReverseMovement(c.Context(), id, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos del libro
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *ProductionHandler) ListMovements(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.history.List(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListProductMovements godoc
// @Summary      Listar movimientos de un producto
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.MovementResponse
// @Router       /api/products/{id}/movements [get]
func (h *ProductionHandler) ListProductMovements(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	limit, offset := pageParams(c)
	out, err := h.history.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListEventMovements godoc
// @Summary      Listar movimientos de un grupo de evento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        eventID  path  string  true  "ID del evento"
// @Success      200      {array}  dto.MovementResponse
// @Router       /api/movements/events/{eventID} [get]
func (h *ProductionHandler) ListEventMovements(c *fiber.Ctx) error {
	eventID := c.Params("eventID")
	if eventID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "eventID es requerido"})
	}
	out, err := h.history.ListByEvent(eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
