package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMMaterialDTO requerimiento agregado de un material en la explosión del BOM.
type BOMMaterialDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Stock     decimal.Decimal `json:"stock"`
}

// BOMLaborDTO requerimiento agregado de mano de obra.
type BOMLaborDTO struct {
	WorkID    string          `json:"work_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// BOMShortageDTO faltante detectado durante la explosión.
type BOMShortageDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
}

// BOMPreviewResponse resultado de la explosión del BOM (solo lectura).
type BOMPreviewResponse struct {
	ProductID      string           `json:"product_id"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Materials      []BOMMaterialDTO `json:"materials"`
	Labor          []BOMLaborDTO    `json:"labor"`
	Shortages      []BOMShortageDTO `json:"shortages"`
	TotalLaborCost decimal.Decimal  `json:"total_labor_cost"`
	Feasible       bool             `json:"feasible"`
}

// InternalProductionRequest confirma una producción interna.
type InternalProductionRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note"`
}

// PurchaseRequest confirma una compra de materia prima.
type PurchaseRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note"`
}

// SaleRequest confirma una venta de producto terminado.
type SaleRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note"`
}

// MovementResponse representación de salida de un movimiento del libro.
type MovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	ActorID      string          `json:"actor_id"`
	Note         string          `json:"note,omitempty"`
	EventID      string          `json:"event_id,omitempty"`
	ReversalOfID *string         `json:"reversal_of_movement_id,omitempty"`
	ReversedByID *string         `json:"reversed_by_movement_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MovementBatchResponse movimientos creados por una operación (mismo event id).
type MovementBatchResponse struct {
	EventID   string             `json:"event_id"`
	Movements []MovementResponse `json:"movements"`
}
