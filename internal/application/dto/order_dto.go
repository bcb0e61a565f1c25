package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de CreateOrderRequest.
const (
	OrderModeDryRun = "dry_run"
	OrderModeCommit = "commit"
)

// CreateOrderRequest crea una orden de producción externa, o simula su
// creación si Mode es dry_run (sin escrituras).
type CreateOrderRequest struct {
	ArmadorID  string          `json:"armador_id"`
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Mode       string          `json:"mode"` // dry_run | commit (default commit)
	Note       string          `json:"note"`
	ExpectedAt *time.Time      `json:"expected_at"`
}

// TransitionOrderRequest aplica una transición del ciclo de vida.
// Payload según transición: assign_delivery/assign_pickup usan PersonID,
// report_delivery_failure y receive_goods usan Note, receive_goods además
// usa Received y Justified.
type TransitionOrderRequest struct {
	Transition string                     `json:"transition"`
	PersonID   string                     `json:"person_id"`
	Note       string                     `json:"note"`
	Received   map[string]decimal.Decimal `json:"received"`
	Justified  bool                       `json:"justified"`
}

// OrderItemDTO línea de material enviado.
type OrderItemDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// OrderOutputDTO línea de salida esperada/recibida.
type OrderOutputDTO struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	ExpectedQty decimal.Decimal `json:"expected_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
}

// OrderStepDTO paso de armado informativo.
type OrderStepDTO struct {
	WorkID    string          `json:"work_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse representación de salida de una orden externa.
type OrderResponse struct {
	ID               string           `json:"id"`
	ArmadorID        string           `json:"armador_id"`
	Status           string           `json:"status"`
	DeliveryPersonID string           `json:"delivery_person_id,omitempty"`
	PickupPersonID   string           `json:"pickup_person_id,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	IsDiscrepancy    bool             `json:"is_discrepancy"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	ExpectedAt       *time.Time       `json:"expected_at,omitempty"`
	Items            []OrderItemDTO   `json:"items"`
	Outputs          []OrderOutputDTO `json:"outputs"`
	Steps            []OrderStepDTO   `json:"steps"`
}

// OrderListResponse listado paginado de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
