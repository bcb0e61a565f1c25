package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de producción externa (armado tercerizado).
const (
	OrderStatusPendingDelivery          = "PENDING_DELIVERY"
	OrderStatusOutForDelivery           = "OUT_FOR_DELIVERY"
	OrderStatusInAssembly               = "IN_ASSEMBLY"
	OrderStatusPendingPickup            = "PENDING_PICKUP"
	OrderStatusReturnInTransit          = "RETURN_IN_TRANSIT"
	OrderStatusCompleted                = "COMPLETED"
	OrderStatusCompletedWithNotes       = "COMPLETED_WITH_NOTES"
	OrderStatusCompletedWithDiscrepancy = "COMPLETED_WITH_DISCREPANCY"
	OrderStatusDeliveryFailed           = "DELIVERY_FAILED"
	OrderStatusCancelled                = "CANCELLED"
)

// ExternalOrder es una orden de armado colocada con un armador externo.
// Se crea al confirmar el envío de materiales y solo muta a través de las
// transiciones del ciclo de vida; nunca se elimina (cancelar es un estado
// terminal, no un borrado).
type ExternalOrder struct {
	ID               string
	ArmadorID        string
	Status           string
	DeliveryPersonID string // quien lleva los materiales al armador
	PickupPersonID   string // quien recoge el producto armado
	Notes            string // bitácora de texto, solo se anexa
	IsDiscrepancy    bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ExpectedAt       *time.Time

	Items   []*OrderItem    // materiales enviados
	Outputs []*OrderOutput  // salidas esperadas (producto armado)
	Steps   []*AssemblyStep // pasos de armado informativos, sin efecto en stock
}

// OrderItem es una línea de material enviado al armador.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal

	Product *Product // precargado por el repositorio
}

// OrderOutput es una línea de salida esperada: producto y cantidad que el
// armador debe devolver. ReceivedQty se fija al recibir.
type OrderOutput struct {
	ID          string
	OrderID     string
	ProductID   string
	ExpectedQty decimal.Decimal
	ReceivedQty decimal.Decimal

	Product *Product // precargado por el repositorio
}

// AssemblyStep es un paso de armado informativo derivado de la mano de obra
// del BOM. Guarda nombre y precio como snapshot al crear la orden.
type AssemblyStep struct {
	ID        string
	OrderID   string
	WorkID    string
	WorkName  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// IsTerminal indica si el estado no admite más transiciones.
func (o *ExternalOrder) IsTerminal() bool {
	switch o.Status {
	case OrderStatusCompleted, OrderStatusCompletedWithNotes,
		OrderStatusCompletedWithDiscrepancy, OrderStatusCancelled:
		return true
	}
	return false
}

// AppendNote anexa una entrada a la bitácora de la orden (nunca reemplaza).
func (o *ExternalOrder) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if o.Notes == "" {
		o.Notes = note
		return
	}
	o.Notes = o.Notes + "\n" + note
}
