package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario. La cantidad siempre es positiva;
// la dirección (entrada/salida) la determina el tipo.
const (
	MovementTypePurchase              = "PURCHASE"
	MovementTypeProductionIn          = "PRODUCTION_IN"
	MovementTypeProductionOut         = "PRODUCTION_OUT"
	MovementTypeSale                  = "SALE"
	MovementTypeCustomerReturn        = "CUSTOMER_RETURN"
	MovementTypeAdjustmentIn          = "ADJUSTMENT_IN"
	MovementTypeAdjustmentOut         = "ADJUSTMENT_OUT"
	MovementTypeWastage               = "WASTAGE"
	MovementTypeSentToAssembler       = "SENT_TO_ASSEMBLER"
	MovementTypeReceivedFromAssembler = "RECEIVED_FROM_ASSEMBLER"
)

// incomeTypes son los tipos que suman stock; el resto resta.
var incomeTypes = map[string]bool{
	MovementTypePurchase:              true,
	MovementTypeProductionIn:          true,
	MovementTypeCustomerReturn:        true,
	MovementTypeAdjustmentIn:          true,
	MovementTypeReceivedFromAssembler: true,
}

// IsIncomeType indica si el tipo suma stock.
func IsIncomeType(t string) bool { return incomeTypes[t] }

// ReverseMovementType devuelve el tipo de la reversa: las entradas se
// reversan como ADJUSTMENT_OUT y las salidas como ADJUSTMENT_IN.
func ReverseMovementType(t string) string {
	if IsIncomeType(t) {
		return MovementTypeAdjustmentOut
	}
	return MovementTypeAdjustmentIn
}

// InventoryMovement es una entrada inmutable del libro de inventario.
// Nunca se modifica ni se elimina: el "deshacer" es un movimiento nuevo
// en dirección contraria (reversa) referenciado por ReversedByID.
type InventoryMovement struct {
	ID        string
	ProductID string
	Type      string
	Quantity  decimal.Decimal // siempre positiva
	ActorID   string
	Note      string
	EventID   string // correlaciona movimientos de una misma operación lógica; vacío = sin grupo

	// ReversalOfID apunta al movimiento original cuando este movimiento es una reversa.
	ReversalOfID *string
	// ReversedByID apunta a la reversa cuando este movimiento ya fue reversado.
	// Se fija en la misma transacción que crea la reversa.
	ReversedByID *string

	CreatedAt time.Time
}

// SignedQuantity devuelve la cantidad con signo según la dirección del tipo.
func (m *InventoryMovement) SignedQuantity() decimal.Decimal {
	if IsIncomeType(m.Type) {
		return m.Quantity
	}
	return m.Quantity.Neg()
}

// IsReversal indica si el movimiento es una reversa de otro.
func (m *InventoryMovement) IsReversal() bool { return m.ReversalOfID != nil }
