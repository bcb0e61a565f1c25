package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

func TestIsIncomeType(t *testing.T) {
	assert.True(t, entity.IsIncomeType(entity.MovementTypePurchase))
	assert.True(t, entity.IsIncomeType(entity.MovementTypeProductionIn))
	assert.True(t, entity.IsIncomeType(entity.MovementTypeReceivedFromAssembler))

	assert.False(t, entity.IsIncomeType(entity.MovementTypeSale))
	assert.False(t, entity.IsIncomeType(entity.MovementTypeProductionOut))
	assert.False(t, entity.IsIncomeType(entity.MovementTypeSentToAssembler))
	assert.False(t, entity.IsIncomeType(entity.MovementTypeWastage))
}

func TestReverseMovementType(t *testing.T) {
	// Las entradas se reversan como ajuste de salida y viceversa.
	assert.Equal(t, entity.MovementTypeAdjustmentOut, entity.ReverseMovementType(entity.MovementTypePurchase))
	assert.Equal(t, entity.MovementTypeAdjustmentOut, entity.ReverseMovementType(entity.MovementTypeProductionIn))
	assert.Equal(t, entity.MovementTypeAdjustmentIn, entity.ReverseMovementType(entity.MovementTypeSale))
	assert.Equal(t, entity.MovementTypeAdjustmentIn, entity.ReverseMovementType(entity.MovementTypeProductionOut))
	assert.Equal(t, entity.MovementTypeAdjustmentIn, entity.ReverseMovementType(entity.MovementTypeSentToAssembler))
}

func TestSignedQuantity(t *testing.T) {
	in := &entity.InventoryMovement{Type: entity.MovementTypePurchase, Quantity: decimal.NewFromInt(5)}
	out := &entity.InventoryMovement{Type: entity.MovementTypeSale, Quantity: decimal.NewFromInt(5)}

	assert.True(t, in.SignedQuantity().Equal(decimal.NewFromInt(5)))
	assert.True(t, out.SignedQuantity().Equal(decimal.NewFromInt(-5)))
}

func TestIsReversal(t *testing.T) {
	original := "mov-1"
	assert.False(t, (&entity.InventoryMovement{}).IsReversal())
	assert.True(t, (&entity.InventoryMovement{ReversalOfID: &original}).IsReversal())
}
