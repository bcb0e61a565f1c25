package repository

import (
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia del libro de
// movimientos. Los movimientos son inmutables: la única mutación permitida es
// fijar reversed_by_movement_id en la misma transacción que crea la reversa.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	// GetForUpdate bloquea la fila del movimiento para que dos reversas
	// concurrentes del mismo movimiento no puedan aplicarse ambas.
	GetForUpdate(id string) (*entity.InventoryMovement, error)
	ListByEvent(eventID string) ([]*entity.InventoryMovement, error)
	ListByEventForUpdate(eventID string) ([]*entity.InventoryMovement, error)
	SetReversedBy(movementID, reversalID string) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	List(limit, offset int) ([]*entity.InventoryMovement, error)
}
