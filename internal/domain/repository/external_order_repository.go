package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ExternalOrderRepository define el puerto de persistencia para órdenes de
// producción externa. GetForUpdate bloquea la cabecera de la orden: junto
// con la re-validación del estado dentro de la transacción, es el mecanismo
// de exclusión mutua entre transiciones concurrentes.
type ExternalOrderRepository interface {
	// Create persiste la orden con sus items, salidas esperadas y pasos.
	Create(order *entity.ExternalOrder) error
	GetByID(id string) (*entity.ExternalOrder, error)
	GetForUpdate(id string) (*entity.ExternalOrder, error)
	// Update persiste la cabecera: estado, personas asignadas, bitácora, discrepancia.
	Update(order *entity.ExternalOrder) error
	UpdateOutputReceived(outputID string, received decimal.Decimal) error
	List(status string, limit, offset int) ([]*entity.ExternalOrder, error)
}
